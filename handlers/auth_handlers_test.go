package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"livecaption/api-gateway/config"
	"livecaption/api-gateway/internal/session"
	"livecaption/api-gateway/internal/store"
	"livecaption/api-gateway/internal/translate"
	"livecaption/api-gateway/middleware"
	"livecaption/api-gateway/models"
)

func newTestApp() (*fiber.App, *ApplicationHandler, *store.MemoryStore) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	memStore := store.NewMemoryStore()
	cfg := &config.Config{JWTSecret: "test-secret", UploadsDir: "uploads"}
	sessions := session.NewManager(memStore, translate.NewRuleTranslator(), log, session.QueueConfig{})
	h := NewApplicationHandler(cfg, log, memStore, memStore, sessions)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")

	auth := apiV1.Group("/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Get("/profile", middleware.RequireAuth(cfg.JWTSecret), h.GetProfile)
	auth.Patch("/preferences", middleware.RequireAuth(cfg.JWTSecret), h.UpdatePreferences)

	captions := apiV1.Group("/captions", middleware.RequireAuth(cfg.JWTSecret))
	captions.Get("", h.ListTranscripts)
	captions.Get("/:id", h.GetTranscript)
	captions.Delete("/:id", h.DeleteTranscript)
	captions.Get("/:id/download", h.DownloadTranscript)
	captions.Get("/:id/active", h.GetActiveCaption)

	return app, h, memStore
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	raw, _ := io.ReadAll(resp.Body)
	var decoded map[string]interface{}
	if len(raw) > 0 && strings.Contains(resp.Header.Get(fiber.HeaderContentType), "json") {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp, decoded
}

func registerAndLogin(t *testing.T, app *fiber.App) (userID uuid.UUID, token string) {
	t.Helper()

	email := gofakeit.Email()
	password := "hunter22"
	resp, body := doJSON(t, app, fiber.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name": gofakeit.Name(), "email": email, "password": password,
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("register: status %d body %v", resp.StatusCode, body)
	}
	data := body["data"].(map[string]interface{})
	userID, err := uuid.Parse(data["id"].(string))
	if err != nil {
		t.Fatalf("register response id: %v", err)
	}

	resp, body = doJSON(t, app, fiber.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": email, "password": password,
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("login: status %d body %v", resp.StatusCode, body)
	}
	token = body["data"].(map[string]interface{})["token"].(string)
	if token == "" {
		t.Fatal("login returned empty token")
	}
	return userID, token
}

func TestRegisterValidation(t *testing.T) {
	app, _, _ := newTestApp()

	resp, _ := doJSON(t, app, fiber.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name": "No Email", "password": "hunter22",
	})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("missing email: status %d, want 400", resp.StatusCode)
	}

	email := gofakeit.Email()
	payload := map[string]string{"name": "Dup", "email": email, "password": "hunter22"}
	if resp, _ := doJSON(t, app, fiber.MethodPost, "/api/v1/auth/register", "", payload); resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("first register: status %d", resp.StatusCode)
	}
	if resp, _ := doJSON(t, app, fiber.MethodPost, "/api/v1/auth/register", "", payload); resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("duplicate register: status %d, want 400", resp.StatusCode)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	app, _, _ := newTestApp()

	email := gofakeit.Email()
	doJSON(t, app, fiber.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name": "User", "email": email, "password": "hunter22",
	})

	resp, _ := doJSON(t, app, fiber.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": email, "password": "wrong",
	})
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("wrong password: status %d, want 401", resp.StatusCode)
	}
}

func TestProfileAndPreferences(t *testing.T) {
	app, _, _ := newTestApp()
	_, token := registerAndLogin(t, app)

	resp, body := doJSON(t, app, fiber.MethodGet, "/api/v1/auth/profile", token, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("profile: status %d body %v", resp.StatusCode, body)
	}

	resp, body = doJSON(t, app, fiber.MethodPatch, "/api/v1/auth/preferences", token, map[string]interface{}{
		"font_size": 24, "dark_mode": true,
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("preferences: status %d body %v", resp.StatusCode, body)
	}
	prefs := body["data"].(map[string]interface{})["preferences"].(map[string]interface{})
	if prefs["font_size"].(float64) != 24 || prefs["dark_mode"].(bool) != true {
		t.Errorf("preferences not stored: %v", prefs)
	}

	if resp, _ := doJSON(t, app, fiber.MethodGet, "/api/v1/auth/profile", "", nil); resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("no token: status %d, want 401", resp.StatusCode)
	}
}

func TestTranscriptHistoryEndpoints(t *testing.T) {
	app, _, memStore := newTestApp()
	userID, token := registerAndLogin(t, app)
	ctx := context.Background()

	transcriptID, err := memStore.CreateTranscript(ctx, store.TranscriptFields{
		UserID: userID, Title: "Demo", MediaKind: models.MediaKindAudio, Language: "en",
	})
	if err != nil {
		t.Fatalf("CreateTranscript: %v", err)
	}
	if err := memStore.AppendSegmentAndSetText(ctx, transcriptID,
		models.Segment{Start: 0, End: 2, Text: "Hello there"}, "Hello there"); err != nil {
		t.Fatalf("AppendSegmentAndSetText: %v", err)
	}
	// Another user's transcript must stay invisible.
	if _, err := memStore.CreateTranscript(ctx, store.TranscriptFields{
		UserID: uuid.New(), Title: "Foreign", MediaKind: models.MediaKindVideo, Language: "en",
	}); err != nil {
		t.Fatalf("CreateTranscript(foreign): %v", err)
	}

	resp, body := doJSON(t, app, fiber.MethodGet, "/api/v1/captions", token, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("list: status %d", resp.StatusCode)
	}
	if items := body["data"].([]interface{}); len(items) != 1 {
		t.Errorf("list: got %d transcripts, want 1", len(items))
	}

	resp, _ = doJSON(t, app, fiber.MethodGet, fmt.Sprintf("/api/v1/captions/%s", transcriptID), token, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("get: status %d, want 200", resp.StatusCode)
	}

	req, _ := http.NewRequest(fiber.MethodGet, fmt.Sprintf("/api/v1/captions/%s/download?format=srt", transcriptID), nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	dlResp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	srtBody, _ := io.ReadAll(dlResp.Body)
	if !strings.Contains(string(srtBody), "00:00:00,000 --> 00:00:02,000") {
		t.Errorf("srt download body: %q", string(srtBody))
	}

	resp, body = doJSON(t, app, fiber.MethodGet, fmt.Sprintf("/api/v1/captions/%s/active?t=1.5", transcriptID), token, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("active: status %d", resp.StatusCode)
	}
	active := body["data"].(map[string]interface{})
	if active["index"].(float64) != 0 {
		t.Errorf("active index at t=1.5: got %v, want 0", active["index"])
	}
	resp, body = doJSON(t, app, fiber.MethodGet, fmt.Sprintf("/api/v1/captions/%s/active?t=9", transcriptID), token, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("active past end: status %d", resp.StatusCode)
	}
	if body["data"].(map[string]interface{})["index"].(float64) != -1 {
		t.Errorf("active index at t=9: got %v, want -1", body["data"].(map[string]interface{})["index"])
	}

	resp, _ = doJSON(t, app, fiber.MethodDelete, fmt.Sprintf("/api/v1/captions/%s", transcriptID), token, nil)
	if resp.StatusCode != fiber.StatusNoContent {
		t.Errorf("delete: status %d, want 204", resp.StatusCode)
	}
	resp, _ = doJSON(t, app, fiber.MethodGet, fmt.Sprintf("/api/v1/captions/%s", transcriptID), token, nil)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("get after delete: status %d, want 404", resp.StatusCode)
	}
}
