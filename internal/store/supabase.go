package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"

	"livecaption/api-gateway/models"
)

const (
	transcriptsTable = "transcripts"
	usersTable       = "users"
)

// SupabaseStore implements DocumentStore and UserStore on a Supabase
// project. Segments live in a jsonb column; appends are read-modify-write
// because PostgREST has no array push, and the session manager is the only
// writer for a live transcript so the read cannot race another append.
type SupabaseStore struct {
	client *supa.Client
	log    *logrus.Logger
}

func NewSupabaseStore(client *supa.Client, log *logrus.Logger) *SupabaseStore {
	return &SupabaseStore{client: client, log: log}
}

func (s *SupabaseStore) CreateTranscript(_ context.Context, fields TranscriptFields) (uuid.UUID, error) {
	transcript := models.Transcript{
		ID:        uuid.New(),
		UserID:    fields.UserID,
		Title:     fields.Title,
		MediaKind: fields.MediaKind,
		MediaURL:  fields.MediaURL,
		Language:  fields.Language,
		Segments:  []models.Segment{},
		CreatedAt: time.Now().UTC(),
	}

	var created []models.Transcript
	body, _, err := s.client.From(transcriptsTable).
		Insert(transcript, false, "representation", "", "").
		Execute()
	if err != nil {
		return uuid.Nil, &PersistenceError{Op: "create transcript", Err: err}
	}
	if err := json.Unmarshal(body, &created); err != nil || len(created) == 0 {
		return uuid.Nil, &PersistenceError{Op: "create transcript", Err: fmt.Errorf("unexpected insert response: %s", string(body))}
	}
	return created[0].ID, nil
}

func (s *SupabaseStore) AppendSegmentAndSetText(ctx context.Context, id uuid.UUID, seg models.Segment, cumulativeText string) error {
	existing, err := s.GetTranscript(ctx, id)
	if err != nil {
		if _, ok := err.(*PersistenceError); ok {
			return err
		}
		return &PersistenceError{Op: "append segment", Err: err}
	}

	update := map[string]interface{}{
		"segments":      append(existing.Segments, seg),
		"transcription": cumulativeText,
	}
	_, _, err = s.client.From(transcriptsTable).
		Update(update, "", "minimal").
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return &PersistenceError{Op: "append segment", Err: err}
	}
	return nil
}

func (s *SupabaseStore) SetFinal(_ context.Context, id uuid.UUID, duration float64, cumulativeText string) error {
	update := map[string]interface{}{
		"duration":      duration,
		"transcription": cumulativeText,
	}
	_, _, err := s.client.From(transcriptsTable).
		Update(update, "", "minimal").
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return &PersistenceError{Op: "set final", Err: err}
	}
	return nil
}

func (s *SupabaseStore) ListTranscripts(_ context.Context, userID uuid.UUID) ([]models.Transcript, error) {
	var transcripts []models.Transcript
	body, _, err := s.client.From(transcriptsTable).
		Select("*", "", false).
		Eq("user_id", userID.String()).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, &PersistenceError{Op: "list transcripts", Err: err}
	}
	if err := json.Unmarshal(body, &transcripts); err != nil {
		return nil, &PersistenceError{Op: "list transcripts", Err: err}
	}
	if transcripts == nil {
		transcripts = []models.Transcript{}
	}
	return transcripts, nil
}

func (s *SupabaseStore) GetTranscript(_ context.Context, id uuid.UUID) (*models.Transcript, error) {
	var transcripts []models.Transcript
	body, _, err := s.client.From(transcriptsTable).
		Select("*", "", false).
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return nil, &PersistenceError{Op: "get transcript", Err: err}
	}
	if err := json.Unmarshal(body, &transcripts); err != nil {
		s.log.WithField("body", string(body)).Error("Failed to unmarshal transcript")
		return nil, &PersistenceError{Op: "get transcript", Err: err}
	}
	if len(transcripts) == 0 {
		return nil, ErrNotFound
	}
	return &transcripts[0], nil
}

func (s *SupabaseStore) DeleteTranscript(_ context.Context, id uuid.UUID) error {
	_, count, err := s.client.From(transcriptsTable).
		Delete("minimal", "exact").
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return &PersistenceError{Op: "delete transcript", Err: err}
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SupabaseStore) CreateUser(ctx context.Context, user models.User) error {
	if existing, err := s.GetUserByEmail(ctx, user.Email); err == nil && existing != nil {
		return &PersistenceError{Op: "create user", Err: ErrDuplicateEmail}
	}

	row := supabaseUserRow{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Preferences:  user.Preferences,
		CreatedAt:    user.CreatedAt,
	}
	_, _, err := s.client.From(usersTable).
		Insert(row, false, "minimal", "", "").
		Execute()
	if err != nil {
		return &PersistenceError{Op: "create user", Err: err}
	}
	return nil
}

func (s *SupabaseStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	return s.getUser("email", email)
}

func (s *SupabaseStore) GetUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	return s.getUser("id", id.String())
}

func (s *SupabaseStore) UpdatePreferences(ctx context.Context, id uuid.UUID, prefs models.Preferences) (*models.User, error) {
	_, _, err := s.client.From(usersTable).
		Update(map[string]interface{}{"preferences": prefs}, "", "minimal").
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return nil, &PersistenceError{Op: "update preferences", Err: err}
	}
	return s.GetUserByID(ctx, id)
}

func (s *SupabaseStore) getUser(column, value string) (*models.User, error) {
	var rows []supabaseUserRow
	body, _, err := s.client.From(usersTable).
		Select("*", "", false).
		Eq(column, value).
		Execute()
	if err != nil {
		return nil, &PersistenceError{Op: "get user", Err: err}
	}
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, &PersistenceError{Op: "get user", Err: err}
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	row := rows[0]
	return &models.User{
		ID:           row.ID,
		Name:         row.Name,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		Preferences:  row.Preferences,
		CreatedAt:    row.CreatedAt,
	}, nil
}

// supabaseUserRow mirrors models.User but serializes the password hash,
// which the API model deliberately hides.
type supabaseUserRow struct {
	ID           uuid.UUID          `json:"id"`
	Name         string             `json:"name"`
	Email        string             `json:"email"`
	PasswordHash string             `json:"password_hash"`
	Preferences  models.Preferences `json:"preferences"`
	CreatedAt    time.Time          `json:"created_at"`
}
