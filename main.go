package main

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"livecaption/api-gateway/config"
	"livecaption/api-gateway/handlers"
	"livecaption/api-gateway/internal/session"
	"livecaption/api-gateway/internal/store"
	"livecaption/api-gateway/internal/translate"
	"livecaption/api-gateway/middleware"
	"livecaption/api-gateway/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	config.InitLogger(cfg.LogLevel)

	if err := os.MkdirAll(cfg.UploadsDir, 0o755); err != nil {
		config.Log.WithError(err).Fatal("Failed to create uploads directory")
	}

	var transcripts store.DocumentStore
	var users store.UserStore
	client, err := config.NewSupabaseClient(cfg)
	if err != nil {
		config.Log.WithError(err).Fatal("Failed to initialize Supabase")
	}
	if client != nil {
		supaStore := store.NewSupabaseStore(client, config.Log)
		transcripts, users = supaStore, supaStore
		config.Log.Info("Using Supabase document store")
	} else {
		memStore := store.NewMemoryStore()
		transcripts, users = memStore, memStore
		config.Log.Warn("SUPABASE_URL not set; using in-memory stores (data is lost on restart)")
	}

	sessions := session.NewManager(transcripts, translate.NewRuleTranslator(), config.Log, session.QueueConfig{
		Size:       cfg.WriteQueueSize,
		Retries:    cfg.WriteRetries,
		RetryDelay: 250 * time.Millisecond,
	})

	h := handlers.NewApplicationHandler(cfg, config.Log, transcripts, users, sessions)

	app := fiber.New(fiber.Config{
		BodyLimit: 512 * 1024 * 1024, // media uploads
	})

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.FrontendURL,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, Range",
	}))
	app.Use(middleware.RequestLogger(config.Log))

	// Uploaded media is served statically; the client seeds its playback
	// clock from these URLs.
	app.Static("/uploads", cfg.UploadsDir, fiber.Static{ByteRange: true})

	// Health check route
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":          "ok",
			"active_sessions": sessions.ActiveSessions(),
		})
	})

	// Caption session websocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return utils.RespondWithError(c, fiber.StatusUpgradeRequired, "Websocket upgrade required")
	})
	app.Get("/ws/captions", websocket.New(h.CaptionSocketHandler))

	// API v1 routes
	apiV1 := app.Group("/api/v1")

	auth := apiV1.Group("/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Get("/profile", middleware.RequireAuth(cfg.JWTSecret), h.GetProfile)
	auth.Patch("/preferences", middleware.RequireAuth(cfg.JWTSecret), h.UpdatePreferences)

	apiV1.Post("/uploads", middleware.RequireAuth(cfg.JWTSecret), h.UploadMedia)

	captions := apiV1.Group("/captions", middleware.RequireAuth(cfg.JWTSecret))
	captions.Get("", h.ListTranscripts)
	captions.Get("/:id", h.GetTranscript)
	captions.Delete("/:id", h.DeleteTranscript)
	captions.Get("/:id/download", h.DownloadTranscript)
	captions.Get("/:id/active", h.GetActiveCaption)

	config.Log.Infof("Starting API Gateway on port %s...", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
