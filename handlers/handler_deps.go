package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"livecaption/api-gateway/config"
	"livecaption/api-gateway/internal/session"
	"livecaption/api-gateway/internal/store"
)

// ApplicationHandler holds shared dependencies for handlers.
type ApplicationHandler struct {
	Logger      *logrus.Logger
	Config      *config.Config
	Transcripts store.DocumentStore
	Users       store.UserStore
	Sessions    *session.Manager

	validate *validator.Validate
}

// NewApplicationHandler creates a new ApplicationHandler with the given dependencies.
func NewApplicationHandler(cfg *config.Config, logger *logrus.Logger, transcripts store.DocumentStore, users store.UserStore, sessions *session.Manager) *ApplicationHandler {
	return &ApplicationHandler{
		Logger:      logger,
		Config:      cfg,
		Transcripts: transcripts,
		Users:       users,
		Sessions:    sessions,
		validate:    validator.New(),
	}
}
