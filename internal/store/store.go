// Package store defines the durable document store consumed by the caption
// pipeline, with a Supabase-backed implementation for production and an
// in-memory one for tests and local development.
package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"livecaption/api-gateway/models"
)

// PersistenceError reports a failed durable operation. Callers distinguish it
// from protocol errors because a failed start must abort session creation
// while a failed segment append must not.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// TranscriptFields carries the initial values for a new transcript record.
type TranscriptFields struct {
	UserID    uuid.UUID
	Title     string
	MediaKind models.MediaKind
	MediaURL  string
	Language  string
}

// DocumentStore is the durable home of transcripts. AppendSegmentAndSetText
// writes the segment and the cumulative text together so the record converges
// to the concatenation invariant after the last successful write.
type DocumentStore interface {
	CreateTranscript(ctx context.Context, fields TranscriptFields) (uuid.UUID, error)
	AppendSegmentAndSetText(ctx context.Context, id uuid.UUID, seg models.Segment, cumulativeText string) error
	SetFinal(ctx context.Context, id uuid.UUID, duration float64, cumulativeText string) error
	ListTranscripts(ctx context.Context, userID uuid.UUID) ([]models.Transcript, error)
	GetTranscript(ctx context.Context, id uuid.UUID) (*models.Transcript, error)
	DeleteTranscript(ctx context.Context, id uuid.UUID) error
}

// UserStore is the durable home of registered users.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdatePreferences(ctx context.Context, id uuid.UUID, prefs models.Preferences) (*models.User, error)
}

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = fmt.Errorf("store: record not found")

// ErrDuplicateEmail is returned when registering an email that already has an
// account.
var ErrDuplicateEmail = fmt.Errorf("store: email already registered")
