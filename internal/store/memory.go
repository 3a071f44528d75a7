package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"livecaption/api-gateway/models"
)

// MemoryStore is a process-local DocumentStore and UserStore. It backs tests
// and local development without a Supabase project.
type MemoryStore struct {
	mu          sync.RWMutex
	transcripts map[uuid.UUID]*models.Transcript
	users       map[uuid.UUID]*models.User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		transcripts: make(map[uuid.UUID]*models.Transcript),
		users:       make(map[uuid.UUID]*models.User),
	}
}

func (s *MemoryStore) CreateTranscript(_ context.Context, fields TranscriptFields) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New()
	s.transcripts[id] = &models.Transcript{
		ID:        id,
		UserID:    fields.UserID,
		Title:     fields.Title,
		MediaKind: fields.MediaKind,
		MediaURL:  fields.MediaURL,
		Language:  fields.Language,
		Segments:  []models.Segment{},
		CreatedAt: time.Now().UTC(),
	}
	return id, nil
}

func (s *MemoryStore) AppendSegmentAndSetText(_ context.Context, id uuid.UUID, seg models.Segment, cumulativeText string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	transcript, ok := s.transcripts[id]
	if !ok {
		return &PersistenceError{Op: "append segment", Err: ErrNotFound}
	}
	transcript.Segments = append(transcript.Segments, seg)
	transcript.Transcription = cumulativeText
	return nil
}

func (s *MemoryStore) SetFinal(_ context.Context, id uuid.UUID, duration float64, cumulativeText string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	transcript, ok := s.transcripts[id]
	if !ok {
		return &PersistenceError{Op: "set final", Err: ErrNotFound}
	}
	transcript.Duration = duration
	transcript.Transcription = cumulativeText
	return nil
}

func (s *MemoryStore) ListTranscripts(_ context.Context, userID uuid.UUID) ([]models.Transcript, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Transcript
	for _, transcript := range s.transcripts {
		if transcript.UserID == userID {
			out = append(out, *transcript)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) GetTranscript(_ context.Context, id uuid.UUID) (*models.Transcript, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	transcript, ok := s.transcripts[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *transcript
	copied.Segments = append([]models.Segment(nil), transcript.Segments...)
	return &copied, nil
}

func (s *MemoryStore) DeleteTranscript(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.transcripts[id]; !ok {
		return ErrNotFound
	}
	delete(s.transcripts, id)
	return nil
}

func (s *MemoryStore) CreateUser(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return &PersistenceError{Op: "create user", Err: ErrDuplicateEmail}
		}
	}
	copied := user
	s.users[user.ID] = &copied
	return nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *MemoryStore) UpdatePreferences(_ context.Context, id uuid.UUID, prefs models.Preferences) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	user.Preferences = prefs
	copied := *user
	return &copied, nil
}
