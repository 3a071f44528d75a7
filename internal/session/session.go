// Package session drives the live caption session lifecycle: per-connection
// state, the start/segment/complete protocol and the asynchronous durable
// writes behind it.
package session

import (
	"sync"

	"github.com/google/uuid"

	"livecaption/api-gateway/models"
)

// Session is the ephemeral state of one open captioning interaction. The
// in-memory cumulative text is authoritative until persistence confirms; the
// durable record trails it by whatever writes are still queued.
type Session struct {
	ConnectionID   string
	TranscriptID   uuid.UUID
	UserID         uuid.UUID
	Title          string
	MediaKind      models.MediaKind
	MediaURL       string
	Language       string
	TargetLanguage string

	mu         sync.Mutex
	segments   []models.Segment
	cumulative string
	queue      *writeQueue
}

// CumulativeText returns the running transcript text.
func (s *Session) CumulativeText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cumulative
}

// Segments returns a copy of the appended segments in arrival order.
func (s *Session) Segments() []models.Segment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Segment(nil), s.segments...)
}

// PendingWrites reports how many durable appends are queued but not yet
// confirmed.
func (s *Session) PendingWrites() int {
	return s.queue.Pending()
}

// Store owns all live sessions, keyed by connection identity. Lookups,
// inserts and deletes across connections are safe concurrently; mutation of
// one session's transcript state is serialized by the session's own lock.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Put registers a session, failing with ErrDuplicateSession when the
// connection already has one.
func (s *Store) Put(sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sessions[sess.ConnectionID]; exists {
		return ErrDuplicateSession
	}
	s.sessions[sess.ConnectionID] = sess
	return nil
}

// Get looks up the session for a connection.
func (s *Store) Get(connectionID string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[connectionID]
	return sess, ok
}

// Delete removes and returns the session for a connection.
func (s *Store) Delete(connectionID string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[connectionID]
	if ok {
		delete(s.sessions, connectionID)
	}
	return sess, ok
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
