package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"livecaption/api-gateway/internal/normalize"
	"livecaption/api-gateway/internal/store"
	"livecaption/api-gateway/internal/timing"
	"livecaption/api-gateway/internal/translate"
	"livecaption/api-gateway/models"
)

// QueueConfig tunes the per-session durable write queues. Zero values fall
// back to the defaults.
type QueueConfig struct {
	Size         int
	Retries      int
	RetryDelay   time.Duration
	FlushTimeout time.Duration
}

func (c QueueConfig) withDefaults() QueueConfig {
	if c.Size <= 0 {
		c.Size = 64
	}
	if c.Retries < 0 {
		c.Retries = 0
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = 250 * time.Millisecond
	}
	if c.FlushTimeout <= 0 {
		c.FlushTimeout = 5 * time.Second
	}
	return c
}

// Manager drives the caption session lifecycle. It is the only writer of
// session state; different connections proceed fully in parallel while each
// connection's segments are applied in receipt order.
type Manager struct {
	sessions   *Store
	docs       store.DocumentStore
	translator translate.Translator
	log        *logrus.Logger
	queue      QueueConfig
}

func NewManager(docs store.DocumentStore, translator translate.Translator, log *logrus.Logger, queue QueueConfig) *Manager {
	return &Manager{
		sessions:   NewStore(),
		docs:       docs,
		translator: translator,
		log:        log,
		queue:      queue.withDefaults(),
	}
}

// StartParams carries the start event fields.
type StartParams struct {
	Title          string
	MediaKind      models.MediaKind
	MediaURL       string
	Language       string
	TargetLanguage string
	UserID         uuid.UUID
}

// StartSession creates the durable transcript record and registers the
// in-memory session. The durable create happens first: if it fails no
// session is registered. A connection with an open session gets
// ErrDuplicateSession and the open session is untouched.
func (m *Manager) StartSession(ctx context.Context, connectionID string, p StartParams) (uuid.UUID, error) {
	if _, exists := m.sessions.Get(connectionID); exists {
		return uuid.Nil, ErrDuplicateSession
	}

	if p.Title == "" {
		p.Title = "Microphone session"
	}
	if p.MediaKind == "" {
		p.MediaKind = models.MediaKindAudio
	}
	if p.MediaURL == "" {
		p.MediaURL = "microphone"
	}
	if p.Language == "" {
		p.Language = "en"
	}

	transcriptID, err := m.docs.CreateTranscript(ctx, store.TranscriptFields{
		UserID:    p.UserID,
		Title:     p.Title,
		MediaKind: p.MediaKind,
		MediaURL:  p.MediaURL,
		Language:  p.Language,
	})
	if err != nil {
		return uuid.Nil, err
	}

	sess := &Session{
		ConnectionID:   connectionID,
		TranscriptID:   transcriptID,
		UserID:         p.UserID,
		Title:          p.Title,
		MediaKind:      p.MediaKind,
		MediaURL:       p.MediaURL,
		Language:       p.Language,
		TargetLanguage: p.TargetLanguage,
		queue:          newWriteQueue(transcriptID, m.docs, m.log, m.queue.Size, m.queue.Retries, m.queue.RetryDelay),
	}
	if err := m.sessions.Put(sess); err != nil {
		sess.queue.Stop(m.queue.FlushTimeout)
		return uuid.Nil, err
	}

	m.log.WithFields(logrus.Fields{
		"connection_id": connectionID,
		"transcript_id": transcriptID.String(),
		"language":      p.Language,
	}).Info("Caption session started")
	return transcriptID, nil
}

// SegmentParams carries the segment event fields. End is optional; when nil
// it is estimated from the normalized text length.
type SegmentParams struct {
	Start          float64
	End            *float64
	Text           string
	TargetLanguage string
}

// SegmentResult is what the caller is told about one segment submission.
// Appended is false for the valid no-op case of text that normalizes to
// empty.
type SegmentResult struct {
	Segment        models.Segment
	CumulativeText string
	Appended       bool
}

// SubmitSegment normalizes, translates and appends one recognized segment.
// Success is defined by the in-memory update; the durable append is queued
// and its failure never rolls the session back.
func (m *Manager) SubmitSegment(_ context.Context, connectionID string, p SegmentParams) (SegmentResult, error) {
	sess, ok := m.sessions.Get(connectionID)
	if !ok {
		return SegmentResult{}, ErrNoActiveSession
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	cleaned := normalize.Clean(p.Text)
	if cleaned == "" {
		// All filler or whitespace: a valid no-op, not an error.
		return SegmentResult{CumulativeText: sess.cumulative}, nil
	}

	target := p.TargetLanguage
	if target == "" {
		target = sess.TargetLanguage
	}
	if target == "" {
		target = sess.Language
	}
	text := m.translator.Translate(cleaned, target)

	end := p.Start + timing.Duration(cleaned)
	if p.End != nil {
		if *p.End < p.Start {
			return SegmentResult{}, fmt.Errorf("segment end %.3f precedes start %.3f", *p.End, p.Start)
		}
		end = *p.End
	}

	seg := models.Segment{Start: p.Start, End: end, Text: text}
	sess.segments = append(sess.segments, seg)
	sess.cumulative = strings.TrimSpace(sess.cumulative + " " + text)
	sess.queue.Enqueue(seg, sess.cumulative)

	return SegmentResult{Segment: seg, CumulativeText: sess.cumulative, Appended: true}, nil
}

// CompleteSession flushes pending appends, writes the final duration and
// cumulative text, and removes the session. On a persistence failure the
// session stays registered so the caller can retry.
func (m *Manager) CompleteSession(ctx context.Context, connectionID string, duration float64) error {
	sess, ok := m.sessions.Get(connectionID)
	if !ok {
		return ErrNoActiveSession
	}

	flushCtx, cancel := context.WithTimeout(ctx, m.queue.FlushTimeout)
	defer cancel()
	if err := sess.queue.Flush(flushCtx); err != nil {
		m.log.WithError(err).WithField("transcript_id", sess.TranscriptID.String()).
			Warn("Completing session with unflushed durable appends")
	}

	if err := m.docs.SetFinal(ctx, sess.TranscriptID, duration, sess.CumulativeText()); err != nil {
		return err
	}

	m.sessions.Delete(connectionID)
	sess.queue.Stop(m.queue.FlushTimeout)

	m.log.WithFields(logrus.Fields{
		"connection_id": connectionID,
		"transcript_id": sess.TranscriptID.String(),
		"duration":      duration,
	}).Info("Caption session completed")
	return nil
}

// AbandonSession tears down the session on connection loss. Already-queued
// appends are drained best-effort but no final durable write is issued, so
// the transcript keeps every segment persisted before the disconnect and may
// lack a finalized duration.
func (m *Manager) AbandonSession(connectionID string) {
	sess, ok := m.sessions.Delete(connectionID)
	if !ok {
		return
	}
	sess.queue.Stop(m.queue.FlushTimeout)

	m.log.WithFields(logrus.Fields{
		"connection_id": connectionID,
		"transcript_id": sess.TranscriptID.String(),
	}).Info("Caption session abandoned on disconnect")
}

// Session exposes the live session for a connection.
func (m *Manager) Session(connectionID string) (*Session, bool) {
	return m.sessions.Get(connectionID)
}

// ActiveSessions reports the number of open sessions across all
// connections.
func (m *Manager) ActiveSessions() int {
	return m.sessions.Len()
}
