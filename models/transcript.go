package models

import (
	"time"

	"github.com/google/uuid"
)

// MediaKind distinguishes audio-only captures from video captures.
type MediaKind string

const (
	MediaKindAudio MediaKind = "audio"
	MediaKindVideo MediaKind = "video"
)

// Segment is a single timed span of caption text.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Transcript represents the structure of a caption transcript in the database.
// Transcription always equals the space-joined concatenation of Segments in
// order; both fields are written together on every append.
type Transcript struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	Title         string    `json:"title"`
	MediaKind     MediaKind `json:"media_kind"`
	MediaURL      string    `json:"media_url"`
	Language      string    `json:"language"`
	Segments      []Segment `json:"segments"`
	Transcription string    `json:"transcription"`
	Duration      float64   `json:"duration"`
	CreatedAt     time.Time `json:"created_at"`
}
