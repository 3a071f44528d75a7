package models

import (
	"time"

	"github.com/google/uuid"
)

// Preferences holds per-user caption display settings.
type Preferences struct {
	FontSize           int     `json:"font_size"`
	CaptionColor       string  `json:"caption_color"`
	BgOpacity          float64 `json:"bg_opacity"`
	AutoScroll         bool    `json:"auto_scroll"`
	SoundNotifications bool    `json:"sound_notifications"`
	DarkMode           bool    `json:"dark_mode"`
}

// User represents the structure of a registered user in the database.
// PasswordHash is a bcrypt hash and is never serialized in responses.
type User struct {
	ID           uuid.UUID   `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Preferences  Preferences `json:"preferences"`
	CreatedAt    time.Time   `json:"created_at"`
}
