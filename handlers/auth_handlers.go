package handlers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"livecaption/api-gateway/internal/store"
	"livecaption/api-gateway/middleware"
	"livecaption/api-gateway/models"
	"livecaption/api-gateway/utils"
)

const tokenTTL = 7 * 24 * time.Hour

// RegisterPayload defines the structure for creating a new account.
type RegisterPayload struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginPayload defines the structure for logging in.
type LoginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// PreferencesPayload defines the structure for updating display settings.
type PreferencesPayload struct {
	FontSize           int     `json:"font_size" validate:"omitempty,gte=8,lte=96"`
	CaptionColor       string  `json:"caption_color"`
	BgOpacity          float64 `json:"bg_opacity" validate:"omitempty,gte=0,lte=1"`
	AutoScroll         bool    `json:"auto_scroll"`
	SoundNotifications bool    `json:"sound_notifications"`
	DarkMode           bool    `json:"dark_mode"`
}

// Register creates a new user account.
// POST /api/v1/auth/register
func (h *ApplicationHandler) Register(c *fiber.Ctx) error {
	var payload RegisterPayload
	if err := c.BodyParser(&payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Cannot parse JSON: %v", err))
	}
	if err := h.validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, strings.Join(utils.FormatValidationErrors(err), ", "))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		h.Logger.WithError(err).Error("Failed to hash password")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Registration failed")
	}

	user := models.User{
		ID:           uuid.New(),
		Name:         payload.Name,
		Email:        strings.ToLower(strings.TrimSpace(payload.Email)),
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.Users.CreateUser(c.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return utils.RespondWithError(c, fiber.StatusBadRequest, "User already exists")
		}
		h.Logger.WithError(err).Error("Failed to create user")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Registration failed")
	}

	return utils.RespondWithJSON(c, fiber.StatusCreated, fiber.Map{"id": user.ID, "name": user.Name, "email": user.Email})
}

// Login verifies credentials and issues a JWT.
// POST /api/v1/auth/login
func (h *ApplicationHandler) Login(c *fiber.Ctx) error {
	var payload LoginPayload
	if err := c.BodyParser(&payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Cannot parse JSON: %v", err))
	}
	if err := h.validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, strings.Join(utils.FormatValidationErrors(err), ", "))
	}

	user, err := h.Users.GetUserByEmail(c.Context(), strings.ToLower(strings.TrimSpace(payload.Email)))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusUnauthorized, "Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
		return utils.RespondWithError(c, fiber.StatusUnauthorized, "Invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  user.ID.String(),
		"exp": time.Now().Add(tokenTTL).Unix(),
	})
	signed, err := token.SignedString([]byte(h.Config.JWTSecret))
	if err != nil {
		h.Logger.WithError(err).Error("Failed to sign token")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Login failed")
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{
		"token": signed,
		"user":  user,
	})
}

// GetProfile returns the authenticated user.
// GET /api/v1/auth/profile
func (h *ApplicationHandler) GetProfile(c *fiber.Ctx) error {
	userID := c.Locals(middleware.UserIDKey).(uuid.UUID)

	user, err := h.Users.GetUserByID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.RespondWithError(c, fiber.StatusNotFound, "User not found")
		}
		h.Logger.WithError(err).Error("Failed to fetch profile")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not retrieve profile")
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, user)
}

// UpdatePreferences stores the caller's caption display settings.
// PATCH /api/v1/auth/preferences
func (h *ApplicationHandler) UpdatePreferences(c *fiber.Ctx) error {
	userID := c.Locals(middleware.UserIDKey).(uuid.UUID)

	var payload PreferencesPayload
	if err := c.BodyParser(&payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Cannot parse JSON: %v", err))
	}
	if err := h.validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, strings.Join(utils.FormatValidationErrors(err), ", "))
	}

	user, err := h.Users.UpdatePreferences(c.Context(), userID, models.Preferences{
		FontSize:           payload.FontSize,
		CaptionColor:       payload.CaptionColor,
		BgOpacity:          payload.BgOpacity,
		AutoScroll:         payload.AutoScroll,
		SoundNotifications: payload.SoundNotifications,
		DarkMode:           payload.DarkMode,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.RespondWithError(c, fiber.StatusNotFound, "User not found")
		}
		h.Logger.WithError(err).Error("Failed to update preferences")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not update preferences")
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"preferences": user.Preferences})
}
