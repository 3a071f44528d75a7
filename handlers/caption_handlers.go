package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"livecaption/api-gateway/internal/playback"
	"livecaption/api-gateway/internal/srt"
	"livecaption/api-gateway/internal/store"
	"livecaption/api-gateway/middleware"
	"livecaption/api-gateway/models"
	"livecaption/api-gateway/utils"
)

// ListTranscripts returns the caller's transcripts, newest first.
// GET /api/v1/captions
func (h *ApplicationHandler) ListTranscripts(c *fiber.Ctx) error {
	userID := c.Locals(middleware.UserIDKey).(uuid.UUID)

	transcripts, err := h.Transcripts.ListTranscripts(c.Context(), userID)
	if err != nil {
		h.Logger.WithError(err).Error("Failed to list transcripts")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not retrieve transcripts")
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, transcripts)
}

// GetTranscript returns one transcript owned by the caller.
// GET /api/v1/captions/:id
func (h *ApplicationHandler) GetTranscript(c *fiber.Ctx) error {
	transcript, ok := h.loadOwnedTranscript(c)
	if !ok {
		return nil
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, transcript)
}

// DeleteTranscript removes one transcript owned by the caller.
// DELETE /api/v1/captions/:id
func (h *ApplicationHandler) DeleteTranscript(c *fiber.Ctx) error {
	transcript, ok := h.loadOwnedTranscript(c)
	if !ok {
		return nil
	}

	if err := h.Transcripts.DeleteTranscript(c.Context(), transcript.ID); err != nil {
		h.Logger.WithError(err).WithField("transcript_id", transcript.ID.String()).Error("Failed to delete transcript")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not delete transcript")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DownloadTranscript streams the transcript as SRT or plain text.
// GET /api/v1/captions/:id/download?format=srt|txt
func (h *ApplicationHandler) DownloadTranscript(c *fiber.Ctx) error {
	transcript, ok := h.loadOwnedTranscript(c)
	if !ok {
		return nil
	}

	switch c.Query("format", "txt") {
	case "srt":
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="captions.srt"`)
		return c.SendString(srt.Render(transcript.Segments))
	case "txt":
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="transcription.txt"`)
		return c.SendString(transcript.Transcription)
	default:
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Unsupported format; use srt or txt")
	}
}

// GetActiveCaption returns the segment active at playback time t, using the
// same first-match lookup the web player runs locally.
// GET /api/v1/captions/:id/active?t=12.3
func (h *ApplicationHandler) GetActiveCaption(c *fiber.Ctx) error {
	transcript, ok := h.loadOwnedTranscript(c)
	if !ok {
		return nil
	}

	now, err := strconv.ParseFloat(c.Query("t"), 64)
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Query parameter t must be a number")
	}

	index := playback.ActiveIndex(transcript.Segments, now)
	if index == playback.NoActiveSegment {
		return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"index": index, "segment": nil})
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"index": index, "segment": transcript.Segments[index]})
}

// loadOwnedTranscript fetches the :id transcript and verifies the caller
// owns it, writing the error response itself when the lookup fails. Foreign
// transcripts read as not found.
func (h *ApplicationHandler) loadOwnedTranscript(c *fiber.Ctx) (*models.Transcript, bool) {
	userID := c.Locals(middleware.UserIDKey).(uuid.UUID)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid transcript ID format")
		return nil, false
	}

	transcript, err := h.Transcripts.GetTranscript(c.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(c, fiber.StatusNotFound, "Transcript not found")
			return nil, false
		}
		h.Logger.WithError(err).WithField("transcript_id", id.String()).Error("Failed to fetch transcript")
		utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not retrieve transcript")
		return nil, false
	}
	if transcript.UserID != userID {
		utils.RespondWithError(c, fiber.StatusNotFound, "Transcript not found")
		return nil, false
	}
	return transcript, true
}
