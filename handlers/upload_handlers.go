package handlers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"livecaption/api-gateway/utils"
)

// Media types accepted by the upload endpoint, mirrored from the formats the
// static file server knows how to label.
var allowedUploadExts = map[string]bool{
	".mp3": true, ".wav": true, ".m4a": true, ".ogg": true, ".webm": true,
	".mp4": true, ".mkv": true, ".avi": true, ".mov": true,
}

// UploadMedia stores an uploaded media file and returns the URL the playback
// clock is seeded from.
// POST /api/v1/uploads
func (h *ApplicationHandler) UploadMedia(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		h.Logger.WithError(err).Warn("Upload request without file")
		return utils.RespondWithError(c, fiber.StatusBadRequest, "No file uploaded")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedUploadExts[ext] {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Unsupported media type %q", ext))
	}

	// Timestamp prefix keeps repeated uploads of the same file distinct.
	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), filepath.Base(file.Filename))
	dest := filepath.Join(h.Config.UploadsDir, name)
	if err := c.SaveFile(file, dest); err != nil {
		h.Logger.WithError(err).WithField("path", dest).Error("Failed to store upload")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Upload failed")
	}

	h.Logger.WithFields(map[string]interface{}{
		"file_name": name,
		"file_size": file.Size,
	}).Info("Media file uploaded")

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{
		"fileUrl":  "/uploads/" + name,
		"fileName": name,
		"fileSize": file.Size,
	})
}
