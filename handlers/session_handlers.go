package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"

	"livecaption/api-gateway/internal/session"
	"livecaption/api-gateway/middleware"
	"livecaption/api-gateway/models"
	"livecaption/api-gateway/utils"
)

// Session protocol events, matching the names the web client emits.
const (
	eventSessionStart    = "caption-session:start"
	eventSegment         = "caption-segment"
	eventSessionComplete = "caption-session:complete"
)

// socketMessage is one inbound protocol message. ID is an optional client
// correlation id echoed back in the ack.
type socketMessage struct {
	Event   string          `json:"event"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// socketAck is the acknowledgment for one protocol message.
type socketAck struct {
	Event          string          `json:"event"`
	ID             string          `json:"id,omitempty"`
	OK             bool            `json:"ok"`
	Error          string          `json:"error,omitempty"`
	TranscriptID   string          `json:"transcriptId,omitempty"`
	Segment        *models.Segment `json:"segment,omitempty"`
	CumulativeText *string         `json:"cumulativeText,omitempty"`
}

// StartSessionPayload is the body of a caption-session:start event.
type StartSessionPayload struct {
	Title          string `json:"title"`
	MediaKind      string `json:"mediaKind" validate:"omitempty,oneof=audio video"`
	MediaURL       string `json:"mediaUrl"`
	Language       string `json:"language"`
	TargetLanguage string `json:"targetLanguage"`
	PrincipalID    string `json:"principalId" validate:"omitempty,uuid"`
}

// SegmentPayload is the body of a caption-segment event.
type SegmentPayload struct {
	Start          *float64 `json:"start" validate:"omitempty,gte=0"`
	End            *float64 `json:"end" validate:"omitempty,gte=0"`
	Text           string   `json:"text"`
	TargetLanguage string   `json:"targetLanguage"`
}

// CompleteSessionPayload is the body of a caption-session:complete event.
type CompleteSessionPayload struct {
	Duration *float64 `json:"duration" validate:"omitempty,gte=0"`
}

// CaptionSocketHandler handles one upgraded caption websocket connection.
// Each connection maps to exactly one logical session; the single read loop
// applies segments in receipt order. Closing the connection, with or without
// a prior complete, abandons whatever session is still open.
func (h *ApplicationHandler) CaptionSocketHandler(c *websocket.Conn) {
	connectionID := uuid.NewString()
	log := h.Logger.WithField("connection_id", connectionID)
	log.Info("Caption socket connected")

	defer func() {
		h.Sessions.AbandonSession(connectionID)
		log.Info("Caption socket disconnected")
	}()

	principal := uuid.Nil
	if id, ok := c.Locals(middleware.UserIDKey).(uuid.UUID); ok {
		principal = id
	}

	for {
		var msg socketMessage
		if err := c.ReadJSON(&msg); err != nil {
			log.WithError(err).Debug("Caption socket closed")
			return
		}

		ack := h.dispatchSocketEvent(connectionID, principal, msg)
		if err := c.WriteJSON(ack); err != nil {
			log.WithError(err).Warn("Caption socket write failed")
			return
		}
	}
}

func (h *ApplicationHandler) dispatchSocketEvent(connectionID string, principal uuid.UUID, msg socketMessage) socketAck {
	ack := socketAck{Event: "ack", ID: msg.ID}

	switch msg.Event {
	case eventSessionStart:
		var payload StartSessionPayload
		if err := h.decodeSocketPayload(msg.Payload, &payload); err != nil {
			return ack.fail(err.Error())
		}

		userID := principal
		if payload.PrincipalID != "" {
			parsed, err := uuid.Parse(payload.PrincipalID)
			if err != nil {
				return ack.fail("Invalid principal id")
			}
			userID = parsed
		}
		if userID == uuid.Nil {
			userID = uuid.New()
		}

		transcriptID, err := h.Sessions.StartSession(context.Background(), connectionID, session.StartParams{
			Title:          payload.Title,
			MediaKind:      models.MediaKind(payload.MediaKind),
			MediaURL:       payload.MediaURL,
			Language:       payload.Language,
			TargetLanguage: payload.TargetLanguage,
			UserID:         userID,
		})
		if err != nil {
			return ack.fail(err.Error())
		}
		ack.OK = true
		ack.TranscriptID = transcriptID.String()
		return ack

	case eventSegment:
		var payload SegmentPayload
		if err := h.decodeSocketPayload(msg.Payload, &payload); err != nil {
			return ack.fail(err.Error())
		}

		start := 0.0
		if payload.Start != nil {
			start = *payload.Start
		}
		result, err := h.Sessions.SubmitSegment(context.Background(), connectionID, session.SegmentParams{
			Start:          start,
			End:            payload.End,
			Text:           payload.Text,
			TargetLanguage: payload.TargetLanguage,
		})
		if err != nil {
			return ack.fail(err.Error())
		}
		ack.OK = true
		if result.Appended {
			seg := result.Segment
			ack.Segment = &seg
		}
		cumulative := result.CumulativeText
		ack.CumulativeText = &cumulative
		return ack

	case eventSessionComplete:
		var payload CompleteSessionPayload
		if err := h.decodeSocketPayload(msg.Payload, &payload); err != nil {
			return ack.fail(err.Error())
		}

		duration := 0.0
		if payload.Duration != nil {
			duration = *payload.Duration
		}
		if err := h.Sessions.CompleteSession(context.Background(), connectionID, duration); err != nil {
			return ack.fail(err.Error())
		}
		ack.OK = true
		return ack

	default:
		return ack.fail("Unknown event: " + msg.Event)
	}
}

func (h *ApplicationHandler) decodeSocketPayload(raw json.RawMessage, out interface{}) error {
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return errors.New("Cannot parse payload: " + err.Error())
		}
	}
	if err := h.validate.Struct(out); err != nil {
		return errors.New(strings.Join(utils.FormatValidationErrors(err), ", "))
	}
	return nil
}

func (a socketAck) fail(message string) socketAck {
	a.OK = false
	a.Error = message
	return a
}
