package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/botdesk/botdesk/internal/api/middleware"
	"github.com/botdesk/botdesk/internal/auth"
	"github.com/botdesk/botdesk/internal/domain"
	"github.com/botdesk/botdesk/internal/service"
	"github.com/gin-gonic/gin"
)

// Handler serves the streaming chat endpoint for both first-party and
// embedded-widget clients.
type Handler struct {
	chatService *service.ChatService
	verifier    *auth.Verifier
}

// NewHandler creates a new chat handler
func NewHandler(chatService *service.ChatService, verifier *auth.Verifier) *Handler {
	return &Handler{chatService: chatService, verifier: verifier}
}

// RegisterRoutes registers chat routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/chat", h.Stream)
}

// maxHistoryPayload bounds the client-supplied rolling history before it is
// parsed, independent of the per-turn cap applied later.
const maxHistoryPayload = 50

// Stream handles one chat turn over SSE.
//
// Everything detectable before the first streamed byte is a plain HTTP
// error; once streaming begins, failures are reported in-band because the
// headers are already committed.
func (h *Handler) Stream(c *gin.Context) {
	botID := c.Query("botId")
	message := c.Query("message")
	if botID == "" || message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "botId and message are required"})
		return
	}

	bot, err := h.chatService.Bot(c.Request.Context(), botID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "bot not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	// Credential check runs before any session or run mutation.
	if ws := c.Query("ws"); ws != "" {
		mode := auth.Mode{Kind: auth.ModeWidget, Value: ws}
		if err := h.verifier.VerifyWidget(mode, bot); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
	} else {
		if _, err := h.verifier.VerifyFirstParty(middleware.FirstPartyMode(c)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
	}

	var history []domain.HistoryMessage
	if raw := c.Query("history"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &history); err != nil || len(history) > maxHistoryPayload {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed history"})
			return
		}
	}

	req := &domain.ChatRequest{
		BotID:     botID,
		Message:   message,
		SessionID: c.Query("sessionId"),
		History:   history,
	}

	events, err := h.chatService.Stream(c.Request.Context(), bot, req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSessionBusy):
			c.JSON(http.StatusConflict, gin.H{"error": "a message is already being processed for this session"})
		case errors.Is(err, domain.ErrUpstreamUnavailable):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "assistant backend unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	// SSE headers
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	for {
		select {
		case ev, open := <-events:
			if !open {
				return
			}
			writeEvent(c.Writer, ev)
			flusher.Flush()
		case <-ctx.Done():
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, ev domain.StreamEvent) {
	var name string
	var payload any
	switch ev.Type {
	case domain.EventSession:
		name = "session"
		payload = gin.H{"sessionId": ev.SessionID}
	case domain.EventMessage:
		name = "message"
		payload = gin.H{"content": ev.Content}
	case domain.EventError:
		name = "error"
		payload = gin.H{"error": ev.Err}
	default:
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
}
