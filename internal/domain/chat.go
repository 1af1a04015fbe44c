package domain

import "time"

// Session maps a client-visible conversation identifier onto the backend
// thread handle for one bot. The thread handle never changes after creation;
// lookups are keyed by (ID, BotID) so a session identifier leaked from one
// bot cannot be replayed against another.
type Session struct {
	ID             string    `json:"id"`
	BotID          string    `json:"bot_id"`
	ThreadID       string    `json:"thread_id"`
	CreatedAt      time.Time `json:"created_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
}

// HistoryMessage is one prior turn of the conversation as supplied by the
// client in the rolling-history payload.
type HistoryMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is one inbound chat turn.
type ChatRequest struct {
	BotID     string
	Message   string
	SessionID string
	History   []HistoryMessage
}

// EventType identifies the kind of a stream event.
type EventType string

const (
	// EventSession announces a newly created session. Emitted at most once,
	// always before any content.
	EventSession EventType = "session"
	// EventMessage carries a content fragment or the DoneSentinel.
	EventMessage EventType = "message"
	// EventError carries a terminal in-band error. Nothing follows it.
	EventError EventType = "error"
)

// DoneSentinel is the content of the final message event of a successful
// stream.
const DoneSentinel = "[DONE]"

// StreamEvent is the wire-level unit emitted to the client.
type StreamEvent struct {
	Type      EventType
	SessionID string
	Content   string
	Err       string
}
