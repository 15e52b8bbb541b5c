package conversation

import (
	"github.com/fuadeditingzone/fuadbot-backend/internal/model/chat"
	"github.com/fuadeditingzone/fuadbot-backend/internal/model/persona"
)

// Notifier delivers transient user-facing notices. The orchestrator never
// reaches into ambient state for this; the presentation layer injects its
// own implementation.
type Notifier interface {
	Notify(text, level string)
}

// Notification levels.
const (
	LevelInfo    = "info"
	LevelSuccess = "success"
	LevelWarning = "warning"
	LevelError   = "error"
)

// Event types pushed to the widget over the events channel.
const (
	EventMessage      = "message"
	EventReaction     = "reaction"
	EventDeleted      = "deleted"
	EventNotification = "notification"
)

// ReactionClearMS is how long the widget shows the reaction acknowledgment
// before it self-clears.
const ReactionClearMS = 1500

// Event is one push-channel payload.
type Event struct {
	Type         string        `json:"type"`
	Mode         persona.Mode  `json:"mode,omitempty"`
	Message      *chat.Message `json:"message,omitempty"`
	MessageID    string        `json:"messageId,omitempty"`
	Emoji        string        `json:"emoji,omitempty"`
	Actor        string        `json:"actor,omitempty"`
	ClearAfterMS int           `json:"clearAfterMs,omitempty"`
	Text         string        `json:"text,omitempty"`
	Level        string        `json:"level,omitempty"`
}

// EventSink receives orchestrator events. Publishing must never block the
// caller for long; the websocket hub drops slow consumers instead.
type EventSink interface {
	Publish(Event)
}

// NopSink discards events; useful default and test stand-in.
type NopSink struct{}

func (NopSink) Publish(Event) {}

// NopNotifier discards notifications.
type NopNotifier struct{}

func (NopNotifier) Notify(string, string) {}
