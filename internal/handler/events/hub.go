// Package events fans orchestrator events out to connected widgets over a
// websocket (with an SSE fallback). Auto-reactions land asynchronously, so
// the widget needs a push path rather than polling for them.
package events

import (
	"sync"

	"github.com/fuadeditingzone/fuadbot-backend/internal/service/conversation"
	"github.com/fuadeditingzone/fuadbot-backend/pkg/logger"
)

const subscriberBuffer = 16

// Hub is the in-process broker. It implements both the orchestrator's
// EventSink and Notifier so notifications ride the same channel.
type Hub struct {
	mu   sync.Mutex
	subs map[chan conversation.Event]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan conversation.Event]struct{})}
}

// Subscribe registers a consumer. The returned cancel must be called when
// the consumer goes away.
func (h *Hub) Subscribe() (<-chan conversation.Event, func()) {
	ch := make(chan conversation.Event, subscriberBuffer)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers evt to every subscriber. Slow consumers lose events
// rather than blocking the orchestrator.
func (h *Hub) Publish(evt conversation.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- evt:
		default:
			logger.Log.Debug("event_dropped_slow_subscriber")
		}
	}
}

// Notify implements conversation.Notifier on top of Publish.
func (h *Hub) Notify(text, level string) {
	h.Publish(conversation.Event{
		Type:  conversation.EventNotification,
		Text:  text,
		Level: level,
	})
}
