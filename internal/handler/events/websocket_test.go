package events

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/fuadeditingzone/fuadbot-backend/internal/service/conversation"
)

func TestWebSocketDeliversEvents(t *testing.T) {
	hub := NewHub()
	r := chi.NewRouter()
	New(hub).RegisterRoutes(r)

	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/bot/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Give the handler a moment to register its subscription.
	deadline := time.Now().Add(time.Second)
	for {
		hub.mu.Lock()
		n := len(hub.subs)
		hub.mu.Unlock()
		if n > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("subscription never registered")
		}
		time.Sleep(time.Millisecond)
	}

	hub.Publish(conversation.Event{
		Type:      conversation.EventReaction,
		MessageID: "m1",
		Emoji:     "❤️",
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var evt conversation.Event
	if err := conn.ReadJSON(&evt); err != nil {
		t.Fatalf("read: %v", err)
	}
	if evt.Type != conversation.EventReaction || evt.MessageID != "m1" || evt.Emoji != "❤️" {
		t.Fatalf("unexpected event: %+v", evt)
	}
}
