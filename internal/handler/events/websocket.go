package events

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/fuadeditingzone/fuadbot-backend/pkg/logger"
	"github.com/fuadeditingzone/fuadbot-backend/pkg/utils"
)

const (
	writeWait    = 10 * time.Second
	pingInterval = 30 * time.Second
)

// Handler serves the hub over a websocket plus an SSE fallback.
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

// New creates the events handler.
func New(hub *Hub) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the push endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/bot/events", h.handleWebSocket)
	r.Get("/bot/events/sse", h.handleSSE)
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Warn("ws_upgrade_failed", zap.Error(err))
		return
	}
	defer conn.Close()

	sub, cancel := h.hub.Subscribe()
	defer cancel()

	// Inbound frames are unused; the read loop only notices disconnects.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case evt, ok := <-sub:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(evt); err != nil {
				logger.Log.Debug("ws_write_failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}

func (h *Handler) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	utils.SetupSSEHeaders(w)
	flusher.Flush()

	sub, cancel := h.hub.Subscribe()
	defer cancel()

	for {
		select {
		case evt, ok := <-sub:
			if !ok {
				return
			}
			utils.SendSSEChunk(w, flusher, evt)
		case <-r.Context().Done():
			return
		}
	}
}
