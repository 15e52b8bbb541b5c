package utils

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/fuadeditingzone/fuadbot-backend/pkg/logger"
)

// SetupSSEHeaders prepares a response for Server-Sent Events.
func SetupSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// SendSSEChunk writes one data frame and flushes it.
func SendSSEChunk(w http.ResponseWriter, flusher http.Flusher, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Log.Warn("marshal_sse_payload_failed", zap.Error(err))
		return
	}

	if _, err := w.Write([]byte("data: ")); err != nil {
		logger.Log.Warn("write_sse_prefix_failed", zap.Error(err))
		return
	}
	if _, err := w.Write(data); err != nil {
		logger.Log.Warn("write_sse_payload_failed", zap.Error(err))
		return
	}
	if _, err := w.Write([]byte("\n\n")); err != nil {
		logger.Log.Warn("write_sse_terminator_failed", zap.Error(err))
		return
	}
	flusher.Flush()
}
