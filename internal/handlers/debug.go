package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/shylockwolf/ainote/internal/debuglog"
)

// DebugHandler exposes the in-memory AI traffic log: a snapshot endpoint,
// a clear endpoint, and a live SSE stream.
type DebugHandler struct {
	log    *debuglog.Log
	logger *zap.Logger
}

func NewDebugHandler(log *debuglog.Log, logger *zap.Logger) *DebugHandler {
	return &DebugHandler{log: log, logger: logger}
}

// List returns the retained entries, oldest first.
func (h *DebugHandler) List(w http.ResponseWriter, r *http.Request) {
	entries := h.log.Snapshot()
	if entries == nil {
		entries = []debuglog.Entry{}
	}
	respondJSON(w, http.StatusOK, entries)
}

// Clear drops all retained entries.
func (h *DebugHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.log.Clear()
	respondSuccess(w)
}

// Stream pushes the full log snapshot as a server-sent event after every
// change until the client disconnects. A slow consumer drops intermediate
// snapshots rather than blocking the appender.
func (h *DebugHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "Internal Server Error", "Streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	snapshots := make(chan []debuglog.Entry, 8)

	// Prime with the current state before subscribing, so a concurrent
	// append can never deliver a newer snapshot ahead of an older one.
	snapshots <- h.log.Snapshot()

	unsubscribe := h.log.Subscribe(func(entries []debuglog.Entry) {
		select {
		case snapshots <- entries:
		default:
		}
	})
	defer unsubscribe()

	for {
		select {
		case <-r.Context().Done():
			return
		case snapshot := <-snapshots:
			if snapshot == nil {
				snapshot = []debuglog.Entry{}
			}
			payload, err := json.Marshal(snapshot)
			if err != nil {
				h.logger.Warn("debug_stream_encode_failed", zap.Error(err))
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
