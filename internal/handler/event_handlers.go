package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// heartbeatInterval keeps idle SSE connections from being reaped by proxies.
const heartbeatInterval = 30 * time.Second

// handleEvents streams committed change events as server-sent events. The
// stream is observation only: it carries what the database already committed
// and a consumer reconciles by re-fetching the referenced record.
// @Summary Subscribe to the change feed
// @Description Server-sent events for task, attachment and comment changes. Optional table and task_id filters.
// @Tags events
// @Produce text/event-stream
// @Param table query string false "Only changes to this table (tasks, attachments, comments)"
// @Param task_id query string false "Only changes scoped to this task"
// @Security BearerAuth
// @Router /events [get]
func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "streaming unsupported")
		return
	}

	query := r.URL.Query()
	sub := h.hub.Subscribe(query.Get("table"), query.Get("task_id"))
	defer h.hub.Unsubscribe(sub)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return

		case ev, open := <-sub.Events():
			if !open {
				return
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				slog.Error("failed to encode change event", "error", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return
			}
			flusher.Flush()

		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
