package transport

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cofocus/focusd/internal/event"
	"github.com/go-chi/chi/v5"
)

// handleSessionEvents streams session channel events over SSE. The stream is
// best-effort: clients that disconnect miss events and are expected to
// reconcile with a direct read when they reconnect.
func (s *Server) handleSessionEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "INTERNAL", "streaming unsupported")
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	if _, err := s.services.Sessions.Get(r.Context(), sessionID); err != nil {
		s.respondError(w, err)
		return
	}

	events, cancel := s.events.Subscribe(event.SessionTopic(sessionID))
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case evt, open := <-events:
			if !open {
				return
			}
			data, err := json.Marshal(evt.Payload)
			if err != nil {
				s.logger.Error("encoding event", "event", evt.Name, "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Name, data)
			flusher.Flush()
		}
	}
}
