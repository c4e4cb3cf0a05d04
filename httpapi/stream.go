package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// streamMessages establishes a long-lived SSE connection and pushes a
// messageUpdate event for every message published while the client is
// connected. The subscription starts at connect time: nothing published
// earlier is replayed. Cleanup happens via deferred unsubscription so a
// dropped connection never leaks a registry entry.
func (s *Server) streamMessages(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "streaming unsupported"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	sub := s.broadcaster.Subscribe()
	defer s.broadcaster.Unsubscribe(sub)

	for {
		select {
		case <-r.Context().Done():
			s.log.Debug("stream client disconnected")
			return
		case message, open := <-sub.Events():
			if !open {
				return
			}
			data, err := json.Marshal(toMessageResponse(message))
			if err != nil {
				s.log.Error("stream payload encoding failed", "error", err)
				continue
			}
			if _, err = fmt.Fprintf(w, "event: messageUpdate\ndata: %s\n\n", data); err != nil {
				s.log.Warn("stream write failed, dropping client", "error", err)
				return
			}
			flusher.Flush()
		}
	}
}

type healthResponse struct {
	Status  string  `json:"status"`
	RSS     uint64  `json:"rssBytes"`
	CPU     float64 `json:"cpuPercent"`
	Subbers int     `json:"subscribers"`
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	stats := s.health.GetLatest()
	s.respondJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		RSS:     stats.RSSBytes,
		CPU:     stats.CPUPercent,
		Subbers: s.broadcaster.Len(),
	})
}
