package server

import (
	"net/http"
	"time"

	"github.com/namsa/insights/internal/ingest"
	"github.com/namsa/insights/internal/live"
)

// heartbeatInterval is how often a keepalive is sent to SSE
// clients.
const heartbeatInterval = 30 * time.Second

// handleEvents streams update-channel notifications to the
// client so other open views learn that the underlying data
// changed. The bus subscription lives exactly as long as the
// connection.
func (s *Server) handleEvents(
	w http.ResponseWriter, r *http.Request,
) {
	stream, err := NewSSEStream(w)
	if err != nil {
		writeError(w, http.StatusInternalServerError,
			"streaming not supported")
		return
	}

	events := make(chan string, 16)
	unsubscribe := s.bus.Subscribe(live.UpdateChannel,
		func(payload string) {
			// Drop rather than block a slow client; the next
			// notification carries the same meaning.
			select {
			case events <- payload:
			default:
			}
		})
	defer unsubscribe()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case payload := <-events:
			if !stream.Send("update", payload) {
				return
			}
		case <-heartbeat.C:
			if !stream.Send("heartbeat",
				time.Now().Format(time.RFC3339)) {
				return
			}
		}
	}
}

func (s *Server) handleImport(
	w http.ResponseWriter, r *http.Request,
) {
	if s.doImport == nil {
		writeJSON(w, http.StatusOK, ingest.ImportStats{})
		return
	}
	stats, err := s.doImport()
	if err != nil {
		if handleContextError(w, err) {
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	// Tell every subscribed view the catalog changed.
	s.bus.Publish(live.UpdateChannel, `{"type":"music"}`)
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleStats(
	w http.ResponseWriter, r *http.Request,
) {
	stats, err := s.store.GetStats(r.Context())
	if err != nil {
		if handleContextError(w, err) {
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
