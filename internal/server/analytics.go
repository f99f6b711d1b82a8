package server

import (
	"log"
	"net/http"
	"time"

	"github.com/namsa/insights/internal/analytics"
	"github.com/namsa/insights/internal/store"
)

// loadSheets fetches the global snapshot. A failed fetch is
// absorbed into an empty snapshot so every analytics response is
// well formed; only a dead request context aborts the handler.
func (s *Server) loadSheets(
	w http.ResponseWriter, r *http.Request,
) ([]store.LogSheet, bool) {
	sheets, err := s.store.LogSheets(r.Context())
	if err != nil {
		if handleContextError(w, err) {
			return nil, false
		}
		log.Printf("analytics: loading snapshot: %v", err)
		sheets = []store.LogSheet{}
	}
	return sheets, true
}

func (s *Server) handleDashboard(
	w http.ResponseWriter, r *http.Request,
) {
	dash, refreshedAt := s.dashboard()
	if refreshedAt.IsZero() {
		// First request before any refresh cycle: build now.
		if err := s.Refresh(r.Context()); err != nil {
			if handleContextError(w, err) {
				return
			}
		}
		dash, refreshedAt = s.dashboard()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"dashboard":    dash,
		"refreshed_at": refreshedAt.Format(time.RFC3339),
	})
}

func (s *Server) handleTopTracks(
	w http.ResponseWriter, r *http.Request,
) {
	sheets, ok := s.loadSheets(w, r)
	if !ok {
		return
	}
	selections := analytics.ExtractSelections(sheets)
	writeJSON(w, http.StatusOK, map[string]any{
		"tracks": analytics.ToSeries(
			analytics.Rank(analytics.CountByTrack(selections)),
		),
	})
}

func (s *Server) handleTopArtists(
	w http.ResponseWriter, r *http.Request,
) {
	sheets, ok := s.loadSheets(w, r)
	if !ok {
		return
	}
	selections := analytics.ExtractSelections(sheets)
	writeJSON(w, http.StatusOK, map[string]any{
		"artists": analytics.ToSeries(
			analytics.Rank(analytics.CountByArtist(selections)),
		),
	})
}

func (s *Server) handleTopCompanies(
	w http.ResponseWriter, r *http.Request,
) {
	sheets, ok := s.loadSheets(w, r)
	if !ok {
		return
	}
	selections := analytics.ExtractSelections(sheets)
	writeJSON(w, http.StatusOK, map[string]any{
		"companies": analytics.ToPie(
			analytics.Rank(analytics.CountByCompany(selections)),
		),
	})
}

func (s *Server) handleTrend(
	w http.ResponseWriter, r *http.Request,
) {
	sheets, ok := s.loadSheets(w, r)
	if !ok {
		return
	}
	trackID := r.URL.Query().Get("track")

	var series []analytics.TimeSeriesPoint
	if trackID == "" {
		series = analytics.MonthlyTrend(sheets)
	} else {
		series = analytics.TrackMonthlyTrend(sheets, trackID)
	}
	if series == nil {
		series = []analytics.TimeSeriesPoint{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"track":  trackID,
		"series": series,
	})
}

func (s *Server) handleArtistDashboard(
	w http.ResponseWriter, r *http.Request,
) {
	owner := r.PathValue("owner")

	catalog, err := s.store.TracksByOwner(r.Context(), owner)
	if err != nil {
		if handleContextError(w, err) {
			return
		}
		log.Printf("analytics: loading catalog for %s: %v", owner, err)
		catalog = []store.Track{}
	}

	ids := make([]string, len(catalog))
	for i, t := range catalog {
		ids[i] = t.ID
	}
	sheets, err := s.store.LogSheetsSelecting(r.Context(), ids)
	if err != nil {
		if handleContextError(w, err) {
			return
		}
		log.Printf("analytics: loading scoped snapshot: %v", err)
		sheets = []store.LogSheet{}
	}

	writeJSON(w, http.StatusOK,
		analytics.BuildArtistDashboard(owner, sheets, catalog))
}
