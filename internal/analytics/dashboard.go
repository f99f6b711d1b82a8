package analytics

import (
	"sort"

	"github.com/namsa/insights/internal/store"
)

// GlobalDashboard is the administrator view model: snapshot-wide
// rankings and the monthly selection trend.
type GlobalDashboard struct {
	TotalSheets     int               `json:"total_sheets"`
	TotalSelections int               `json:"total_selections"`
	TopTracks       []SeriesPoint     `json:"top_tracks"`
	TopArtists      []SeriesPoint     `json:"top_artists"`
	TopCompanies    []PieSlice        `json:"top_companies"`
	MonthlyTrend    []TimeSeriesPoint `json:"monthly_trend"`
}

// BuildGlobalDashboard runs the full pipeline over the snapshot.
func BuildGlobalDashboard(sheets []store.LogSheet) GlobalDashboard {
	selections := ExtractSelections(sheets)
	return GlobalDashboard{
		TotalSheets:     len(sheets),
		TotalSelections: TotalSelections(selections),
		TopTracks:       ToSeries(Rank(CountByTrack(selections))),
		TopArtists:      ToSeries(Rank(CountByArtist(selections))),
		TopCompanies:    ToPie(Rank(CountByCompany(selections))),
		MonthlyTrend:    MonthlyTrend(sheets),
	}
}

// TrackUsage is one catalog track's usage in the scoped view.
type TrackUsage struct {
	TrackID   string     `json:"track_id"`
	Title     string     `json:"title"`
	Total     int        `json:"total"`
	Companies []PieSlice `json:"companies"`
}

// ArtistDashboard is the scoped view model for one rights
// holder: usage of their own catalog only.
type ArtistDashboard struct {
	Owner           string       `json:"owner"`
	TotalSelections int          `json:"total_selections"`
	Tracks          []TrackUsage `json:"tracks"`
}

// BuildArtistDashboard runs the scoped pipeline: selections of
// tracks outside the catalog are ignored. Tracks are ordered by
// usage descending, title ascending on ties.
func BuildArtistDashboard(
	owner string, sheets []store.LogSheet, catalog []store.Track,
) ArtistDashboard {
	selections := ExtractSelections(sheets)
	breakdowns := CountOwnTracks(selections, catalog)

	tracks := make([]TrackUsage, 0, len(breakdowns))
	total := 0
	for _, bd := range breakdowns {
		total += bd.Total
		tracks = append(tracks, TrackUsage{
			TrackID:   bd.TrackID,
			Title:     bd.Title,
			Total:     bd.Total,
			Companies: CompanySlices(bd.ByCompany),
		})
	}
	sort.Slice(tracks, func(i, j int) bool {
		if tracks[i].Total != tracks[j].Total {
			return tracks[i].Total > tracks[j].Total
		}
		if tracks[i].Title != tracks[j].Title {
			return tracks[i].Title < tracks[j].Title
		}
		return tracks[i].TrackID < tracks[j].TrackID
	})

	return ArtistDashboard{
		Owner:           owner,
		TotalSelections: total,
		Tracks:          tracks,
	}
}
