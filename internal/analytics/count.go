package analytics

import (
	"github.com/namsa/insights/internal/store"
)

// Tally is one keyed counter value. Label is the display name
// retained for the key (first seen wins for track tallies).
type Tally struct {
	Label string
	Count int
}

// CountByTrack folds selections into a per-track-id counter.
// The first label seen for an id is retained.
func CountByTrack(selections []Selection) map[string]Tally {
	counts := make(map[string]Tally)
	for _, sel := range selections {
		t, ok := counts[sel.TrackID]
		if !ok {
			t.Label = sel.TrackLabel
		}
		t.Count++
		counts[sel.TrackID] = t
	}
	return counts
}

// CountByArtist folds selections into a per-artist counter. The
// artist label is both key and display name.
func CountByArtist(selections []Selection) map[string]Tally {
	counts := make(map[string]Tally)
	for _, sel := range selections {
		t := counts[sel.ArtistLabel]
		t.Label = sel.ArtistLabel
		t.Count++
		counts[sel.ArtistLabel] = t
	}
	return counts
}

// CountByCompany folds selections into a per-company counter.
func CountByCompany(selections []Selection) map[string]Tally {
	counts := make(map[string]Tally)
	for _, sel := range selections {
		t := counts[sel.Company]
		t.Label = sel.Company
		t.Count++
		counts[sel.Company] = t
	}
	return counts
}

// TrackBreakdown is the scoped counter for one owned track: a
// running total plus a per-company split of who selected it.
type TrackBreakdown struct {
	TrackID   string
	Title     string
	Total     int
	ByCompany map[string]int
}

// CountOwnTracks folds selections into per-track breakdowns for
// one rights holder's catalog. Every owned track appears in the
// result, including those never selected. Selections of tracks
// outside the catalog are ignored.
func CountOwnTracks(
	selections []Selection, catalog []store.Track,
) map[string]*TrackBreakdown {
	breakdowns := make(map[string]*TrackBreakdown, len(catalog))
	for _, t := range catalog {
		breakdowns[t.ID] = &TrackBreakdown{
			TrackID:   t.ID,
			Title:     t.Title,
			ByCompany: make(map[string]int),
		}
	}
	for _, sel := range selections {
		bd, ok := breakdowns[sel.TrackID]
		if !ok {
			continue
		}
		bd.Total++
		bd.ByCompany[sel.Company]++
	}
	return breakdowns
}

// TotalSelections returns the number of resolvable selection
// events in the snapshot.
func TotalSelections(selections []Selection) int {
	return len(selections)
}
