// Package analytics derives ranked and time-bucketed summaries
// from a snapshot of licensing log sheets. Every function here is
// a pure computation over its inputs; results are rebuilt from
// scratch on each run and carry no state between runs.
package analytics

import (
	"github.com/namsa/insights/internal/store"
)

// Labels substituted when a source field is absent.
const (
	UnknownCompany = "Unknown Company"
	UnknownArtist  = "Unknown Artist"
)

// Selection is one normalized selection event: a single
// occurrence of a track listed on a log sheet, with all
// labeling defaults already applied.
type Selection struct {
	Company     string
	TrackID     string
	TrackLabel  string
	ArtistLabel string
}

// ExtractSelections walks the snapshot and yields a Selection
// per resolvable selection event. Entries without a track id are
// skipped; partially filled sheets are a fact of life in this
// data, not an error.
func ExtractSelections(sheets []store.LogSheet) []Selection {
	var out []Selection
	for _, sheet := range sheets {
		company := companyLabel(sheet)
		for _, entry := range sheet.Selections {
			if entry.TrackID == nil || *entry.TrackID == "" {
				continue
			}
			out = append(out, Selection{
				Company:     company,
				TrackID:     *entry.TrackID,
				TrackLabel:  trackLabel(entry),
				ArtistLabel: artistLabel(entry),
			})
		}
	}
	return out
}

// companyLabel returns the sheet's company name, defaulting when
// the field was never filled in.
func companyLabel(sheet store.LogSheet) string {
	if sheet.Company == nil || *sheet.Company == "" {
		return UnknownCompany
	}
	return *sheet.Company
}

// trackLabel returns the entry's title or a placeholder built
// from the track id.
func trackLabel(entry store.SelectionEntry) string {
	if entry.Title != nil && *entry.Title != "" {
		return *entry.Title
	}
	return "Track " + *entry.TrackID
}

// artistLabel resolves attribution in priority order: the
// associated user's contact identity, then the artist field,
// then a placeholder.
func artistLabel(entry store.SelectionEntry) string {
	if entry.UserEmail != nil && *entry.UserEmail != "" {
		return *entry.UserEmail
	}
	if entry.Artist != nil && *entry.Artist != "" {
		return *entry.Artist
	}
	return UnknownArtist
}
