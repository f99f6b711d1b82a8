package analytics

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/namsa/insights/internal/store"
)

func strPtr(s string) *string { return &s }

func sheet(
	id, company, created string, entries ...store.SelectionEntry,
) store.LogSheet {
	sh := store.LogSheet{
		ID:         id,
		CreatedAt:  created,
		Selections: entries,
	}
	if company != "" {
		sh.Company = &company
	}
	return sh
}

func entry(trackID, title, artist, email string) store.SelectionEntry {
	var e store.SelectionEntry
	if trackID != "" {
		e.TrackID = strPtr(trackID)
	}
	if title != "" {
		e.Title = strPtr(title)
	}
	if artist != "" {
		e.Artist = strPtr(artist)
	}
	if email != "" {
		e.UserEmail = strPtr(email)
	}
	return e
}

func TestExtractSelections_Defaulting(t *testing.T) {
	sheets := []store.LogSheet{
		sheet("s1", "", "2024-01-15T00:00:00Z",
			entry("1", "", "", ""),
		),
	}

	got := ExtractSelections(sheets)
	want := []Selection{{
		Company:     UnknownCompany,
		TrackID:     "1",
		TrackLabel:  "Track 1",
		ArtistLabel: UnknownArtist,
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("selections mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractSelections_AttributionPriority(t *testing.T) {
	tests := []struct {
		name  string
		entry store.SelectionEntry
		want  string
	}{
		{
			name:  "user email wins over artist",
			entry: entry("1", "Song", "The Band", "a@b.na"),
			want:  "a@b.na",
		},
		{
			name:  "artist when no email",
			entry: entry("1", "Song", "The Band", ""),
			want:  "The Band",
		},
		{
			name:  "placeholder when neither",
			entry: entry("1", "Song", "", ""),
			want:  UnknownArtist,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sheets := []store.LogSheet{
				sheet("s1", "Radio One", "2024-01-15T00:00:00Z", tt.entry),
			}
			got := ExtractSelections(sheets)
			assert.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].ArtistLabel)
		})
	}
}

func TestExtractSelections_MissingTrackIDDropped(t *testing.T) {
	sheets := []store.LogSheet{
		sheet("s1", "Radio One", "2024-01-15T00:00:00Z",
			entry("", "Orphan", "Someone", ""),
			entry("1", "Kept", "", ""),
		),
	}

	got := ExtractSelections(sheets)
	assert.Len(t, got, 1)
	assert.Equal(t, "1", got[0].TrackID)
}

func TestExtractSelections_DuplicatesPreserved(t *testing.T) {
	sheets := []store.LogSheet{
		sheet("s1", "Radio One", "2024-01-15T00:00:00Z",
			entry("1", "Hit", "A", ""),
			entry("1", "Hit", "A", ""),
			entry("1", "Hit", "A", ""),
		),
	}

	got := ExtractSelections(sheets)
	assert.Len(t, got, 3, "each occurrence is its own event")
}

func TestExtractSelections_EmptySnapshot(t *testing.T) {
	assert.Empty(t, ExtractSelections(nil))
	assert.Empty(t, ExtractSelections([]store.LogSheet{}))
}
