package analytics

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/namsa/insights/internal/store"
)

// TestBuildGlobalDashboard_TwoSheets exercises the whole
// pipeline end to end: sheet A (2024-01-15) selects track 1
// twice and track 2 once, sheet B (2024-02-03) selects track 1.
func TestBuildGlobalDashboard_TwoSheets(t *testing.T) {
	sheets := []store.LogSheet{
		sheet("A", "Radio One", "2024-01-15T08:00:00Z",
			entry("1", "Hit", "Artist A", ""),
			entry("1", "Hit", "Artist A", ""),
			entry("2", "Deep Cut", "Artist B", ""),
		),
		sheet("B", "Radio Two", "2024-02-03T08:00:00Z",
			entry("1", "Hit", "Artist A", ""),
		),
	}

	dash := BuildGlobalDashboard(sheets)

	assert.Equal(t, 2, dash.TotalSheets)
	assert.Equal(t, 4, dash.TotalSelections)

	wantTracks := []SeriesPoint{
		{Name: "Hit", Count: 3},
		{Name: "Deep Cut", Count: 1},
	}
	if diff := cmp.Diff(wantTracks, dash.TopTracks); diff != "" {
		t.Errorf("top tracks mismatch (-want +got):\n%s", diff)
	}

	wantTrend := []TimeSeriesPoint{
		{Month: "2024-01", Count: 3},
		{Month: "2024-02", Count: 1},
	}
	if diff := cmp.Diff(wantTrend, dash.MonthlyTrend); diff != "" {
		t.Errorf("trend mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, "Artist A", dash.TopArtists[0].Name)
	assert.Equal(t, 3, dash.TopArtists[0].Count)
	assert.Len(t, dash.TopCompanies, 2)
}

func TestBuildGlobalDashboard_Empty(t *testing.T) {
	dash := BuildGlobalDashboard(nil)

	assert.Zero(t, dash.TotalSheets)
	assert.Zero(t, dash.TotalSelections)
	assert.Empty(t, dash.TopTracks)
	assert.Empty(t, dash.MonthlyTrend)
}

func TestBuildArtistDashboard(t *testing.T) {
	sheets := []store.LogSheet{
		sheet("A", "Radio One", "2024-01-15T08:00:00Z",
			entry("1", "Hit", "Artist A", ""),
			entry("1", "Hit", "Artist A", ""),
			entry("2", "Other's Song", "Artist B", ""),
		),
		sheet("B", "Radio Two", "2024-02-03T08:00:00Z",
			entry("1", "Hit", "Artist A", ""),
		),
	}
	catalog := []store.Track{
		{ID: "1", Title: "Hit", Artist: "Artist A", Owner: "a@namsa.na"},
		{ID: "3", Title: "B-Side", Artist: "Artist A", Owner: "a@namsa.na"},
	}

	dash := BuildArtistDashboard("a@namsa.na", sheets, catalog)

	assert.Equal(t, "a@namsa.na", dash.Owner)
	assert.Equal(t, 3, dash.TotalSelections,
		"track 2 belongs to someone else and is excluded")
	assert.Len(t, dash.Tracks, 2)

	top := dash.Tracks[0]
	assert.Equal(t, "1", top.TrackID)
	assert.Equal(t, 3, top.Total)
	wantCompanies := []PieSlice{
		{Name: "Radio One", Value: 2},
		{Name: "Radio Two", Value: 1},
	}
	if diff := cmp.Diff(wantCompanies, top.Companies); diff != "" {
		t.Errorf("company split mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, "B-Side", dash.Tracks[1].Title)
	assert.Zero(t, dash.Tracks[1].Total)
}

func TestToSeriesAndToPie_PreserveOrder(t *testing.T) {
	entries := []CountEntry{
		{Key: "1", Label: "First", Count: 9},
		{Key: "2", Label: "Second", Count: 4},
	}

	series := ToSeries(entries)
	pie := ToPie(entries)

	assert.Equal(t,
		[]SeriesPoint{{Name: "First", Count: 9}, {Name: "Second", Count: 4}},
		series)
	assert.Equal(t,
		[]PieSlice{{Name: "First", Value: 9}, {Name: "Second", Value: 4}},
		pie)
}
