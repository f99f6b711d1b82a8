// Package ingest imports log-sheet and track exports from JSON
// files and keeps the store current as files change.
package ingest

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/namsa/insights/internal/store"
)

// ImportStats summarizes one import pass.
type ImportStats struct {
	Files   int `json:"files"`
	Sheets  int `json:"sheets"`
	Tracks  int `json:"tracks"`
	Skipped int `json:"skipped"`
}

// Importer loads exported JSON files into the store. Input files
// are frequently hand-exported and partially filled; anything
// without a usable id is skipped, never rejected.
type Importer struct {
	store *store.Store
}

// NewImporter creates an Importer writing to st.
func NewImporter(st *store.Store) *Importer {
	return &Importer{store: st}
}

// ImportDir imports every .json file under dir, descending into
// subdirectories. A missing dir is an empty import, not an error.
func (im *Importer) ImportDir(dir string) (ImportStats, error) {
	var stats ImportStats
	walk := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir && os.IsNotExist(err) {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}
		if err := im.ImportFile(path, &stats); err != nil {
			// One bad file must not sink the rest.
			log.Printf("ingest: %s: %v", path, err)
			return nil
		}
		stats.Files++
		return nil
	}
	if err := filepath.WalkDir(dir, walk); err != nil {
		return stats, fmt.Errorf("walking import dir: %w", err)
	}
	return stats, nil
}

// ImportFile imports a single JSON export. The file may hold an
// object with "log_sheets" and/or "tracks" arrays, or a bare
// array of log sheets.
func (im *Importer) ImportFile(path string, stats *ImportStats) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("not valid JSON")
	}

	doc := gjson.ParseBytes(data)
	if doc.IsArray() {
		im.importSheets(doc, stats)
		return nil
	}
	if sheets := doc.Get("log_sheets"); sheets.IsArray() {
		im.importSheets(sheets, stats)
	}
	if tracks := doc.Get("tracks"); tracks.IsArray() {
		im.importTracks(tracks, stats)
	}
	return nil
}

func (im *Importer) importSheets(arr gjson.Result, stats *ImportStats) {
	arr.ForEach(func(_, raw gjson.Result) bool {
		sheet, ok := parseSheet(raw)
		if !ok {
			stats.Skipped++
			return true
		}
		if err := im.store.ReplaceLogSheet(sheet); err != nil {
			log.Printf("ingest: sheet %s: %v", sheet.ID, err)
			stats.Skipped++
			return true
		}
		stats.Sheets++
		return true
	})
}

func (im *Importer) importTracks(arr gjson.Result, stats *ImportStats) {
	arr.ForEach(func(_, raw gjson.Result) bool {
		track, ok := parseTrack(raw)
		if !ok {
			stats.Skipped++
			return true
		}
		if err := im.store.UpsertTrack(track); err != nil {
			log.Printf("ingest: track %s: %v", track.ID, err)
			stats.Skipped++
			return true
		}
		stats.Tracks++
		return true
	})
}

// parseSheet maps one JSON record to a LogSheet. Sheets without
// an id or creation timestamp are unusable.
func parseSheet(raw gjson.Result) (store.LogSheet, bool) {
	id := raw.Get("id").String()
	created := firstString(raw, "created_at", "created_date")
	if id == "" || created == "" {
		return store.LogSheet{}, false
	}

	sheet := store.LogSheet{
		ID:        id,
		Company:   optString(raw, "company"),
		CreatedAt: created,
	}

	selections := raw.Get("selections")
	if !selections.IsArray() {
		selections = raw.Get("selected_music")
	}
	selections.ForEach(func(_, sel gjson.Result) bool {
		sheet.Selections = append(sheet.Selections, store.SelectionEntry{
			TrackID:   firstOptString(sel, "track_id", "id"),
			Title:     optString(sel, "title"),
			Artist:    optString(sel, "artist"),
			UserEmail: firstOptString(sel, "user_email", "user.email"),
		})
		return true
	})
	return sheet, true
}

// parseTrack maps one JSON record to a catalog Track.
func parseTrack(raw gjson.Result) (store.Track, bool) {
	id := raw.Get("id").String()
	if id == "" {
		return store.Track{}, false
	}
	title := raw.Get("title").String()
	if title == "" {
		title = "Track " + id
	}
	owner := firstString(raw, "owner", "user.email", "artist")
	return store.Track{
		ID:     id,
		Title:  title,
		Artist: raw.Get("artist").String(),
		Album:  optString(raw, "album"),
		Owner:  owner,
	}, owner != ""
}

// firstString returns the first non-empty value among paths.
func firstString(raw gjson.Result, paths ...string) string {
	for _, p := range paths {
		if v := raw.Get(p).String(); v != "" {
			return v
		}
	}
	return ""
}

// optString returns a pointer to the value at path, or nil when
// absent or empty.
func optString(raw gjson.Result, path string) *string {
	if v := raw.Get(path).String(); v != "" {
		return &v
	}
	return nil
}

// firstOptString is optString over several candidate paths.
func firstOptString(raw gjson.Result, paths ...string) *string {
	if v := firstString(raw, paths...); v != "" {
		return &v
	}
	return nil
}
