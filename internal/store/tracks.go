package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Track is a catalog entity owned by one rights holder. It is
// used to restrict and label the scoped analytics view.
type Track struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Artist string  `json:"artist"`
	Album  *string `json:"album"`
	Owner  string  `json:"owner"`
}

// UpsertTrack inserts or updates a catalog track.
func (s *Store) UpsertTrack(t Track) error {
	return s.Update(func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO tracks (id, title, artist, album, owner)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET
			   title = excluded.title,
			   artist = excluded.artist,
			   album = excluded.album,
			   owner = excluded.owner`,
			t.ID, t.Title, t.Artist, t.Album, t.Owner,
		)
		if err != nil {
			return fmt.Errorf("upserting track %s: %w", t.ID, err)
		}
		return nil
	})
}

// TracksByOwner returns the catalog tracks registered to one
// rights holder, ordered by title.
func (s *Store) TracksByOwner(
	ctx context.Context, owner string,
) ([]Track, error) {
	return s.queryTracks(ctx,
		`SELECT id, title, artist, album, owner FROM tracks
		 WHERE owner = ? ORDER BY title, id`, owner)
}

// Tracks returns the full catalog ordered by title.
func (s *Store) Tracks(ctx context.Context) ([]Track, error) {
	return s.queryTracks(ctx,
		`SELECT id, title, artist, album, owner FROM tracks
		 ORDER BY title, id`)
}

func (s *Store) queryTracks(
	ctx context.Context, query string, args ...any,
) ([]Track, error) {
	rows, err := s.reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying tracks: %w", err)
	}
	defer rows.Close()

	tracks := []Track{}
	for rows.Next() {
		var t Track
		if err := rows.Scan(
			&t.ID, &t.Title, &t.Artist, &t.Album, &t.Owner,
		); err != nil {
			return nil, fmt.Errorf("scanning track: %w", err)
		}
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tracks: %w", err)
	}
	return tracks, nil
}
