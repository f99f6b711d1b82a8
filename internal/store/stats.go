package store

import (
	"context"
	"fmt"
)

// Stats holds database-wide counts for the stats endpoint.
type Stats struct {
	SheetCount     int `json:"sheet_count"`
	SelectionCount int `json:"selection_count"`
	TrackCount     int `json:"track_count"`
	CompanyCount   int `json:"company_count"`
}

// GetStats returns aggregate counts across the whole database.
func (s *Store) GetStats(ctx context.Context) (Stats, error) {
	const query = `
		SELECT
			(SELECT COUNT(*) FROM log_sheets),
			(SELECT COUNT(*) FROM selections),
			(SELECT COUNT(*) FROM tracks),
			(SELECT COUNT(DISTINCT company) FROM log_sheets
			 WHERE company IS NOT NULL)`

	var st Stats
	err := s.reader.QueryRowContext(ctx, query).Scan(
		&st.SheetCount,
		&st.SelectionCount,
		&st.TrackCount,
		&st.CompanyCount,
	)
	if err != nil {
		return Stats{}, fmt.Errorf("fetching stats: %w", err)
	}
	return st, nil
}
