package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// LogSheet is a record of one company's track selections on a
// given date. Company may be NULL for partially filled sheets;
// labeling defaults are applied downstream, not here.
type LogSheet struct {
	ID         string           `json:"id"`
	Company    *string          `json:"company"`
	CreatedAt  string           `json:"created_at"` // RFC3339
	Selections []SelectionEntry `json:"selections"`
}

// SelectionEntry is one track listing on a log sheet. Every
// occurrence is a distinct selection event; duplicates within a
// sheet are deliberate and must be preserved. All fields except
// the ordinal may be absent in imported data.
type SelectionEntry struct {
	TrackID   *string `json:"track_id"`
	Title     *string `json:"title"`
	Artist    *string `json:"artist"`
	UserEmail *string `json:"user_email"`
}

// ReplaceLogSheet upserts a log sheet and replaces its selection
// rows in a single transaction.
func (s *Store) ReplaceLogSheet(sheet LogSheet) error {
	return s.Update(func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO log_sheets (id, company, created_at)
			 VALUES (?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET
			   company = excluded.company,
			   created_at = excluded.created_at`,
			sheet.ID, sheet.Company, sheet.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("upserting log sheet %s: %w", sheet.ID, err)
		}

		if _, err := tx.Exec(
			"DELETE FROM selections WHERE sheet_id = ?", sheet.ID,
		); err != nil {
			return fmt.Errorf("clearing selections for %s: %w", sheet.ID, err)
		}

		for i, sel := range sheet.Selections {
			_, err := tx.Exec(
				`INSERT INTO selections
				 (sheet_id, ordinal, track_id, title, artist, user_email)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				sheet.ID, i, sel.TrackID, sel.Title,
				sel.Artist, sel.UserEmail,
			)
			if err != nil {
				return fmt.Errorf(
					"inserting selection %d for %s: %w", i, sheet.ID, err,
				)
			}
		}
		return nil
	})
}

// LogSheets returns the complete snapshot of log sheets with
// their selections, ordered by creation time.
func (s *Store) LogSheets(ctx context.Context) ([]LogSheet, error) {
	return s.querySheets(ctx,
		`SELECT id, company, created_at FROM log_sheets
		 ORDER BY created_at, id`)
}

// LogSheetsSelecting returns the log sheets that list at least
// one of the given track ids. An empty id set yields no sheets.
func (s *Store) LogSheetsSelecting(
	ctx context.Context, trackIDs []string,
) ([]LogSheet, error) {
	if len(trackIDs) == 0 {
		return []LogSheet{}, nil
	}
	ph := make([]string, len(trackIDs))
	args := make([]any, len(trackIDs))
	for i, id := range trackIDs {
		ph[i] = "?"
		args[i] = id
	}
	query := `SELECT id, company, created_at FROM log_sheets
		 WHERE id IN (
		   SELECT DISTINCT sheet_id FROM selections
		   WHERE track_id IN (` + strings.Join(ph, ",") + `)
		 )
		 ORDER BY created_at, id`
	return s.querySheets(ctx, query, args...)
}

// querySheets runs a log_sheets query and attaches selection
// rows to each returned sheet.
func (s *Store) querySheets(
	ctx context.Context, query string, args ...any,
) ([]LogSheet, error) {
	rows, err := s.reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying log sheets: %w", err)
	}
	defer rows.Close()

	var sheets []LogSheet
	index := make(map[string]int)
	for rows.Next() {
		var sheet LogSheet
		if err := rows.Scan(
			&sheet.ID, &sheet.Company, &sheet.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning log sheet: %w", err)
		}
		index[sheet.ID] = len(sheets)
		sheets = append(sheets, sheet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating log sheets: %w", err)
	}
	if len(sheets) == 0 {
		return []LogSheet{}, nil
	}

	if err := s.attachSelections(ctx, sheets, index); err != nil {
		return nil, err
	}
	return sheets, nil
}

// attachSelections loads selection rows for the given sheets in
// ordinal order and appends them to the matching sheet.
func (s *Store) attachSelections(
	ctx context.Context, sheets []LogSheet, index map[string]int,
) error {
	rows, err := s.reader.QueryContext(ctx,
		`SELECT sheet_id, track_id, title, artist, user_email
		 FROM selections ORDER BY sheet_id, ordinal`)
	if err != nil {
		return fmt.Errorf("querying selections: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sheetID string
		var sel SelectionEntry
		if err := rows.Scan(
			&sheetID, &sel.TrackID, &sel.Title,
			&sel.Artist, &sel.UserEmail,
		); err != nil {
			return fmt.Errorf("scanning selection: %w", err)
		}
		if i, ok := index[sheetID]; ok {
			sheets[i].Selections = append(sheets[i].Selections, sel)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating selections: %w", err)
	}
	return nil
}

// DeleteLogSheet removes a log sheet and its selections.
func (s *Store) DeleteLogSheet(id string) error {
	return s.Update(func(tx *sql.Tx) error {
		if _, err := tx.Exec(
			"DELETE FROM log_sheets WHERE id = ?", id,
		); err != nil {
			return fmt.Errorf("deleting log sheet %s: %w", id, err)
		}
		return nil
	})
}
