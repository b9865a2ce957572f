package overrides

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLiteStore keeps the override map in the status_overrides table of the
// application database. SaveAll runs as a single transaction that clears
// and repopulates the table, matching the full-overwrite contract.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Load(ctx context.Context) (map[int]bool, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT group_id, active FROM status_overrides")
	if err != nil {
		return nil, fmt.Errorf("query status overrides: %w", err)
	}
	defer rows.Close()

	m := make(map[int]bool)
	for rows.Next() {
		var groupID int
		var active bool
		if err := rows.Scan(&groupID, &active); err != nil {
			return nil, fmt.Errorf("scan status override: %w", err)
		}
		m[groupID] = active
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status overrides: %w", err)
	}
	return m, nil
}

func (s *SQLiteStore) SaveAll(ctx context.Context, m map[int]bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin override save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM status_overrides"); err != nil {
		return fmt.Errorf("clear status overrides: %w", err)
	}
	for groupID, active := range m {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO status_overrides (group_id, active) VALUES (?, ?)",
			groupID, active)
		if err != nil {
			return fmt.Errorf("insert status override %d: %w", groupID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit override save: %w", err)
	}
	return nil
}
