// Package history persists the pairing history in a SQLite database.
package history

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"

	core "github.com/techstars-london/mentormagic/core/history"
)

// SQLiteStore implements core/history.Store on a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS pairings (
        mentor_id TEXT NOT NULL,
        company_id TEXT NOT NULL,
        date TEXT NOT NULL,
        PRIMARY KEY(mentor_id, company_id, date)
    );`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Load reads the full pairing history into an isolated snapshot.
func (s *SQLiteStore) Load(ctx context.Context) (*core.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT mentor_id, company_id, date FROM pairings`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var entries []core.Entry
	for rows.Next() {
		var e core.Entry
		if err := rows.Scan(&e.MentorID, &e.CompanyID, &e.Date); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return core.NewSnapshot(entries), nil
}

// Commit appends the entries. Re-committing an existing pair/date is a no-op,
// so a retried run cannot inflate the history.
func (s *SQLiteStore) Commit(ctx context.Context, entries []core.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, `INSERT INTO pairings (mentor_id, company_id, date)
            VALUES (?, ?, ?) ON CONFLICT(mentor_id, company_id, date) DO NOTHING`,
			e.MentorID, e.CompanyID, e.Date); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
