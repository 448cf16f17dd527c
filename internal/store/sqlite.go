package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (creating parent directories as needed) a SQLite
// database at the given path and configures WAL mode.
func NewSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, eris.Wrap(err, "sqlite: create data dir")
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS session_fields (
	field      TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, field Field) (string, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT value FROM session_fields WHERE field = ?`,
		string(field),
	)
	var value string
	err := row.Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, eris.Wrapf(err, "sqlite: get %s", field)
	}
	return value, true, nil
}

func (s *SQLiteStore) Put(ctx context.Context, field Field, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session_fields (field, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(field) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		string(field), value, time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: put %s", field)
}

func (s *SQLiteStore) Delete(ctx context.Context, field Field) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM session_fields WHERE field = ?`,
		string(field),
	)
	return eris.Wrapf(err, "sqlite: delete %s", field)
}
