package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLitePreferencesStorage persists preferences in a single-row SQLite
// table, JSON-encoded. Suitable for single-host deployments.
type SQLitePreferencesStorage struct {
	db *sql.DB
}

// NewSQLitePreferencesStorage opens (or creates) the database at path
// and ensures the preferences table exists.
func NewSQLitePreferencesStorage(path string) (*SQLitePreferencesStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS preferences (
			id TEXT PRIMARY KEY,
			data TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("init preferences table: %w", err)
	}
	return &SQLitePreferencesStorage{db: db}, nil
}

func (s *SQLitePreferencesStorage) Get(ctx context.Context) (*Preferences, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM preferences WHERE id = ?", preferencesRecordID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultPreferences(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read preferences: %w", err)
	}

	var prefs Preferences
	if err := json.Unmarshal([]byte(data), &prefs); err != nil {
		return nil, fmt.Errorf("decode preferences: %w", err)
	}
	return &prefs, nil
}

func (s *SQLitePreferencesStorage) Save(ctx context.Context, prefs *Preferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO preferences (id, data) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data
	`, preferencesRecordID, string(data))
	if err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLitePreferencesStorage) Close() error {
	return s.db.Close()
}
