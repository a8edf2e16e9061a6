package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLiteKV stores entries in the session_entries table created by the db
// package migrations.
type SQLiteKV struct {
	db *sql.DB
}

func NewSQLiteKV(db *sql.DB) *SQLiteKV {
	return &SQLiteKV{db: db}
}

func (s *SQLiteKV) Get(ctx context.Context, sessionID, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `
		SELECT value FROM session_entries WHERE session_id = ? AND key = ?
	`, sessionID, key).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get session entry: %w", err)
	}
	return value, true, nil
}

func (s *SQLiteKV) Set(ctx context.Context, sessionID, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session_entries (session_id, key, value) VALUES (?, ?, ?)
		ON CONFLICT (session_id, key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, sessionID, key, value)
	if err != nil {
		return fmt.Errorf("failed to set session entry: %w", err)
	}
	return nil
}
