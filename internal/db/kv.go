package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hpungsan/supply/internal/errors"
)

// Get returns the value stored under key.
// A missing key is reported as NOT_FOUND.
func Get(ctx context.Context, db *sql.DB, key string) (string, error) {
	var value string
	err := db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", &errors.SupplyError{
			Code:    errors.ErrNotFound,
			Status:  404,
			Message: fmt.Sprintf("key not found: %s", key),
			Details: map[string]any{"key": key},
		}
	}
	if err != nil {
		return "", errors.NewInternal(err)
	}
	return value, nil
}

// Put stores value under key, replacing any previous value.
func Put(ctx context.Context, db *sql.DB, key, value string) error {
	query := `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := db.ExecContext(ctx, query, key, value, time.Now().Unix()); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}
