package db

import (
	"context"
	"database/sql"

	"github.com/keepsakehq/keepsake/internal/errors"
)

// GetSetting reads a value from the settings key-value table.
// The second return value is false when the key is absent.
func GetSetting(ctx context.Context, db *sql.DB, key string) (string, bool, error) {
	query := `SELECT value FROM settings WHERE key = ?`

	var value string
	err := db.QueryRowContext(ctx, query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.NewInternal(err)
	}

	return value, true, nil
}

// SetSetting writes a value into the settings key-value table, replacing
// any previous value for the key.
func SetSetting(ctx context.Context, db *sql.DB, key, value string) error {
	query := `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`

	if _, err := db.ExecContext(ctx, query, key, value); err != nil {
		return errors.NewInternal(err)
	}

	return nil
}
