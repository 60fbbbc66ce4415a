package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Setting returns the value stored under key, or "" when the key is
// absent.
func (s *Store) Setting(ctx context.Context, key string) (string, error) {
	if s == nil || s.db == nil {
		return "", errors.New("sqlite store not initialised")
	}
	var value string
	if err := s.db.GetContext(ctx, &value, `SELECT value FROM settings WHERE key = ?`, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("select setting: %w", err)
	}
	return value, nil
}

// AllSettings returns every stored key-value pair.
func (s *Store) AllSettings(ctx context.Context) ([]Setting, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("sqlite store not initialised")
	}
	settings := []Setting{}
	if err := s.db.SelectContext(ctx, &settings, `SELECT * FROM settings ORDER BY key`); err != nil {
		return nil, fmt.Errorf("select settings: %w", err)
	}
	return settings, nil
}

// UpsertSetting creates or overwrites the value stored under key.
func (s *Store) UpsertSetting(ctx context.Context, key, value string) error {
	if s == nil || s.db == nil {
		return errors.New("sqlite store not initialised")
	}
	if _, err := s.db.ExecContext(ctx, `INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
                ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, Now()); err != nil {
		return fmt.Errorf("upsert setting: %w", err)
	}
	return nil
}
