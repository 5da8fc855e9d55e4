package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

// SettingsStore reads and writes host preferences in app_settings.
type SettingsStore struct {
	db *DB
}

// NewSettingsStore creates a new SettingsStore.
func NewSettingsStore(db *DB) *SettingsStore {
	return &SettingsStore{db: db}
}

// GetInt returns the integer stored under key; ok is false when the row is
// missing or does not hold an integer.
func (s *SettingsStore) GetInt(key string) (n int, ok bool, err error) {
	var raw string
	err = s.db.conn.QueryRow(`SELECT value FROM app_settings WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get setting %q: %w", key, err)
	}
	n, convErr := strconv.Atoi(raw)
	if convErr != nil {
		return 0, false, nil
	}
	return n, true, nil
}

// SetInt upserts an integer setting.
func (s *SettingsStore) SetInt(key string, value int) error {
	_, err := s.db.conn.Exec(
		`INSERT INTO app_settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, strconv.Itoa(value),
	)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}
