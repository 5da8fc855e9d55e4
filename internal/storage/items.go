package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ItemStore implements domain.ItemStore on the local_storage table.
type ItemStore struct {
	db *DB
}

// NewItemStore creates a new ItemStore.
func NewItemStore(db *DB) *ItemStore {
	return &ItemStore{db: db}
}

func (s *ItemStore) GetItem(key string) (string, bool, error) {
	var text string
	err := s.db.conn.QueryRow(`SELECT value FROM local_storage WHERE key = ?`, key).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get item %q: %w", key, err)
	}
	return text, true, nil
}

// SetItem upserts the row; the previous value is discarded.
func (s *ItemStore) SetItem(key, text string) error {
	_, err := s.db.conn.Exec(
		`INSERT INTO local_storage (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, text, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set item %q: %w", key, err)
	}
	return nil
}

func (s *ItemStore) Keys() ([]string, error) {
	rows, err := s.db.conn.Query(`SELECT key FROM local_storage ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
