package service

import (
	"portbridge/internal/domain"
	"portbridge/internal/value"
)

// StorageSync persists values written by the UI core. It never reports back
// to the running core; the next hydration is the only reader.
type StorageSync struct {
	store domain.ItemStore
}

// NewStorageSync creates a StorageSync.
func NewStorageSync(store domain.ItemStore) *StorageSync {
	return &StorageSync{store: store}
}

// SetItem overwrites key with the canonical encoding of v.
func (s *StorageSync) SetItem(key string, v value.Value) error {
	return s.store.SetItem(key, value.Encode(v))
}
