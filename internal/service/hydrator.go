package service

import (
	"fmt"

	"github.com/wailsapp/wails/v2/pkg/logger"

	"portbridge/internal/domain"
	"portbridge/internal/value"
)

// ─────────────────────────────────────────────────────────────
// FlagHydrator: builds the UI core's construction flags
// ─────────────────────────────────────────────────────────────

// FlagHydrator reads the persisted slots and decodes them.
type FlagHydrator struct {
	store domain.ItemStore
	log   logger.Logger
}

// NewFlagHydrator creates a FlagHydrator.
func NewFlagHydrator(store domain.ItemStore, log logger.Logger) *FlagHydrator {
	return &FlagHydrator{store: store, log: log}
}

// Hydrate returns one entry per key. Missing, unreadable and malformed
// entries come back absent; nothing here fails.
func (h *FlagHydrator) Hydrate(keys []domain.StoreKey) domain.FlagSnapshot {
	snap := domain.NewFlagSnapshot(keys)
	for _, k := range snap.Keys() {
		if v, ok := h.load(k); ok {
			snap.Set(k, v)
		}
	}
	return snap
}

func (h *FlagHydrator) load(k domain.StoreKey) (value.Value, bool) {
	text, ok, err := h.store.GetItem(string(k))
	if err != nil {
		h.log.Warning(fmt.Sprintf("[hydrate] read %s: %v", k, err))
		return nil, false
	}
	if !ok {
		return nil, false
	}

	v, err := value.Decode(text)
	if err != nil {
		h.log.Debug(fmt.Sprintf("[hydrate] %s is not decodable, treating as absent: %v", k, err))
		return nil, false
	}
	return v, true
}
