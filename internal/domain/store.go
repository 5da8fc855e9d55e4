package domain

// ItemStore is the persistent key/value medium shared with the UI core.
// Values are the canonical text encoding of a structured value.
type ItemStore interface {
	// GetItem returns the raw text under key; ok is false when nothing is stored.
	GetItem(key string) (text string, ok bool, err error)
	// SetItem replaces whatever is stored under key.
	SetItem(key, text string) error
	// Keys lists every stored key in sorted order.
	Keys() ([]string, error)
}
