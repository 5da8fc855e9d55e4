package domain

import (
	"encoding/json"

	"portbridge/internal/value"
)

// StoreKey names a persistence slot hydrated at startup.
type StoreKey string

const (
	StoreCreateForm StoreKey = "createForm"
	StoreRecordList StoreKey = "recordList"
	StoreSettings   StoreKey = "settings"
)

// StoreKeys returns the declared slots in their fixed order.
func StoreKeys() []StoreKey {
	return []StoreKey{StoreCreateForm, StoreRecordList, StoreSettings}
}

// ParseStoreKey reports whether s names a declared slot.
func ParseStoreKey(s string) (StoreKey, bool) {
	for _, k := range StoreKeys() {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// FlagSnapshot is the initial state handed to the UI core. It holds exactly
// one entry per hydrated key; an entry is either a decoded value or absent.
type FlagSnapshot struct {
	keys   []StoreKey
	values map[StoreKey]value.Value // absent keys are not in the map
}

// NewFlagSnapshot returns a snapshot with every key absent.
// Repeated keys are kept once, first position wins.
func NewFlagSnapshot(keys []StoreKey) FlagSnapshot {
	s := FlagSnapshot{values: make(map[StoreKey]value.Value, len(keys))}
	seen := make(map[StoreKey]bool, len(keys))
	for _, k := range keys {
		if seen[k] {
			continue
		}
		seen[k] = true
		s.keys = append(s.keys, k)
	}
	return s
}

// Set records a decoded value for k. Keys outside the snapshot are ignored.
func (s FlagSnapshot) Set(k StoreKey, v value.Value) {
	if !s.Has(k) {
		return
	}
	if v == nil {
		v = value.Null{}
	}
	s.values[k] = v
}

// Has reports whether k is one of the snapshot's entries.
func (s FlagSnapshot) Has(k StoreKey) bool {
	for _, key := range s.keys {
		if key == k {
			return true
		}
	}
	return false
}

// Get returns the decoded value for k; ok is false when k is absent.
func (s FlagSnapshot) Get(k StoreKey) (v value.Value, ok bool) {
	v, ok = s.values[k]
	return v, ok
}

// Keys returns the snapshot's entries in hydration order.
func (s FlagSnapshot) Keys() []StoreKey {
	return append([]StoreKey(nil), s.keys...)
}

// Len is the number of entries, present or absent.
func (s FlagSnapshot) Len() int {
	return len(s.keys)
}

// Flags returns the object passed to the UI core at construction.
// Absent entries are omitted so the core sees them as undefined.
func (s FlagSnapshot) Flags() map[string]any {
	out := make(map[string]any, len(s.values))
	for _, k := range s.keys {
		if v, ok := s.values[k]; ok {
			out[string(k)] = value.ToAny(v)
		}
	}
	return out
}

func (s FlagSnapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Flags())
}
