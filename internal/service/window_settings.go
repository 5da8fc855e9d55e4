package service

import (
	"fmt"

	"portbridge/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Window Size Persistence
// ─────────────────────────────────────────────────────────────
//
// Saves and restores the main Wails window size between sessions.
// Stored in SQLite as key-value rows in app_settings, next to (but
// separate from) the items the UI core persists.

// WindowSize holds the saved window dimensions.
type WindowSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// WindowSettingsService persists window size between sessions.
type WindowSettingsService struct {
	settings *storage.SettingsStore
	fallback WindowSize
}

// NewWindowSettingsService creates a WindowSettingsService. fallback is
// returned when nothing usable is stored.
func NewWindowSettingsService(settings *storage.SettingsStore, fallback WindowSize) *WindowSettingsService {
	return &WindowSettingsService{settings: settings, fallback: fallback}
}

const (
	settingWindowWidth  = "window_width"
	settingWindowHeight = "window_height"
	minWindowWidth      = 480
	minWindowHeight     = 360
)

// LoadWindowSize returns the saved window dimensions, or the fallback.
func (s *WindowSettingsService) LoadWindowSize() WindowSize {
	if s.settings == nil {
		return s.fallback
	}

	size := s.fallback
	if w, ok, err := s.settings.GetInt(settingWindowWidth); err == nil && ok && w >= minWindowWidth {
		size.Width = w
	}
	if h, ok, err := s.settings.GetInt(settingWindowHeight); err == nil && ok && h >= minWindowHeight {
		size.Height = h
	}
	return size
}

// SaveWindowSize persists the current window dimensions.
func (s *WindowSettingsService) SaveWindowSize(width, height int) error {
	if s.settings == nil {
		return fmt.Errorf("window settings: no store")
	}
	if err := s.settings.SetInt(settingWindowWidth, width); err != nil {
		return err
	}
	return s.settings.SetInt(settingWindowHeight, height)
}
