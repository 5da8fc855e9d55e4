package service

import (
	"strings"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/logger"
)

// MockLogger is a logger.Logger that records every line for test assertions.
type MockLogger struct {
	mu    sync.Mutex
	Lines []LoggedLine
}

// LoggedLine holds a single recorded log call.
type LoggedLine struct {
	Level   string
	Message string
}

var _ logger.Logger = (*MockLogger)(nil)

func (m *MockLogger) record(level, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Lines = append(m.Lines, LoggedLine{Level: level, Message: message})
}

func (m *MockLogger) Print(message string)   { m.record("print", message) }
func (m *MockLogger) Trace(message string)   { m.record("trace", message) }
func (m *MockLogger) Debug(message string)   { m.record("debug", message) }
func (m *MockLogger) Info(message string)    { m.record("info", message) }
func (m *MockLogger) Warning(message string) { m.record("warning", message) }
func (m *MockLogger) Error(message string)   { m.record("error", message) }
func (m *MockLogger) Fatal(message string)   { m.record("fatal", message) }

// Count returns how many lines were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.Lines {
		if l.Level == level {
			n++
		}
	}
	return n
}

// Contains reports whether any line at level mentions substr.
func (m *MockLogger) Contains(level, substr string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.Lines {
		if l.Level == level && strings.Contains(l.Message, substr) {
			return true
		}
	}
	return false
}
