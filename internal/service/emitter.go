package service

import "sync"

// ─────────────────────────────────────────────────────────────
// PortBus: decouples the bridge from wailsRuntime events
// ─────────────────────────────────────────────────────────────

// PortBus subscribes to the outbound channels ("ports") of the UI core.
// The App implements this by delegating to wailsRuntime.EventsOn.
// Services receive this interface instead of a wailsRuntime context,
// which makes them independently testable with MockPorts.
type PortBus interface {
	// On registers handler for channel and returns a function removing it.
	On(channel string, handler func(payload ...any)) (off func())
}

// MockPorts is a test-friendly PortBus that lets tests publish as the UI core.
type MockPorts struct {
	mu       sync.Mutex
	handlers map[string]map[int]func(payload ...any)
	nextID   int
}

func (m *MockPorts) On(channel string, handler func(payload ...any)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.handlers == nil {
		m.handlers = make(map[string]map[int]func(payload ...any))
	}
	if m.handlers[channel] == nil {
		m.handlers[channel] = make(map[int]func(payload ...any))
	}
	id := m.nextID
	m.nextID++
	m.handlers[channel][id] = handler
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.handlers[channel], id)
	}
}

// Publish delivers payload to every handler subscribed to channel.
func (m *MockPorts) Publish(channel string, payload ...any) {
	m.mu.Lock()
	var hs []func(payload ...any)
	for _, h := range m.handlers[channel] {
		hs = append(hs, h)
	}
	m.mu.Unlock()

	for _, h := range hs {
		h(payload...)
	}
}

// Subscribers returns how many handlers listen on channel.
func (m *MockPorts) Subscribers(channel string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.handlers[channel])
}
