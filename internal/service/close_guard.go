package service

import "sync"

// DefaultCloseMessage is shown when the guard intercepts a close.
// Most hosts replace it with their own generic wording.
const DefaultCloseMessage = "You have unsaved changes. Leave anyway?"

// Interceptor produces the confirmation message for an attempted close.
type Interceptor func() string

// CloseGuard owns the single close interceptor. It starts unguarded.
// BeforeUnload is called from the window thread, so state is locked.
type CloseGuard struct {
	message string

	mu          sync.Mutex
	interceptor Interceptor
}

// NewCloseGuard creates an unguarded CloseGuard. An empty message falls back
// to DefaultCloseMessage.
func NewCloseGuard(message string) *CloseGuard {
	if message == "" {
		message = DefaultCloseMessage
	}
	return &CloseGuard{message: message}
}

// SetPreventClose installs the interceptor for true and removes it for false.
func (g *CloseGuard) SetPreventClose(prevent bool) {
	if prevent {
		msg := g.message
		g.Install(func() string { return msg })
		return
	}
	g.Remove()
}

// Install replaces any previous interceptor with fn.
func (g *CloseGuard) Install(fn Interceptor) {
	g.mu.Lock()
	g.interceptor = fn
	g.mu.Unlock()
}

// Remove restores the default, unguarded close.
func (g *CloseGuard) Remove() {
	g.mu.Lock()
	g.interceptor = nil
	g.mu.Unlock()
}

// Guarded reports whether an interceptor is installed.
func (g *CloseGuard) Guarded() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.interceptor != nil
}

// BeforeUnload runs the interceptor, if any. intercept is false when the
// close should proceed unprompted; message is never empty when it is true.
func (g *CloseGuard) BeforeUnload() (message string, intercept bool) {
	g.mu.Lock()
	fn := g.interceptor
	g.mu.Unlock()

	if fn == nil {
		return "", false
	}
	if message = fn(); message == "" {
		message = DefaultCloseMessage
	}
	return message, true
}
