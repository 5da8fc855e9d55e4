package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/logger"

	"portbridge/internal/document"
	"portbridge/internal/domain"
	"portbridge/internal/service"
)

// ErrAttached is returned by Attach when the bridge is already subscribed.
var ErrAttached = errors.New("bridge: already attached")

// Deps holds everything the bridge drives.
type Deps struct {
	Store    domain.ItemStore
	Document document.Document
	Guard    *service.CloseGuard
	Logger   logger.Logger

	// Keys to hydrate; defaults to domain.StoreKeys().
	Keys []domain.StoreKey
	// QueueSize bounds the dispatcher queue; 0 picks a default.
	QueueSize int
}

// Bridge hydrates the UI core's flags and then routes its outbound
// commands to the storage, close guard and favicon handlers.
type Bridge struct {
	keys       []domain.StoreKey
	hydrator   *service.FlagHydrator
	storage    *service.StorageSync
	guard      *service.CloseGuard
	favicon    *service.Favicon
	log        logger.Logger
	dispatcher *Dispatcher

	mu    sync.Mutex
	flags domain.FlagSnapshot
	offs  []func()
}

// New hydrates the flag snapshot. Handlers are attached separately, so the
// snapshot always reflects storage as it was before any command ran.
func New(deps Deps) *Bridge {
	keys := deps.Keys
	if len(keys) == 0 {
		keys = domain.StoreKeys()
	}
	guard := deps.Guard
	if guard == nil {
		guard = service.NewCloseGuard("")
	}

	b := &Bridge{
		keys:     keys,
		hydrator: service.NewFlagHydrator(deps.Store, deps.Logger),
		storage:  service.NewStorageSync(deps.Store),
		guard:    guard,
		favicon:  service.NewFavicon(deps.Document, deps.Logger),
		log:      deps.Logger,
	}
	b.flags = b.hydrator.Hydrate(keys)
	b.dispatcher = NewDispatcher(b.Handle, deps.Logger, deps.QueueSize)
	return b
}

// Flags returns the most recent snapshot. It is never modified after it
// was hydrated; a core built from it keeps seeing the same values.
func (b *Bridge) Flags() domain.FlagSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.flags
}

// Rehydrate reads a fresh snapshot for a new page load. It runs on the
// dispatcher after every command already queued, so writes made by the
// previous page are visible. Once the dispatcher has stopped no more writes
// can arrive and the store is read directly.
func (b *Bridge) Rehydrate(ctx context.Context) (domain.FlagSnapshot, error) {
	var snap domain.FlagSnapshot
	err := b.dispatcher.Do(ctx, func() {
		snap = b.hydrator.Hydrate(b.keys)
	})
	if errors.Is(err, ErrStopped) {
		snap, err = b.hydrator.Hydrate(b.keys), nil
	}
	if err != nil {
		return domain.FlagSnapshot{}, fmt.Errorf("rehydrate: %w", err)
	}

	b.mu.Lock()
	b.flags = snap
	b.mu.Unlock()
	return snap, nil
}

// Guard returns the close guard the host consults before closing.
func (b *Bridge) Guard() *service.CloseGuard {
	return b.guard
}

// Attach subscribes one handler per channel on ports.
func (b *Bridge) Attach(ports service.PortBus) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.offs != nil {
		return ErrAttached
	}
	for _, ch := range Channels() {
		channel := ch
		off := ports.On(channel, func(payload ...any) {
			if !b.dispatcher.Submit(channel, payload...) {
				b.log.Warning(fmt.Sprintf("[bridge] %s: dropped, bridge is closed", channel))
			}
		})
		b.offs = append(b.offs, off)
	}
	return nil
}

// Detach removes the channel subscriptions.
func (b *Bridge) Detach() {
	b.mu.Lock()
	offs := b.offs
	b.offs = nil
	b.mu.Unlock()

	for _, off := range offs {
		off()
	}
}

// Run processes commands until ctx is cancelled or Close is called.
func (b *Bridge) Run(ctx context.Context) {
	b.dispatcher.Run(ctx)
}

// Close detaches and lets Run drain the queued commands.
func (b *Bridge) Close() {
	b.Detach()
	b.dispatcher.Close()
}

// Done is closed once Run has returned.
func (b *Bridge) Done() <-chan struct{} {
	return b.dispatcher.Done()
}

// Handle applies one decoded command.
func (b *Bridge) Handle(cmd Command) error {
	switch c := cmd.(type) {
	case SetItem:
		if err := b.storage.SetItem(c.Key, c.Value); err != nil {
			return fmt.Errorf("set item: %w", err)
		}
	case SetPreventClose:
		b.guard.SetPreventClose(c.Prevent)
	case SetFavicon:
		b.favicon.SetFavicon(c.Status)
	case Rejected:
		b.log.Warning(fmt.Sprintf("[bridge] %s: rejected payload: %s", c.Source, c.Reason))
	default:
		b.log.Warning(fmt.Sprintf("[bridge] unhandled command %T", cmd))
	}
	return nil
}
