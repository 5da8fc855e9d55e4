package service

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/wailsapp/wails/v2/pkg/logger"

	"portbridge/internal/domain"
)

// StoreWatcher polls the item store for writes made by another process
// (the standalone MCP server) and reports the keys that changed. Writes
// made through Track are the host's own and are not reported.
type StoreWatcher struct {
	store    domain.ItemStore
	log      logger.Logger
	notify   func(keys []string)
	interval time.Duration

	checkMu sync.Mutex // one Check at a time

	mu      sync.Mutex
	last    map[string]string // nil until the first poll
	pending map[string]string // key -> text written locally, not yet observed
}

// NewStoreWatcher creates a watcher. notify runs on a watcher goroutine.
func NewStoreWatcher(store domain.ItemStore, log logger.Logger, notify func(keys []string)) *StoreWatcher {
	return &StoreWatcher{
		store:    store,
		log:      log,
		notify:   notify,
		interval: 2 * time.Second,
		pending:  map[string]string{},
	}
}

// Track wraps store so writes through it are recognised as local.
func (w *StoreWatcher) Track(store domain.ItemStore) domain.ItemStore {
	return &trackedStore{ItemStore: store, w: w}
}

// Start polls until ctx is cancelled.
func (w *StoreWatcher) Start(ctx context.Context) {
	w.Check()
	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.Check()
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Watch checks as soon as one of files is written, in addition to polling.
// SQLite in WAL mode writes the -wal file first, so pass both.
func (w *StoreWatcher) Watch(ctx context.Context, files ...string) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	watched := make(map[string]bool, len(files))
	dirs := map[string]bool{}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fw.Close()
			return err
		}
		watched[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	// fsnotify watches directories for file events
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	go func() {
		defer fw.Close()
		for {
			select {
			case event, ok := <-fw.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				abs, _ := filepath.Abs(event.Name)
				if watched[abs] {
					w.Check()
				}
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				w.log.Warning("[StoreWatcher] fsnotify: " + err.Error())
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

// Check compares the store with the previous poll and returns the keys
// changed externally, in sorted order. The first call only records a
// baseline.
func (w *StoreWatcher) Check() []string {
	w.checkMu.Lock()
	defer w.checkMu.Unlock()

	current, err := w.read()
	if err != nil {
		w.log.Warning("[StoreWatcher] read store: " + err.Error())
		return nil
	}

	w.mu.Lock()
	var changed []string
	if w.last != nil {
		for k, text := range current {
			if prev, ok := w.last[k]; ok && prev == text {
				if w.pending[k] == text {
					delete(w.pending, k)
				}
				continue
			}
			if local, ok := w.pending[k]; ok && local == text {
				delete(w.pending, k)
				continue
			}
			changed = append(changed, k)
		}
		for k := range w.last {
			if _, ok := current[k]; !ok {
				changed = append(changed, k)
			}
		}
	}
	w.last = current
	w.mu.Unlock()

	if len(changed) == 0 {
		return nil
	}
	sort.Strings(changed)
	w.log.Info("[StoreWatcher] items changed outside the UI: " + strings.Join(changed, ", "))
	if w.notify != nil {
		w.notify(changed)
	}
	return changed
}

func (w *StoreWatcher) read() (map[string]string, error) {
	keys, err := w.store.Keys()
	if err != nil {
		return nil, err
	}
	items := make(map[string]string, len(keys))
	for _, k := range keys {
		text, ok, err := w.store.GetItem(k)
		if err != nil {
			return nil, err
		}
		if ok {
			items[k] = text
		}
	}
	return items, nil
}

func (w *StoreWatcher) noteLocal(key, text string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[key] = text
}

func (w *StoreWatcher) forgetLocal(key string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.pending, key)
}

type trackedStore struct {
	domain.ItemStore
	w *StoreWatcher
}

func (s *trackedStore) SetItem(key, text string) error {
	s.w.noteLocal(key, text)
	if err := s.ItemStore.SetItem(key, text); err != nil {
		s.w.forgetLocal(key)
		return err
	}
	return nil
}
