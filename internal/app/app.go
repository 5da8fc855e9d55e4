package app

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/wailsapp/wails/v2/pkg/logger"
	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"portbridge/internal/bridge"
	"portbridge/internal/config"
	"portbridge/internal/document"
	"portbridge/internal/service"
	"portbridge/internal/storage"
)

// App is the main Wails application struct.
// All exported methods are available as Wails bindings.
type App struct {
	ctx context.Context
	cfg config.Config
	log logger.Logger

	// index.html as shipped; the status document mirror starts from it
	page []byte

	db      *storage.DB
	window  *service.WindowSettingsService
	guard   *service.CloseGuard
	doc     *document.ScriptDocument
	bridge  *bridge.Bridge
	watcher *service.StoreWatcher

	// dialog asks the user to confirm a guarded close
	dialog func(ctx context.Context, opts wailsRuntime.MessageDialogOptions) (string, error)
}

// StorageChangedEvent carries the keys another process rewrote while the
// window was open. The running UI core keeps its flags until the page reloads.
const StorageChangedEvent = "portbridge:storage-changed"

// New creates a new App.
func New(cfg config.Config, log logger.Logger, page []byte) *App {
	return &App{
		cfg:    cfg,
		log:    log,
		page:   page,
		guard:  service.NewCloseGuard(cfg.CloseGuard.Message),
		dialog: wailsRuntime.MessageDialog,
	}
}

// Open opens the database. It runs before wails.Run so the saved window
// size is known when the window is created.
func (a *App) Open() error {
	db, err := storage.New(a.cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	a.db = db
	a.window = service.NewWindowSettingsService(storage.NewSettingsStore(db), service.WindowSize{
		Width:  a.cfg.Window.Width,
		Height: a.cfg.Window.Height,
	})
	return nil
}

// WindowSize returns the size to open the window with.
func (a *App) WindowSize() service.WindowSize {
	return a.window.LoadWindowSize()
}

// Startup is called when the app starts, before the frontend loads.
// Flags are first hydrated here, and only then are the port handlers attached.
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx

	a.doc = document.NewScriptDocument(a.parsePage(), func(js string) {
		wailsRuntime.WindowExecJS(ctx, js)
	})
	items := storage.NewItemStore(a.db)
	a.watcher = service.NewStoreWatcher(items, a.log, func(keys []string) {
		wailsRuntime.EventsEmit(ctx, StorageChangedEvent, keys)
	})
	a.bridge = bridge.New(bridge.Deps{
		Store:    a.watcher.Track(items),
		Document: a.doc,
		Guard:    a.guard,
		Logger:   a.log,
	})
	wailsRuntime.LogDebugf(ctx, "[Startup] hydrated %d flags from %s", a.bridge.Flags().Len(), a.db.Path())

	if err := a.bridge.Attach(wailsPorts{ctx: ctx}); err != nil {
		wailsRuntime.LogErrorf(ctx, "Failed to attach port handlers: %v", err)
		return
	}
	go a.bridge.Run(ctx)
	a.watcher.Start(ctx)
	if err := a.watcher.Watch(ctx, a.db.Path(), a.db.Path()+"-wal"); err != nil {
		wailsRuntime.LogWarningf(ctx, "[Startup] watch %s: %v; polling only", a.db.Path(), err)
	}
}

// DomReady is called after each page load. The live document was rebuilt
// from index.html, so the mirror is too.
func (a *App) DomReady(ctx context.Context) {
	if a.doc != nil {
		a.doc.Reset(a.parsePage())
	}
}

// BeforeClose asks for confirmation while the close guard is installed.
// Returning true keeps the window open.
func (a *App) BeforeClose(ctx context.Context) (prevent bool) {
	message, intercept := a.guard.BeforeUnload()
	if !intercept {
		return false
	}

	answer, err := a.dialog(ctx, wailsRuntime.MessageDialogOptions{
		Type:          wailsRuntime.QuestionDialog,
		Title:         a.cfg.Window.Title,
		Message:       message,
		Buttons:       []string{"Yes", "No"},
		DefaultButton: "No",
		CancelButton:  "No",
	})
	if err != nil {
		// A broken dialog must not trap the user in the window.
		a.log.Error(fmt.Sprintf("[BeforeClose] confirmation dialog: %v", err))
		return false
	}
	return answer != "Yes"
}

// Shutdown is called when the app is closing.
func (a *App) Shutdown(ctx context.Context) {
	if a.window != nil {
		w, h := wailsRuntime.WindowGetSize(ctx)
		if err := a.window.SaveWindowSize(w, h); err != nil {
			wailsRuntime.LogWarningf(ctx, "[Shutdown] save window size: %v", err)
		}
	}

	if a.bridge != nil {
		a.bridge.Close()
		select {
		case <-a.bridge.Done():
		case <-time.After(2 * time.Second):
			wailsRuntime.LogWarningf(ctx, "[Shutdown] port handlers still busy, closing anyway")
		}
	}

	if a.db != nil {
		a.db.Close()
	}
}

// Flags returns the construction flags for the UI core. The frontend calls
// it once per page load, before initialising the core, so a reloaded page
// sees everything the previous one stored. Absent entries are omitted.
func (a *App) Flags() map[string]any {
	if a.bridge == nil {
		return map[string]any{}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	snap, err := a.bridge.Rehydrate(ctx)
	if err != nil {
		a.log.Warning(fmt.Sprintf("[Flags] %v; serving the previous snapshot", err))
		snap = a.bridge.Flags()
	}
	return snap.Flags()
}

func (a *App) parsePage() *document.HTMLDocument {
	doc, err := document.Parse(bytes.NewReader(a.page))
	if err != nil {
		a.log.Warning(fmt.Sprintf("[document] %v; starting from a blank page", err))
		return document.New()
	}
	return doc
}

// wailsPorts implements service.PortBus on Wails runtime events.
type wailsPorts struct {
	ctx context.Context
}

func (p wailsPorts) On(channel string, handler func(payload ...any)) func() {
	return wailsRuntime.EventsOn(p.ctx, channel, handler)
}
