package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"portbridge/internal/bridge"
	"portbridge/internal/config"
	"portbridge/internal/document"
	"portbridge/internal/service"
	"portbridge/internal/storage"
)

const testPage = `<html><head><link rel="icon" href="/stop.ico"></head></html>`

// ─────────────────────────────────────────────────────────────
// Close confirmation
// ─────────────────────────────────────────────────────────────

func TestBeforeClose_Unguarded(t *testing.T) {
	a := New(config.Config{}, &service.MockLogger{}, nil)
	a.dialog = func(context.Context, wailsRuntime.MessageDialogOptions) (string, error) {
		t.Fatal("no dialog while the guard is removed")
		return "", nil
	}
	assert.False(t, a.BeforeClose(context.Background()))
}

func TestBeforeClose_Guarded(t *testing.T) {
	cases := []struct {
		name    string
		answer  string
		err     error
		prevent bool
	}{
		{name: "confirmed", answer: "Yes", prevent: false},
		{name: "declined", answer: "No", prevent: true},
		{name: "dialog failed", err: errors.New("no display"), prevent: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			log := &service.MockLogger{}
			a := New(config.Config{Window: config.WindowConfig{Title: "Records"}}, log, nil)
			a.guard.SetPreventClose(true)

			var shown wailsRuntime.MessageDialogOptions
			a.dialog = func(_ context.Context, opts wailsRuntime.MessageDialogOptions) (string, error) {
				shown = opts
				return tc.answer, tc.err
			}

			assert.Equal(t, tc.prevent, a.BeforeClose(context.Background()))
			assert.Equal(t, service.DefaultCloseMessage, shown.Message)
			assert.Equal(t, "Records", shown.Title)
			assert.Equal(t, "No", shown.CancelButton)
			if tc.err != nil {
				assert.Equal(t, 1, log.Count("error"))
			}
		})
	}
}

// ─────────────────────────────────────────────────────────────
// Page loads
// ─────────────────────────────────────────────────────────────

func TestFlags_BeforeStartup(t *testing.T) {
	a := New(config.Config{}, &service.MockLogger{}, nil)
	assert.Empty(t, a.Flags())
}

func TestFlags_ReloadedPageSeesPreviousWrites(t *testing.T) {
	var cfg config.Config
	cfg.Database.Path = filepath.Join(t.TempDir(), "portbridge.db")
	log := &service.MockLogger{}
	a := New(cfg, log, []byte(testPage))
	require.NoError(t, a.Open())

	ports := &service.MockPorts{}
	a.bridge = bridge.New(bridge.Deps{
		Store:    storage.NewItemStore(a.db),
		Document: document.New(),
		Guard:    a.guard,
		Logger:   log,
	})
	require.NoError(t, a.bridge.Attach(ports))
	go a.bridge.Run(context.Background())
	t.Cleanup(func() {
		a.bridge.Close()
		<-a.bridge.Done()
		a.db.Close()
	})

	assert.Empty(t, a.Flags(), "first page load, nothing stored")

	ports.Publish(bridge.ChannelSetItem, map[string]any{"key": "settings", "value": "dark"})

	assert.Equal(t, map[string]any{"settings": "dark"}, a.Flags())
}

func TestDomReady_ResetsMirror(t *testing.T) {
	a := New(config.Config{}, &service.MockLogger{}, []byte(testPage))
	var scripts []string
	a.doc = document.NewScriptDocument(document.New(), func(js string) { scripts = append(scripts, js) })

	a.doc.AppendLink(service.IconRel).SetHref("/play.ico")
	require.Len(t, scripts, 2)

	a.DomReady(context.Background())

	link, ok := a.doc.FindLink(service.IconRel)
	require.True(t, ok)
	assert.Equal(t, "/stop.ico", link.Href())
	assert.Equal(t, 1, a.doc.Mirror().CountLinks(service.IconRel))
}

func TestParsePage_ReadsShippedIcon(t *testing.T) {
	a := New(config.Config{}, &service.MockLogger{}, []byte(testPage))
	doc := a.parsePage()

	link, ok := doc.FindLink("icon")
	require.True(t, ok)
	assert.Equal(t, "/stop.ico", link.Href())
}

func TestShim_ListensForStorageChanges(t *testing.T) {
	js, err := os.ReadFile(filepath.Join("..", "..", "frontend", "dist", "main.js"))
	require.NoError(t, err)
	assert.Contains(t, string(js), StorageChangedEvent)
}
