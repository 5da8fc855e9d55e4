package storage_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portbridge/internal/storage"
)

func openTestDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.New(filepath.Join(t.TempDir(), "nested", "portbridge.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// ─────────────────────────────────────────────────────────────
// ItemStore
// ─────────────────────────────────────────────────────────────

func TestItemStore_MissingKey(t *testing.T) {
	items := storage.NewItemStore(openTestDB(t))

	text, ok, err := items.GetItem("settings")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, text)
}

func TestItemStore_SetOverwrites(t *testing.T) {
	items := storage.NewItemStore(openTestDB(t))

	require.NoError(t, items.SetItem("settings", `{"theme":"light"}`))
	require.NoError(t, items.SetItem("settings", `{"theme":"dark"}`))

	text, ok, err := items.GetItem("settings")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"theme":"dark"}`, text)
}

func TestItemStore_EmptyStringIsPresent(t *testing.T) {
	items := storage.NewItemStore(openTestDB(t))

	require.NoError(t, items.SetItem("blank", ""))
	_, ok, err := items.GetItem("blank")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestItemStore_Keys(t *testing.T) {
	items := storage.NewItemStore(openTestDB(t))

	require.NoError(t, items.SetItem("recordList", "[]"))
	require.NoError(t, items.SetItem("arbitrary", "1"))
	require.NoError(t, items.SetItem("createForm", "{}"))

	keys, err := items.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"arbitrary", "createForm", "recordList"}, keys)
}

func TestItemStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portbridge.db")

	db, err := storage.New(path)
	require.NoError(t, err)
	require.NoError(t, storage.NewItemStore(db).SetItem("settings", "true"))
	require.NoError(t, db.Close())

	db, err = storage.New(path)
	require.NoError(t, err)
	defer db.Close()

	text, ok, err := storage.NewItemStore(db).GetItem("settings")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", text)
}

// ─────────────────────────────────────────────────────────────
// SettingsStore
// ─────────────────────────────────────────────────────────────

func TestSettingsStore_IntRoundTrip(t *testing.T) {
	settings := storage.NewSettingsStore(openTestDB(t))

	_, ok, err := settings.GetInt("window_width")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, settings.SetInt("window_width", 1024))
	require.NoError(t, settings.SetInt("window_width", 1100))

	n, ok, err := settings.GetInt("window_width")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1100, n)
}
