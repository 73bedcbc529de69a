package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStorage(t *testing.T) *SQLitePreferencesStorage {
	t.Helper()
	store, err := NewSQLitePreferencesStorage(filepath.Join(t.TempDir(), "preferences.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLitePreferencesStorage_DefaultsWhenEmpty(t *testing.T) {
	store := newTestSQLiteStorage(t)

	prefs, err := store.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "All", prefs.EngineFilter)
	assert.Equal(t, "fuelTimeDesc", prefs.SortOption)
	assert.Equal(t, "card", prefs.ViewMode)
	assert.Empty(t, prefs.FleetNameFilters)
}

func TestSQLitePreferencesStorage_SaveAndGet(t *testing.T) {
	store := newTestSQLiteStorage(t)
	ctx := context.Background()

	saved := &Preferences{
		EngineFilter:     "Idle",
		SortOption:       "nameAsc",
		ViewMode:         "list",
		FleetNameFilters: map[string]bool{"17 motive": true},
	}
	require.NoError(t, store.Save(ctx, saved))

	got, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved, got)
}

func TestSQLitePreferencesStorage_LastWriteWins(t *testing.T) {
	store := newTestSQLiteStorage(t)
	ctx := context.Background()

	first := &Preferences{EngineFilter: "On", SortOption: "fuelDesc", ViewMode: "card", FleetNameFilters: map[string]bool{}}
	second := &Preferences{EngineFilter: "Off", SortOption: "fuelAsc", ViewMode: "list", FleetNameFilters: map[string]bool{}}

	require.NoError(t, store.Save(ctx, first))
	require.NoError(t, store.Save(ctx, second))

	got, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, got)
}
