package storage

import (
	"context"
	"testing"
)

func TestMemoryPreferencesStorage_DefaultsWhenEmpty(t *testing.T) {
	store := NewMemoryPreferencesStorage()

	prefs, err := store.Get(context.Background())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if prefs.EngineFilter != "All" || prefs.SortOption != "fuelTimeDesc" || prefs.ViewMode != "card" {
		t.Errorf("Unexpected defaults: %+v", prefs)
	}
	if prefs.FleetNameFilters == nil || len(prefs.FleetNameFilters) != 0 {
		t.Errorf("Expected empty fleet filter map, got %v", prefs.FleetNameFilters)
	}
}

func TestMemoryPreferencesStorage_SaveAndGet(t *testing.T) {
	store := NewMemoryPreferencesStorage()
	ctx := context.Background()

	saved := &Preferences{
		EngineFilter:     "On",
		SortOption:       "fuelAsc",
		ViewMode:         "list",
		FleetNameFilters: map[string]bool{"Alpha": true, "Bravo": false},
	}
	if err := store.Save(ctx, saved); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.EngineFilter != "On" || got.SortOption != "fuelAsc" || got.ViewMode != "list" {
		t.Errorf("Round trip lost fields: %+v", got)
	}
	if !got.FleetNameFilters["Alpha"] || got.FleetNameFilters["Bravo"] {
		t.Errorf("Fleet filters not preserved: %v", got.FleetNameFilters)
	}
}

func TestMemoryPreferencesStorage_IsolatedFromCaller(t *testing.T) {
	store := NewMemoryPreferencesStorage()
	ctx := context.Background()

	saved := &Preferences{
		EngineFilter:     "All",
		SortOption:       "fuelTimeDesc",
		ViewMode:         "card",
		FleetNameFilters: map[string]bool{"Alpha": true},
	}
	store.Save(ctx, saved)

	// Mutating the caller's map after save must not leak into the store.
	saved.FleetNameFilters["Alpha"] = false

	got, _ := store.Get(ctx)
	if !got.FleetNameFilters["Alpha"] {
		t.Error("Stored preferences share the caller's map")
	}

	// And mutating a returned copy must not affect later reads.
	got.FleetNameFilters["Alpha"] = false
	again, _ := store.Get(ctx)
	if !again.FleetNameFilters["Alpha"] {
		t.Error("Get returned a shared map")
	}
}
