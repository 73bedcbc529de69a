package storage

import "context"

// preferencesRecordID keys the single stored record. The dashboard is
// single-user; saves are last-write-wins overwrites.
const preferencesRecordID = "user_preferences"

// Preferences is the dashboard's persisted view configuration.
type Preferences struct {
	EngineFilter     string          `json:"engineFilter"`
	SortOption       string          `json:"sortOption"`
	ViewMode         string          `json:"viewMode"`
	FleetNameFilters map[string]bool `json:"fleetNameFilters"`
}

// DefaultPreferences is what a fresh deployment serves before the
// first save.
func DefaultPreferences() *Preferences {
	return &Preferences{
		EngineFilter:     "All",
		SortOption:       "fuelTimeDesc",
		ViewMode:         "card",
		FleetNameFilters: map[string]bool{},
	}
}

// PreferencesStorage defines the interface for preference persistence.
type PreferencesStorage interface {
	// Get returns the stored preferences, or defaults when none have
	// been saved yet.
	Get(ctx context.Context) (*Preferences, error)

	// Save overwrites the stored preferences.
	Save(ctx context.Context, prefs *Preferences) error
}
