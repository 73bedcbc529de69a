package storage

import (
	"context"
	"sync"
)

// MemoryPreferencesStorage keeps preferences in process memory. It is
// the default backend; preferences reset on restart.
type MemoryPreferencesStorage struct {
	mu    sync.RWMutex
	prefs *Preferences
}

// NewMemoryPreferencesStorage creates an empty in-memory store.
func NewMemoryPreferencesStorage() *MemoryPreferencesStorage {
	return &MemoryPreferencesStorage{}
}

func (m *MemoryPreferencesStorage) Get(ctx context.Context) (*Preferences, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.prefs == nil {
		return DefaultPreferences(), nil
	}
	return copyPreferences(m.prefs), nil
}

func (m *MemoryPreferencesStorage) Save(ctx context.Context, prefs *Preferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.prefs = copyPreferences(prefs)
	return nil
}

func copyPreferences(p *Preferences) *Preferences {
	out := *p
	out.FleetNameFilters = make(map[string]bool, len(p.FleetNameFilters))
	for name, on := range p.FleetNameFilters {
		out.FleetNameFilters[name] = on
	}
	return &out
}
