// Package view computes the filtered, sorted vehicle list the
// dashboard renders. Everything here is a pure function of the
// snapshot and the user's filter settings.
package view

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/islomkhodja/samsara-fuel-monitor/internal/model"
)

// SortOption selects the display order of the vehicle list.
type SortOption string

const (
	SortFuelDesc     SortOption = "fuelDesc"
	SortFuelAsc      SortOption = "fuelAsc"
	SortNameAsc      SortOption = "nameAsc"
	SortNameDesc     SortOption = "nameDesc"
	SortFuelTimeDesc SortOption = "fuelTimeDesc"
)

// Valid reports whether s is a known sort option.
func (s SortOption) Valid() bool {
	switch s {
	case SortFuelDesc, SortFuelAsc, SortNameAsc, SortNameDesc, SortFuelTimeDesc:
		return true
	}
	return false
}

// EngineFilter narrows the list to one engine state; EngineAll keeps
// everything.
type EngineFilter string

const (
	EngineAll  EngineFilter = "All"
	EngineOn   EngineFilter = "On"
	EngineOff  EngineFilter = "Off"
	EngineIdle EngineFilter = "Idle"
)

// Valid reports whether f is a known engine filter.
func (f EngineFilter) Valid() bool {
	switch f {
	case EngineAll, EngineOn, EngineOff, EngineIdle:
		return true
	}
	return false
}

// Query is one derivation's worth of filter and sort settings.
type Query struct {
	Search       string
	Engine       EngineFilter
	ActiveFleets []string
	Sort         SortOption
}

// Apply filters and sorts a snapshot for display. The input slice is
// treated as immutable; the returned slice is freshly allocated.
//
// An empty ActiveFleets set means no fleet filtering at all, not an
// empty result.
func Apply(vehicles []model.Vehicle, q Query) []model.Vehicle {
	search := strings.ToLower(q.Search)
	fleets := make(map[string]bool, len(q.ActiveFleets))
	for _, name := range q.ActiveFleets {
		fleets[name] = true
	}

	result := make([]model.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if search != "" && !matchesSearch(v, search) {
			continue
		}
		if q.Engine != "" && q.Engine != EngineAll && string(v.EngineState.Value) != string(q.Engine) {
			continue
		}
		if len(fleets) > 0 && !fleets[v.Name] {
			continue
		}
		result = append(result, v)
	}

	sortVehicles(result, q.Sort)
	return result
}

func matchesSearch(v model.Vehicle, query string) bool {
	return strings.Contains(strings.ToLower(v.Name), query) ||
		strings.Contains(strings.ToLower(v.GPS.ReverseGeo.FormattedLocation), query) ||
		strings.Contains(strings.ToLower(v.ExternalIDs.VIN), query)
}

func sortVehicles(vehicles []model.Vehicle, opt SortOption) {
	switch opt {
	case SortFuelDesc:
		sort.SliceStable(vehicles, func(i, j int) bool {
			return vehicles[i].FuelPercent.Value > vehicles[j].FuelPercent.Value
		})
	case SortFuelAsc:
		sort.SliceStable(vehicles, func(i, j int) bool {
			return vehicles[i].FuelPercent.Value < vehicles[j].FuelPercent.Value
		})
	case SortNameAsc:
		c := collate.New(language.English)
		sort.SliceStable(vehicles, func(i, j int) bool {
			return c.CompareString(vehicles[i].Name, vehicles[j].Name) < 0
		})
	case SortNameDesc:
		c := collate.New(language.English)
		sort.SliceStable(vehicles, func(i, j int) bool {
			return c.CompareString(vehicles[i].Name, vehicles[j].Name) > 0
		})
	case SortFuelTimeDesc:
		sort.SliceStable(vehicles, func(i, j int) bool {
			return vehicles[i].FuelTime().After(vehicles[j].FuelTime())
		})
	}
}

// FleetNames returns the distinct vehicle names of a snapshot in
// first-seen order. The display name doubles as the fleet filter
// dimension; there is no separate fleet entity.
func FleetNames(vehicles []model.Vehicle) []string {
	seen := make(map[string]struct{}, len(vehicles))
	names := make([]string, 0, len(vehicles))
	for _, v := range vehicles {
		if _, ok := seen[v.Name]; ok {
			continue
		}
		seen[v.Name] = struct{}{}
		names = append(names, v.Name)
	}
	return names
}

// ActiveFleets lists the names enabled in a checkbox-style filter map,
// sorted for deterministic queries.
func ActiveFleets(filters map[string]bool) []string {
	names := make([]string, 0, len(filters))
	for name, on := range filters {
		if on {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
