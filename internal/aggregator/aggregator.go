package aggregator

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/islomkhodja/samsara-fuel-monitor/internal/model"
	"github.com/islomkhodja/samsara-fuel-monitor/internal/provider"
)

// Vendor pairs a telemetry source with the credentials scoped to it.
type Vendor struct {
	Source provider.Source
	Tokens []string
}

// AggregateTokens fetches one vendor's fleet across all of its tokens
// concurrently. Per-token results are concatenated in token order, so
// the outcome does not depend on completion order. When the same
// vehicle id appears under more than one token, the occurrence
// appended last wins. The result is ordered by most recent fuel
// reading, vehicles without one last.
//
// A token whose fetch fails contributes an empty list; it never aborts
// the sibling tokens.
func AggregateTokens(ctx context.Context, src provider.Source, tokens []string) []model.Vehicle {
	if len(tokens) == 0 {
		slog.Warn("no tokens configured for vendor", "vendor", src.Name())
		return []model.Vehicle{}
	}

	results := make([][]model.Vehicle, len(tokens))
	var wg sync.WaitGroup
	for i, token := range tokens {
		wg.Add(1)
		go func(i int, token string) {
			defer wg.Done()
			vehicles, err := src.FetchAll(ctx, token)
			if err != nil {
				slog.Error("vendor fetch failed, token contributes no vehicles",
					"vendor", src.Name(),
					"token_index", i,
					"error", err)
				return
			}
			results[i] = vehicles
		}(i, token)
	}
	wg.Wait()

	// Dedup keeps the slot of the first occurrence but the record of
	// the last, matching map-overwrite semantics.
	index := make(map[string]int)
	merged := make([]model.Vehicle, 0)
	for _, vehicles := range results {
		for _, v := range vehicles {
			if pos, ok := index[v.ID]; ok {
				merged[pos] = v
				continue
			}
			index[v.ID] = len(merged)
			merged = append(merged, v)
		}
	}

	SortByFuelTime(merged)
	return merged
}

// Merge aggregates every vendor concurrently and combines the results
// in the given vendor order before the final sort. Vehicle ids are not
// comparable across vendors, so no cross-vendor dedup happens here.
func Merge(ctx context.Context, vendors []Vendor) []model.Vehicle {
	results := make([][]model.Vehicle, len(vendors))
	var wg sync.WaitGroup
	for i, vend := range vendors {
		wg.Add(1)
		go func(i int, vend Vendor) {
			defer wg.Done()
			results[i] = AggregateTokens(ctx, vend.Source, vend.Tokens)
		}(i, vend)
	}
	wg.Wait()

	merged := make([]model.Vehicle, 0)
	for _, vehicles := range results {
		merged = append(merged, vehicles...)
	}
	SortByFuelTime(merged)
	return merged
}

// SortByFuelTime orders vehicles by fuel reading time, newest first.
// Vehicles with an empty or unparseable time sort as the Unix epoch.
func SortByFuelTime(vehicles []model.Vehicle) {
	sort.SliceStable(vehicles, func(i, j int) bool {
		return vehicles[i].FuelTime().After(vehicles[j].FuelTime())
	})
}

// FilterFresh keeps only vehicles whose fuel reading is no older than
// the staleness window. Vehicles without a parseable reading time are
// treated as stale and dropped.
func FilterFresh(vehicles []model.Vehicle, window time.Duration, now time.Time) []model.Vehicle {
	cutoff := now.Add(-window)
	fresh := make([]model.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if v.FuelPercent.Time == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, v.FuelPercent.Time)
		if err != nil {
			continue
		}
		if !t.Before(cutoff) {
			fresh = append(fresh, v)
		}
	}
	return fresh
}
