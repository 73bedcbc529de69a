// Package poller owns the current vehicle snapshot: a single writer
// (the fetch cycle) refreshing it on a fixed interval, any number of
// readers taking copies.
package poller

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/islomkhodja/samsara-fuel-monitor/internal/aggregator"
	"github.com/islomkhodja/samsara-fuel-monitor/internal/model"
)

// MergeFunc produces one full cross-vendor fetch.
type MergeFunc func(ctx context.Context) []model.Vehicle

// Poller refreshes the snapshot periodically. A tick that fires while
// a cycle is still in flight is skipped, never stacked.
type Poller struct {
	merge    MergeFunc
	interval time.Duration
	window   time.Duration

	inFlight atomic.Bool

	mu          sync.RWMutex
	snapshot    []model.Vehicle
	lastUpdated time.Time
	totalCount  int
	freshCount  int
}

// Status is the snapshot's bookkeeping surfaced to the dashboard. The
// difference between the two counts is how many vehicles the freshness
// filter dropped.
type Status struct {
	LastUpdated       time.Time `json:"lastUpdated"`
	TotalVehicleCount int       `json:"totalVehicleCount"`
	RecentDataCount   int       `json:"recentDataCount"`
}

// New creates a poller. interval is the refresh period, window the
// staleness cutoff applied to each merged fetch.
func New(merge MergeFunc, interval, window time.Duration) *Poller {
	return &Poller{
		merge:    merge,
		interval: interval,
		window:   window,
		snapshot: []model.Vehicle{},
	}
}

// Run fetches immediately and then on every interval until ctx is
// cancelled.
func (p *Poller) Run(ctx context.Context) {
	t := time.NewTimer(0)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			p.Refresh(ctx)
			t.Reset(p.interval)
		}
	}
}

// Refresh runs one fetch cycle synchronously. It reports false without
// fetching when another cycle is already in flight.
func (p *Poller) Refresh(ctx context.Context) bool {
	if !p.inFlight.CompareAndSwap(false, true) {
		slog.Info("fetch cycle already in flight, skipping")
		return false
	}
	defer p.inFlight.Store(false)
	p.cycle(ctx)
	return true
}

// StartRefresh kicks off a fetch cycle in the background, reporting
// whether one was actually started.
func (p *Poller) StartRefresh(ctx context.Context) bool {
	if !p.inFlight.CompareAndSwap(false, true) {
		return false
	}
	go func() {
		defer p.inFlight.Store(false)
		p.cycle(ctx)
	}()
	return true
}

func (p *Poller) cycle(ctx context.Context) {
	start := time.Now()
	merged := p.merge(ctx)
	fresh := aggregator.FilterFresh(merged, p.window, time.Now())

	p.mu.Lock()
	p.snapshot = fresh
	p.lastUpdated = time.Now()
	p.totalCount = len(merged)
	p.freshCount = len(fresh)
	p.mu.Unlock()

	slog.Info("vehicle snapshot refreshed",
		"total", len(merged),
		"fresh", len(fresh),
		"elapsed", time.Since(start))
}

// Snapshot returns a copy of the current vehicle list, so readers are
// isolated from the next refresh.
func (p *Poller) Snapshot() []model.Vehicle {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]model.Vehicle, len(p.snapshot))
	copy(out, p.snapshot)
	return out
}

// Status returns the bookkeeping of the most recent cycle.
func (p *Poller) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return Status{
		LastUpdated:       p.lastUpdated,
		TotalVehicleCount: p.totalCount,
		RecentDataCount:   p.freshCount,
	}
}
