package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/islomkhodja/samsara-fuel-monitor/internal/poller"
	"github.com/islomkhodja/samsara-fuel-monitor/internal/storage"
	"github.com/islomkhodja/samsara-fuel-monitor/internal/view"
)

// HTTPHandler handles HTTP requests for the fuel monitor dashboard
type HTTPHandler struct {
	poller *poller.Poller
	prefs  storage.PreferencesStorage
}

// NewHTTPHandler creates a new HTTP handler
func NewHTTPHandler(p *poller.Poller, prefs storage.PreferencesStorage) *HTTPHandler {
	return &HTTPHandler{
		poller: p,
		prefs:  prefs,
	}
}

// RegisterRoutes sets up HTTP routes
func (h *HTTPHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.Health).Methods("GET")
	router.HandleFunc("/api/vehicles", h.GetVehicles).Methods("GET")
	router.HandleFunc("/api/vehicles/view", h.GetVehiclesView).Methods("GET")
	router.HandleFunc("/api/fleets", h.GetFleets).Methods("GET")
	router.HandleFunc("/api/status", h.GetStatus).Methods("GET")
	router.HandleFunc("/api/refresh", h.TriggerRefresh).Methods("POST")
	router.HandleFunc("/api/preferences", h.GetPreferences).Methods("GET")
	router.HandleFunc("/api/preferences", h.SavePreferences).Methods("POST")
}

// Health returns service health status
func (h *HTTPHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

// GetVehicles returns the current post-freshness-filter snapshot. An
// empty snapshot (no tokens configured, or every upstream fetch
// failed) is served as [], never as an error.
func (h *HTTPHandler) GetVehicles(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.poller.Snapshot())
}

// GetVehiclesView returns the snapshot run through the dashboard's
// filter and sort settings, supplied as query parameters:
// search, engine, sort, fleets (comma-separated). Settings not given
// in the query fall back to the stored preferences.
func (h *HTTPHandler) GetVehiclesView(w http.ResponseWriter, r *http.Request) {
	q := view.Query{
		Search: r.URL.Query().Get("search"),
		Engine: view.EngineAll,
		Sort:   view.SortFuelTimeDesc,
	}
	if prefs, err := h.prefs.Get(r.Context()); err != nil {
		slog.Error("Falling back to default view settings", "error", err)
	} else {
		q.Engine = view.EngineFilter(prefs.EngineFilter)
		q.Sort = view.SortOption(prefs.SortOption)
		q.ActiveFleets = view.ActiveFleets(prefs.FleetNameFilters)
	}
	if raw := r.URL.Query().Get("engine"); raw != "" {
		q.Engine = view.EngineFilter(raw)
		if !q.Engine.Valid() {
			http.Error(w, "Invalid engine filter", http.StatusBadRequest)
			return
		}
	}
	if raw := r.URL.Query().Get("sort"); raw != "" {
		q.Sort = view.SortOption(raw)
		if !q.Sort.Valid() {
			http.Error(w, "Invalid sort option", http.StatusBadRequest)
			return
		}
	}
	if raw := r.URL.Query().Get("fleets"); raw != "" {
		q.ActiveFleets = nil
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				q.ActiveFleets = append(q.ActiveFleets, name)
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(view.Apply(h.poller.Snapshot(), q))
}

// GetFleets returns the distinct fleet names of the current snapshot,
// for the filter UI.
func (h *HTTPHandler) GetFleets(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(view.FleetNames(h.poller.Snapshot()))
}

// GetStatus returns the bookkeeping of the most recent fetch cycle.
func (h *HTTPHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.poller.Status())
}

// TriggerRefresh starts a fetch cycle immediately, outside the regular
// interval. 409 when one is already running.
func (h *HTTPHandler) TriggerRefresh(w http.ResponseWriter, r *http.Request) {
	// The cycle outlives the request, so it must not inherit the
	// request's cancellation.
	if !h.poller.StartRefresh(context.WithoutCancel(r.Context())) {
		http.Error(w, "Refresh already in progress", http.StatusConflict)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// GetPreferences returns the stored dashboard preferences, or the
// defaults when none have been saved.
func (h *HTTPHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.prefs.Get(r.Context())
	if err != nil {
		slog.Error("Failed to retrieve preferences", "error", err)
		http.Error(w, "Failed to retrieve preferences", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(prefs)
}

// SavePreferences overwrites the stored preferences, last write wins.
func (h *HTTPHandler) SavePreferences(w http.ResponseWriter, r *http.Request) {
	var prefs storage.Preferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		slog.Error("Failed to decode preferences request", "error", err)
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if !view.EngineFilter(prefs.EngineFilter).Valid() {
		http.Error(w, "Invalid engine filter", http.StatusBadRequest)
		return
	}
	if !view.SortOption(prefs.SortOption).Valid() {
		http.Error(w, "Invalid sort option", http.StatusBadRequest)
		return
	}
	if prefs.ViewMode != "card" && prefs.ViewMode != "list" {
		http.Error(w, "Invalid view mode", http.StatusBadRequest)
		return
	}
	if prefs.FleetNameFilters == nil {
		prefs.FleetNameFilters = map[string]bool{}
	}

	if err := h.prefs.Save(r.Context(), &prefs); err != nil {
		slog.Error("Failed to save preferences", "error", err)
		http.Error(w, "Failed to save preferences", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}
