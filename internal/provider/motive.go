package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/islomkhodja/samsara-fuel-monitor/internal/model"
)

const (
	defaultMotiveBaseURL = "https://api.gomotive.com"
	motivePerPage        = 100
)

// Motive fetches vehicle locations from the Motive API. Pagination is
// offset-based: requests continue while page_no*per_page < total.
type Motive struct {
	baseURL    string
	perPage    int
	httpClient *http.Client
}

// NewMotive creates a Motive source. An empty baseURL selects the
// production API endpoint.
func NewMotive(baseURL string, timeout time.Duration) *Motive {
	if baseURL == "" {
		baseURL = defaultMotiveBaseURL
	}
	return &Motive{
		baseURL:    baseURL,
		perPage:    motivePerPage,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (m *Motive) Name() string { return "motive" }

type motivePage struct {
	Vehicles   []motiveWrapper `json:"vehicles"`
	Pagination struct {
		PerPage int `json:"per_page"`
		PageNo  int `json:"page_no"`
		Total   int `json:"total"`
	} `json:"pagination"`
}

type motiveWrapper struct {
	Vehicle motiveVehicle `json:"vehicle"`
}

type motiveVehicle struct {
	ID              json.Number     `json:"id"`
	Number          string          `json:"number"`
	Make            string          `json:"make"`
	Model           string          `json:"model"`
	VIN             string          `json:"vin"`
	CurrentLocation *motiveLocation `json:"current_location"`
}

type motiveLocation struct {
	Lat                            float64  `json:"lat"`
	Lon                            float64  `json:"lon"`
	LocatedAt                      string   `json:"located_at"`
	Bearing                        float64  `json:"bearing"`
	Description                    string   `json:"description"`
	Speed                          *float64 `json:"speed"`
	FuelPrimaryRemainingPercentage float64  `json:"fuel_primary_remaining_percentage"`
}

// FetchAll walks all vehicle_locations pages for one API key.
func (m *Motive) FetchAll(ctx context.Context, token string) ([]model.Vehicle, error) {
	pageNo := 1
	var vehicles []model.Vehicle
	for {
		page, err := m.fetchPage(ctx, token, pageNo)
		if err != nil {
			return nil, err
		}
		for _, w := range page.Vehicles {
			vehicles = append(vehicles, w.Vehicle.normalize())
		}
		if page.Pagination.PerPage <= 0 || pageNo*page.Pagination.PerPage >= page.Pagination.Total {
			return vehicles, nil
		}
		pageNo++
	}
}

func (m *Motive) fetchPage(ctx context.Context, token string, pageNo int) (*motivePage, error) {
	pageURL := fmt.Sprintf("%s/v2/vehicle_locations?per_page=%d&page_no=%d", m.baseURL, m.perPage, pageNo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-api-key", token)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("motive request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{Status: resp.StatusCode}
	}

	var page motivePage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("motive decode: %w", err)
	}
	return &page, nil
}

// normalize maps a Motive location record to the canonical shape.
//
// Motive does not expose an engine-state signal, so the state is
// approximated from speed: moving vehicles report On, everything else
// Idle.
func (r motiveVehicle) normalize() model.Vehicle {
	v := model.Vehicle{
		ID:          r.ID.String(),
		Name:        r.displayName(),
		ExternalIDs: model.ExternalIDs{VIN: r.VIN},
		FuelPercent: model.DefaultFuel(),
		EngineState: model.EngineReading{Value: model.EngineIdle},
		GPS:         model.DefaultGPS(),
	}
	loc := r.CurrentLocation
	if loc == nil {
		return v
	}

	v.FuelPercent = model.FuelReading{
		Time:  loc.LocatedAt,
		Value: loc.FuelPrimaryRemainingPercentage,
	}

	state := model.EngineIdle
	if loc.Speed != nil && *loc.Speed > 0 {
		state = model.EngineOn
	}
	v.EngineState = model.EngineReading{Time: loc.LocatedAt, Value: state}

	var speed float64
	if loc.Speed != nil {
		speed = *loc.Speed
	}
	v.GPS = model.GPS{
		Time:              loc.LocatedAt,
		Latitude:          loc.Lat,
		Longitude:         loc.Lon,
		HeadingDegrees:    loc.Bearing,
		SpeedMilesPerHour: speed,
		ReverseGeo:        model.ReverseGeo{FormattedLocation: loc.Description},
		Address:           model.Address{Name: loc.Description},
	}
	return v
}

// displayName builds the dashboard label, suffixed so Motive vehicles
// are distinguishable from Samsara ones with similar numbers.
func (r motiveVehicle) displayName() string {
	if r.Number != "" {
		return r.Number + " motive"
	}
	return strings.TrimSpace(r.Make+" "+r.Model) + " motive"
}
