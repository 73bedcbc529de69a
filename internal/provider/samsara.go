package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/islomkhodja/samsara-fuel-monitor/internal/model"
)

const defaultSamsaraBaseURL = "https://api.samsara.com"

// Samsara fetches vehicle stats snapshots from the Samsara fleet API.
// Pagination is cursor-based: each page reports an opaque endCursor and
// whether more pages follow.
type Samsara struct {
	baseURL    string
	httpClient *http.Client
}

// NewSamsara creates a Samsara source. An empty baseURL selects the
// production API endpoint.
func NewSamsara(baseURL string, timeout time.Duration) *Samsara {
	if baseURL == "" {
		baseURL = defaultSamsaraBaseURL
	}
	return &Samsara{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (s *Samsara) Name() string { return "samsara" }

type samsaraPage struct {
	Data       []samsaraVehicle `json:"data"`
	Pagination struct {
		EndCursor   string `json:"endCursor"`
		HasNextPage bool   `json:"hasNextPage"`
	} `json:"pagination"`
}

type samsaraVehicle struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	ExternalIDs map[string]string    `json:"externalIds"`
	FuelPercent *model.FuelReading   `json:"fuelPercent"`
	EngineState *model.EngineReading `json:"engineState"`
	GPS         *model.GPS           `json:"gps"`
}

// FetchAll walks all stats pages for one API token.
func (s *Samsara) FetchAll(ctx context.Context, token string) ([]model.Vehicle, error) {
	base := s.baseURL + "/fleet/vehicles/stats?types=engineStates,fuelPercents,gps"
	pageURL := base
	var vehicles []model.Vehicle
	for {
		page, err := s.fetchPage(ctx, pageURL, token)
		if err != nil {
			return nil, err
		}
		for _, raw := range page.Data {
			vehicles = append(vehicles, raw.normalize())
		}
		if !page.Pagination.HasNextPage {
			return vehicles, nil
		}
		pageURL = base + "&after=" + url.QueryEscape(page.Pagination.EndCursor)
	}
}

func (s *Samsara) fetchPage(ctx context.Context, pageURL, token string) (*samsaraPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("samsara request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{Status: resp.StatusCode}
	}

	var page samsaraPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("samsara decode: %w", err)
	}
	return &page, nil
}

// normalize fills in the canonical defaults for any telemetry group
// the stats snapshot omits.
func (r samsaraVehicle) normalize() model.Vehicle {
	v := model.Vehicle{
		ID:   r.ID,
		Name: r.Name,
		ExternalIDs: model.ExternalIDs{
			VIN:    r.ExternalIDs["samsara.vin"],
			Serial: r.ExternalIDs["samsara.serial"],
		},
		FuelPercent: model.DefaultFuel(),
		EngineState: model.DefaultEngine(),
		GPS:         model.DefaultGPS(),
	}
	if r.FuelPercent != nil {
		v.FuelPercent = *r.FuelPercent
	}
	if r.EngineState != nil {
		v.EngineState = *r.EngineState
	}
	if r.GPS != nil {
		v.GPS = *r.GPS
	}
	return v
}
