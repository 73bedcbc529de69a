package aggregator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/islomkhodja/samsara-fuel-monitor/internal/model"
)

type stubSource struct {
	name    string
	byToken map[string][]model.Vehicle
	errs    map[string]error
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) FetchAll(ctx context.Context, token string) ([]model.Vehicle, error) {
	if err := s.errs[token]; err != nil {
		return nil, err
	}
	return s.byToken[token], nil
}

func vehicle(id, fuelTime string, fuelValue float64) model.Vehicle {
	return model.Vehicle{
		ID:          id,
		Name:        id,
		FuelPercent: model.FuelReading{Time: fuelTime, Value: fuelValue},
		EngineState: model.DefaultEngine(),
	}
}

func TestAggregateTokens_DedupLastTokenWins(t *testing.T) {
	src := &stubSource{
		name: "samsara",
		byToken: map[string][]model.Vehicle{
			"t1": {vehicle("V1", "2024-03-09T00:00:00Z", 10)},
			"t2": {vehicle("V1", "2024-03-09T00:00:00Z", 90)},
		},
	}

	result := AggregateTokens(context.Background(), src, []string{"t1", "t2"})

	if len(result) != 1 {
		t.Fatalf("Expected 1 vehicle after dedup, got %d", len(result))
	}
	if result[0].FuelPercent.Value != 90 {
		t.Errorf("Expected the later token's record to win, got fuel %v", result[0].FuelPercent.Value)
	}
}

func TestAggregateTokens_FailedTokenContributesNothing(t *testing.T) {
	src := &stubSource{
		name: "samsara",
		byToken: map[string][]model.Vehicle{
			"good": {
				vehicle("V1", "2024-03-09T00:00:00Z", 50),
				vehicle("V2", "2024-03-08T00:00:00Z", 60),
			},
		},
		errs: map[string]error{"bad": errors.New("boom")},
	}

	result := AggregateTokens(context.Background(), src, []string{"bad", "good"})

	if len(result) != 2 {
		t.Fatalf("Expected 2 vehicles from the healthy token, got %d", len(result))
	}
}

func TestAggregateTokens_NoTokens(t *testing.T) {
	src := &stubSource{name: "motive"}

	result := AggregateTokens(context.Background(), src, nil)

	if result == nil {
		t.Fatal("Expected empty slice, got nil")
	}
	if len(result) != 0 {
		t.Errorf("Expected no vehicles, got %d", len(result))
	}
}

func TestSortByFuelTime_EmptyTimesLast(t *testing.T) {
	vehicles := []model.Vehicle{
		vehicle("newer", "2024-01-02T00:00:00Z", 0),
		vehicle("empty", "", 0),
		vehicle("older", "2024-01-01T00:00:00Z", 0),
	}

	SortByFuelTime(vehicles)

	want := []string{"newer", "older", "empty"}
	for i, id := range want {
		if vehicles[i].ID != id {
			t.Fatalf("Expected order %v, got %v at index %d", want, vehicles[i].ID, i)
		}
	}
}

func TestFilterFresh_Window(t *testing.T) {
	now := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	window := 48 * time.Hour

	vehicles := []model.Vehicle{
		vehicle("too-old", "2024-03-07T00:00:01Z", 0),
		vehicle("fresh", "2024-03-09T00:00:00Z", 0),
		vehicle("boundary", "2024-03-08T00:00:00Z", 0),
		vehicle("no-time", "", 0),
		vehicle("garbage", "not-a-time", 0),
	}

	fresh := FilterFresh(vehicles, window, now)

	if len(fresh) != 2 {
		t.Fatalf("Expected 2 fresh vehicles, got %d: %v", len(fresh), fresh)
	}
	if fresh[0].ID != "fresh" || fresh[1].ID != "boundary" {
		t.Errorf("Unexpected fresh set: %v, %v", fresh[0].ID, fresh[1].ID)
	}
}

func TestMerge_CrossVendor(t *testing.T) {
	samsara := &stubSource{
		name: "samsara",
		byToken: map[string][]model.Vehicle{
			"s1": {
				vehicle("S1", "2024-03-09T04:00:00Z", 10),
				vehicle("S2", "2024-03-09T02:00:00Z", 20),
			},
			"s2": {
				vehicle("S3", "2024-03-09T05:00:00Z", 30),
				vehicle("S4", "2024-03-09T01:00:00Z", 40),
			},
		},
	}
	motive := &stubSource{
		name: "motive",
		byToken: map[string][]model.Vehicle{
			"m1": {vehicle("M1", "2024-03-09T03:00:00Z", 50)},
		},
	}

	result := Merge(context.Background(), []Vendor{
		{Source: samsara, Tokens: []string{"s1", "s2"}},
		{Source: motive, Tokens: []string{"m1"}},
	})

	if len(result) != 5 {
		t.Fatalf("Expected 5 vehicles, got %d", len(result))
	}
	want := []string{"S3", "S1", "M1", "S2", "S4"}
	for i, id := range want {
		if result[i].ID != id {
			t.Fatalf("Expected order %v, got %s at index %d", want, result[i].ID, i)
		}
	}
}

func TestMerge_NoVendorsConfigured(t *testing.T) {
	samsara := &stubSource{name: "samsara"}
	motive := &stubSource{name: "motive"}

	result := Merge(context.Background(), []Vendor{
		{Source: samsara},
		{Source: motive},
	})

	if result == nil || len(result) != 0 {
		t.Fatalf("Expected empty non-nil result, got %v", result)
	}
}
