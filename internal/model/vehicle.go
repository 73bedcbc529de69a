package model

import "time"

// EngineState is the reported running state of a vehicle's engine.
type EngineState string

const (
	EngineOn   EngineState = "On"
	EngineOff  EngineState = "Off"
	EngineIdle EngineState = "Idle"
)

// Vehicle is the vendor-agnostic telemetry record served to the
// dashboard. Every sub-object is always present: a vehicle missing a
// telemetry group upstream carries the full default sub-object instead,
// so the frontend never needs per-field nil checks.
type Vehicle struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	ExternalIDs ExternalIDs   `json:"externalIds"`
	FuelPercent FuelReading   `json:"fuelPercent"`
	EngineState EngineReading `json:"engineState"`
	GPS         GPS           `json:"gps"`
}

// ExternalIDs holds vendor-assigned identifiers for a vehicle.
type ExternalIDs struct {
	VIN    string `json:"vin,omitempty"`
	Serial string `json:"serial,omitempty"`
}

// FuelReading is the latest fuel level in percent, with the vendor
// timestamp of the reading. An empty Time means no reading exists.
type FuelReading struct {
	Time  string  `json:"time"`
	Value float64 `json:"value"`
}

// EngineReading is the latest engine state with its reading timestamp.
type EngineReading struct {
	Time  string      `json:"time"`
	Value EngineState `json:"value"`
}

// GPS is the latest position fix.
type GPS struct {
	Time              string     `json:"time"`
	Latitude          float64    `json:"latitude"`
	Longitude         float64    `json:"longitude"`
	HeadingDegrees    float64    `json:"headingDegrees"`
	SpeedMilesPerHour float64    `json:"speedMilesPerHour"`
	ReverseGeo        ReverseGeo `json:"reverseGeo"`
	Address           Address    `json:"address"`
	IsEcuSpeed        bool       `json:"isEcuSpeed"`
}

// ReverseGeo is a human-readable rendering of the GPS position.
type ReverseGeo struct {
	FormattedLocation string `json:"formattedLocation"`
}

// Address is a named place associated with the GPS position.
type Address struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DefaultFuel is the fuel reading used when a vendor record carries
// no fuel data.
func DefaultFuel() FuelReading {
	return FuelReading{Time: "", Value: 0}
}

// DefaultEngine is the engine reading used when a vendor record
// carries no engine data.
func DefaultEngine() EngineReading {
	return EngineReading{Time: "", Value: EngineOff}
}

// DefaultGPS is the position used when a vendor record carries no
// GPS data.
func DefaultGPS() GPS {
	return GPS{}
}

// TimeOrZero parses a vendor reading timestamp. Empty or malformed
// values map to the Unix epoch so they order last in
// most-recent-first sorts.
func TimeOrZero(s string) time.Time {
	if s == "" {
		return time.Unix(0, 0).UTC()
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Unix(0, 0).UTC()
	}
	return t
}

// FuelTime is the parsed timestamp of the latest fuel reading.
func (v Vehicle) FuelTime() time.Time {
	return TimeOrZero(v.FuelPercent.Time)
}
