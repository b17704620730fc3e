package weather

import (
	"github.com/voyagepal/voyagepal-api/internal/forecast"
)

// Units selects the measurement system requested from providers.
type Units string

const (
	UnitsImperial Units = "imperial"
	UnitsMetric   Units = "metric"
)

// TemperatureSymbol returns the display suffix for temperatures.
func (u Units) TemperatureSymbol() string {
	if u == UnitsMetric {
		return "°C"
	}
	return "°F"
}

// SpeedSymbol returns the display suffix for wind speeds.
func (u Units) SpeedSymbol() string {
	if u == UnitsMetric {
		return "m/s"
	}
	return "mph"
}

// Place is a geocoded city.
type Place struct {
	Name    string  `json:"name"`
	Country string  `json:"country,omitempty"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Report is the user-facing weather view of one trip day.
// When Available is false, Summary explains why and Sample is nil.
type Report struct {
	City                string                  `json:"city"`
	Date                string                  `json:"date"`
	Timezone            string                  `json:"timezone,omitempty"`
	Available           bool                    `json:"available"`
	Summary             string                  `json:"summary"`
	Units               Units                   `json:"units"`
	UmbrellaRecommended bool                    `json:"umbrellaRecommended"`
	Sample              *forecast.WeatherSample `json:"sample,omitempty"`
}
