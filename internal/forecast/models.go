package forecast

import (
	"fmt"
	"time"
)

// WeatherSample is a single timestamped forecast slot as reported by a provider
// (one per 3-hour step for OpenWeatherMap).
type WeatherSample struct {
	Timestamp     time.Time `json:"timestamp"` // always UTC
	Temperature   float64   `json:"temperature"`
	FeelsLike     float64   `json:"feelsLike"`
	Humidity      float64   `json:"humidity"`
	WindSpeed     float64   `json:"windSpeed"`
	ConditionCode int       `json:"conditionCode"`
	ConditionText string    `json:"conditionText"`
}

// Window identifies a calendar day in a named IANA timezone.
// Only the year, month and day of Date are used.
type Window struct {
	Date       time.Time `json:"date"`
	TimezoneID string    `json:"timezone"`
}

// ResolvedForecast is the sample chosen to represent a local day.
type ResolvedForecast struct {
	Sample       WeatherSample `json:"sample"`
	RainExpected bool          `json:"rainExpected"`
}

const dateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", s)
	}
	return d, nil
}

// FormatDate renders the calendar part of t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}
