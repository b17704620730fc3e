package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/voyagepal/voyagepal-api/internal/forecast"
)

// Service resolves a city and calendar day to a weather Report.
type Service struct {
	geocoder  Geocoder
	timezones TimezoneResolver
	providers []ForecastProvider
	units     Units
}

// NewService creates a new Service. Providers are tried in order until one succeeds.
func NewService(geocoder Geocoder, timezones TimezoneResolver, providers []ForecastProvider, units Units) *Service {
	if units == "" {
		units = UnitsImperial
	}
	return &Service{
		geocoder:  geocoder,
		timezones: timezones,
		providers: providers,
		units:     units,
	}
}

// Units reports the measurement system of produced reports.
func (s *Service) Units() Units {
	return s.units
}

// Forecast returns the weather report for city on the given local date.
//
// A missing forecast (date past the provider horizon, unknown city, or a
// timezone gap) yields a Report with Available=false and a nil error.
// Errors are returned only when every provider fails.
func (s *Service) Forecast(ctx context.Context, city string, date time.Time) (Report, error) {
	report := Report{
		City:  city,
		Date:  forecast.FormatDate(date),
		Units: s.units,
	}

	place, err := s.geocoder.Geocode(ctx, city)
	if err != nil {
		if errors.Is(err, ErrPlaceNotFound) {
			report.Summary = "Could not retrieve weather data for this city. Check the city name."
			return report, nil
		}
		return report, fmt.Errorf("geocode %q: %w", city, err)
	}

	tz, err := s.timezones.TimezoneID(ctx, place)
	if err != nil {
		log.Printf("ERROR: no timezone for %s (%.4f,%.4f): %v", city, place.Lat, place.Lon, err)
		report.Summary = unavailableSummary(date)
		return report, nil
	}
	report.Timezone = tz

	samples, err := s.fetch(ctx, place)
	if err != nil {
		return report, err
	}

	resolved, err := forecast.Resolve(samples, forecast.Window{Date: date, TimezoneID: tz})
	switch {
	case errors.Is(err, forecast.ErrNotFound):
		report.Summary = unavailableSummary(date)
		return report, nil
	case errors.Is(err, forecast.ErrUnknownTimezone):
		log.Printf("ERROR: timezone %q for %s cannot be loaded: %v", tz, city, err)
		report.Summary = unavailableSummary(date)
		return report, nil
	case err != nil:
		return report, err
	}

	sample := resolved.Sample
	report.Available = true
	report.Sample = &sample
	report.UmbrellaRecommended = resolved.RainExpected
	report.Summary = s.summarize(date, sample)
	return report, nil
}

func (s *Service) fetch(ctx context.Context, place Place) ([]forecast.WeatherSample, error) {
	if len(s.providers) == 0 {
		log.Printf("ERROR: No forecast providers available for %s", place.Name)
		return nil, fmt.Errorf("no forecast providers configured")
	}

	var lastErr error
	for _, p := range s.providers {
		samples, err := p.FetchForecast(ctx, place)
		if err != nil {
			log.Printf("provider %s forecast failed for %s: %v", p.Name(), place.Name, err)
			lastErr = err
			continue
		}
		log.Printf("DEBUG: provider %s returned %d samples for %s", p.Name(), len(samples), place.Name)
		return samples, nil
	}
	return nil, fmt.Errorf("all forecast providers failed: %w", lastErr)
}

func (s *Service) summarize(date time.Time, sample forecast.WeatherSample) string {
	t, v := s.units.TemperatureSymbol(), s.units.SpeedSymbol()
	return fmt.Sprintf(
		"On %s: Expected conditions: %s, temperature %.0f%s (feels like %.0f%s). Humidity around %.0f%%. Winds at %.0f %s.",
		date.Format("Monday, January 02"),
		sample.ConditionText,
		sample.Temperature, t,
		sample.FeelsLike, t,
		sample.Humidity,
		sample.WindSpeed, v,
	)
}

func unavailableSummary(date time.Time) string {
	return fmt.Sprintf("Detailed weather forecast for %s is not available.", date.Format("Monday, January 02"))
}
