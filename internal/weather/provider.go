package weather

import (
	"context"
	"errors"

	"github.com/voyagepal/voyagepal-api/internal/forecast"
)

// ErrPlaceNotFound is returned by a Geocoder that has no match for a query.
var ErrPlaceNotFound = errors.New("place not found")

// Geocoder resolves a free-text city name to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (Place, error)
}

// ForecastProvider abstracts a source of 3-hour forecast samples
// (e.g. OpenWeatherMap's 5 day / 3 hour feed).
type ForecastProvider interface {
	Name() string
	FetchForecast(ctx context.Context, place Place) ([]forecast.WeatherSample, error)
}

// TimezoneResolver maps a place to an IANA timezone id.
type TimezoneResolver interface {
	TimezoneID(ctx context.Context, place Place) (string, error)
}
