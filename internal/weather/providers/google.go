package providers

import (
	"context"
	"fmt"

	"github.com/kelvins/geocoder"
	"github.com/voyagepal/voyagepal-api/internal/weather"
)

// GoogleGeocoder resolves city names through the Google Maps Geocoding API.
// The underlying library keeps the API key in a package variable, so only one
// key can be active per process.
type GoogleGeocoder struct{}

func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	geocoder.ApiKey = apiKey
	return &GoogleGeocoder{}
}

func (g *GoogleGeocoder) Geocode(ctx context.Context, query string) (weather.Place, error) {
	if err := ctx.Err(); err != nil {
		return weather.Place{}, err
	}

	loc, err := geocoder.Geocoding(geocoder.Address{City: query})
	if err != nil {
		if err.Error() == "ZERO_RESULTS" {
			return weather.Place{}, weather.ErrPlaceNotFound
		}
		return weather.Place{}, fmt.Errorf("google geocode %q: %w", query, err)
	}

	return weather.Place{
		Name: query,
		Lat:  loc.Latitude,
		Lon:  loc.Longitude,
	}, nil
}
