// Package timezone maps coordinates to IANA timezone ids.
package timezone

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bradfitz/latlong"
	"github.com/voyagepal/voyagepal-api/internal/weather"
)

// ErrNoZone is returned for coordinates outside every known zone polygon.
var ErrNoZone = errors.New("no timezone for coordinates")

// LatLongResolver looks zones up in the embedded latlong shape table.
type LatLongResolver struct{}

func NewLatLongResolver() *LatLongResolver {
	return &LatLongResolver{}
}

func (r *LatLongResolver) TimezoneID(ctx context.Context, place weather.Place) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := latlong.LookupZoneName(place.Lat, place.Lon)
	if name == "" {
		return "", fmt.Errorf("%w: %.4f,%.4f", ErrNoZone, place.Lat, place.Lon)
	}
	// The table can lag the local tzdata; reject names the runtime cannot load.
	if _, err := time.LoadLocation(name); err != nil {
		return "", fmt.Errorf("zone %q: %w", name, err)
	}
	return name, nil
}
