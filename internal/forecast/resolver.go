package forecast

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when no sample falls inside the requested local day.
	// It is not a failure: callers report the forecast as unavailable.
	ErrNotFound = errors.New("no forecast sample for requested day")

	// ErrUnknownTimezone is returned when the window's timezone id cannot be loaded.
	ErrUnknownTimezone = errors.New("unknown timezone")
)

// LocalDay returns the UTC instants of local midnight and the last instant
// before the next local midnight for the window's date.
func LocalDay(w Window) (start, end time.Time, err error) {
	loc, err := loadLocation(w.TimezoneID)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	y, m, d := w.Date.Date()
	startLocal := time.Date(y, m, d, 0, 0, 0, 0, loc)
	nextLocal := time.Date(y, m, d+1, 0, 0, 0, 0, loc)
	return startLocal.UTC(), nextLocal.Add(-time.Nanosecond).UTC(), nil
}

// Resolve selects the sample closest to local noon of the window's day.
// Samples outside the local day are ignored; equidistant candidates resolve
// to the earliest timestamp regardless of input order.
func Resolve(samples []WeatherSample, w Window) (ResolvedForecast, error) {
	start, end, err := LocalDay(w)
	if err != nil {
		return ResolvedForecast{}, err
	}

	loc, _ := loadLocation(w.TimezoneID)
	y, m, d := w.Date.Date()
	noon := time.Date(y, m, d, 12, 0, 0, 0, loc)

	var (
		best     WeatherSample
		bestDist time.Duration
		found    bool
	)
	for _, s := range samples {
		ts := s.Timestamp
		if ts.Before(start) || ts.After(end) {
			continue
		}
		dist := absDuration(ts.Sub(noon))
		if !found || dist < bestDist || (dist == bestDist && ts.Before(best.Timestamp)) {
			best, bestDist, found = s, dist, true
		}
	}

	if !found {
		return ResolvedForecast{}, ErrNotFound
	}

	best.Timestamp = best.Timestamp.UTC()
	return ResolvedForecast{
		Sample:       best,
		RainExpected: RainExpected(best.ConditionCode),
	}, nil
}

// RainExpected reports whether a provider condition code is in the
// thunderstorm, drizzle or rain groups (200-599).
func RainExpected(code int) bool {
	return code >= 200 && code <= 599
}

func loadLocation(id string) (*time.Location, error) {
	// time.LoadLocation maps "" to UTC; an empty id is a data gap here.
	if id == "" {
		return nil, fmt.Errorf("%w: empty timezone id", ErrUnknownTimezone)
	}
	loc, err := time.LoadLocation(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTimezone, id)
	}
	return loc, nil
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
