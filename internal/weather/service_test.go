package weather

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/voyagepal/voyagepal-api/internal/forecast"
)

type fakeGeocoder struct {
	place Place
	err   error
}

func (g fakeGeocoder) Geocode(context.Context, string) (Place, error) { return g.place, g.err }

type fakeZones struct {
	tz  string
	err error
}

func (z fakeZones) TimezoneID(context.Context, Place) (string, error) { return z.tz, z.err }

type fakeProvider struct {
	name    string
	samples []forecast.WeatherSample
	err     error
	calls   int
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) FetchForecast(context.Context, Place) ([]forecast.WeatherSample, error) {
	p.calls++
	return p.samples, p.err
}

var chicago = Place{Name: "Chicago", Country: "US", Lat: 41.88, Lon: -87.63}

func tripDate(t *testing.T) time.Time {
	t.Helper()
	d, err := forecast.ParseDate("2025-07-12")
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestForecastBuildsSummary(t *testing.T) {
	p := &fakeProvider{name: "fake", samples: []forecast.WeatherSample{
		{Timestamp: time.Date(2025, 7, 12, 18, 0, 0, 0, time.UTC), Temperature: 81.4, FeelsLike: 84.2, Humidity: 55, WindSpeed: 9.6, ConditionCode: 501, ConditionText: "moderate rain"},
		{Timestamp: time.Date(2025, 7, 13, 18, 0, 0, 0, time.UTC), ConditionCode: 800, ConditionText: "clear sky"},
	}}
	svc := NewService(fakeGeocoder{place: chicago}, fakeZones{tz: "America/Chicago"}, []ForecastProvider{p}, UnitsImperial)

	report, err := svc.Forecast(context.Background(), "Chicago", tripDate(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.Available || !report.UmbrellaRecommended {
		t.Fatalf("expected available rainy report, got %+v", report)
	}
	want := "On Saturday, July 12: Expected conditions: moderate rain, temperature 81°F (feels like 84°F). Humidity around 55%. Winds at 10 mph."
	if report.Summary != want {
		t.Fatalf("unexpected summary:\n got %q\nwant %q", report.Summary, want)
	}
	if report.Timezone != "America/Chicago" || report.Date != "2025-07-12" {
		t.Fatalf("unexpected report metadata: %+v", report)
	}
}

func TestForecastBeyondHorizonIsUnavailable(t *testing.T) {
	p := &fakeProvider{name: "fake", samples: []forecast.WeatherSample{
		{Timestamp: time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)},
	}}
	svc := NewService(fakeGeocoder{place: chicago}, fakeZones{tz: "America/Chicago"}, []ForecastProvider{p}, UnitsMetric)

	report, err := svc.Forecast(context.Background(), "Chicago", tripDate(t))
	if err != nil {
		t.Fatalf("NotFound must not surface as an error: %v", err)
	}
	if report.Available || report.Sample != nil {
		t.Fatalf("expected unavailable report, got %+v", report)
	}
	if !strings.Contains(report.Summary, "not available") {
		t.Fatalf("unexpected summary %q", report.Summary)
	}
}

func TestForecastUnknownTimezoneIsUnavailable(t *testing.T) {
	p := &fakeProvider{name: "fake"}
	svc := NewService(fakeGeocoder{place: chicago}, fakeZones{tz: "Nowhere/Special"}, []ForecastProvider{p}, UnitsImperial)

	report, err := svc.Forecast(context.Background(), "Chicago", tripDate(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Available {
		t.Fatalf("expected unavailable report")
	}
}

func TestForecastUnknownCity(t *testing.T) {
	svc := NewService(fakeGeocoder{err: ErrPlaceNotFound}, fakeZones{}, nil, UnitsImperial)

	report, err := svc.Forecast(context.Background(), "Atlantis", tripDate(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Available || !strings.Contains(report.Summary, "city") {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestForecastFallsBackToNextProvider(t *testing.T) {
	broken := &fakeProvider{name: "broken", err: errors.New("boom")}
	good := &fakeProvider{name: "good", samples: []forecast.WeatherSample{
		{Timestamp: time.Date(2025, 7, 12, 17, 0, 0, 0, time.UTC), ConditionCode: 800, ConditionText: "clear sky"},
	}}
	svc := NewService(fakeGeocoder{place: chicago}, fakeZones{tz: "America/Chicago"}, []ForecastProvider{broken, good}, UnitsImperial)

	report, err := svc.Forecast(context.Background(), "Chicago", tripDate(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.Available || report.UmbrellaRecommended {
		t.Fatalf("unexpected report %+v", report)
	}
	if broken.calls != 1 || good.calls != 1 {
		t.Fatalf("expected each provider to be called once")
	}
}

func TestForecastAllProvidersFail(t *testing.T) {
	boom := errors.New("boom")
	svc := NewService(fakeGeocoder{place: chicago}, fakeZones{tz: "UTC"}, []ForecastProvider{&fakeProvider{name: "a", err: boom}}, UnitsImperial)

	if _, err := svc.Forecast(context.Background(), "Chicago", tripDate(t)); !errors.Is(err, boom) {
		t.Fatalf("expected provider error, got %v", err)
	}
}
