package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
	"github.com/voyagepal/voyagepal-api/internal/common"
	"github.com/voyagepal/voyagepal-api/internal/forecast"
	"github.com/voyagepal/voyagepal-api/internal/weather"
)

// OpenWeatherProvider geocodes city names and fetches the 5 day / 3 hour
// forecast from OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	units   weather.Units
	baseURL string
	httpCfg common.HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, apiKey string, units weather.Units) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		units:   units,
		baseURL: "https://api.openweathermap.org",
		httpCfg: common.DefaultHTTPConfig(client),
		circuit: common.NewBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

// Geocode resolves a free-form city query to the first matching place.
func (p *OpenWeatherProvider) Geocode(ctx context.Context, query string) (weather.Place, error) {
	if p.apiKey == "" {
		return weather.Place{}, fmt.Errorf("openweather api key is not configured")
	}

	values := url.Values{}
	values.Set("q", query)
	values.Set("limit", "1")
	values.Set("appid", p.apiKey)

	var payload []struct {
		Name    string  `json:"name"`
		Country string  `json:"country"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
	}
	if err := p.getJSON(ctx, "/geo/1.0/direct", values, &payload); err != nil {
		return weather.Place{}, fmt.Errorf("geocode %q: %w", query, err)
	}
	if len(payload) == 0 {
		return weather.Place{}, weather.ErrPlaceNotFound
	}

	return weather.Place{
		Name:    payload[0].Name,
		Country: payload[0].Country,
		Lat:     payload[0].Lat,
		Lon:     payload[0].Lon,
	}, nil
}

// FetchForecast returns the 3-hour samples covering the next five days.
func (p *OpenWeatherProvider) FetchForecast(ctx context.Context, place weather.Place) ([]forecast.WeatherSample, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("openweather api key is not configured")
	}

	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(place.Lat, 'f', 4, 64))
	values.Set("lon", strconv.FormatFloat(place.Lon, 'f', 4, 64))
	values.Set("units", string(p.units))
	values.Set("appid", p.apiKey)

	var payload struct {
		List []struct {
			Dt   int64 `json:"dt"`
			Main struct {
				Temp      float64 `json:"temp"`
				FeelsLike float64 `json:"feels_like"`
				Humidity  float64 `json:"humidity"`
			} `json:"main"`
			Wind struct {
				Speed float64 `json:"speed"`
			} `json:"wind"`
			Weather []struct {
				ID          int    `json:"id"`
				Description string `json:"description"`
			} `json:"weather"`
		} `json:"list"`
	}
	if err := p.getJSON(ctx, "/data/2.5/forecast", values, &payload); err != nil {
		return nil, fmt.Errorf("forecast for %s: %w", place.Name, err)
	}

	samples := make([]forecast.WeatherSample, 0, len(payload.List))
	for _, item := range payload.List {
		s := forecast.WeatherSample{
			Timestamp:   time.Unix(item.Dt, 0).UTC(),
			Temperature: item.Main.Temp,
			FeelsLike:   item.Main.FeelsLike,
			Humidity:    item.Main.Humidity,
			WindSpeed:   item.Wind.Speed,
		}
		if len(item.Weather) > 0 {
			s.ConditionCode = item.Weather[0].ID
			s.ConditionText = item.Weather[0].Description
		}
		samples = append(samples, s)
	}
	return samples, nil
}

func (p *OpenWeatherProvider) getJSON(ctx context.Context, path string, values url.Values, out any) error {
	buildRequest := func() (*http.Request, error) {
		u := fmt.Sprintf("%s%s?%s", p.baseURL, path, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := common.DoRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return json.NewDecoder(resp.Body).Decode(out)
}
