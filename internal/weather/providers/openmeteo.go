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

// OpenMeteoProvider is a keyless fallback forecast source. Hourly data is
// thinned to the 3-hour UTC slots OpenWeatherMap uses and WMO weather codes
// are mapped onto OpenWeatherMap condition ids.
type OpenMeteoProvider struct {
	name    string
	units   weather.Units
	baseURL string
	httpCfg common.HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client, units weather.Units) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:    "openmeteo",
		units:   units,
		baseURL: "https://api.open-meteo.com/v1/forecast",
		httpCfg: common.DefaultHTTPConfig(client),
		circuit: common.NewBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) FetchForecast(ctx context.Context, place weather.Place) ([]forecast.WeatherSample, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", strconv.FormatFloat(place.Lat, 'f', 4, 64))
		values.Set("longitude", strconv.FormatFloat(place.Lon, 'f', 4, 64))
		values.Set("hourly", "temperature_2m,apparent_temperature,relative_humidity_2m,wind_speed_10m,weather_code")
		values.Set("timeformat", "unixtime")
		values.Set("timezone", "GMT")
		values.Set("forecast_days", "7")
		if p.units == weather.UnitsImperial {
			values.Set("temperature_unit", "fahrenheit")
			values.Set("wind_speed_unit", "mph")
		} else {
			values.Set("wind_speed_unit", "ms")
		}

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := common.DoRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, fmt.Errorf("forecast for %s: %w", place.Name, err)
	}
	defer resp.Body.Close()

	var payload struct {
		Hourly struct {
			Time        []int64   `json:"time"`
			Temperature []float64 `json:"temperature_2m"`
			Apparent    []float64 `json:"apparent_temperature"`
			Humidity    []float64 `json:"relative_humidity_2m"`
			WindSpeed   []float64 `json:"wind_speed_10m"`
			WeatherCode []int     `json:"weather_code"`
		} `json:"hourly"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	h := payload.Hourly
	n := len(h.Time)
	if len(h.Temperature) != n || len(h.Apparent) != n || len(h.Humidity) != n ||
		len(h.WindSpeed) != n || len(h.WeatherCode) != n {
		return nil, fmt.Errorf("openmeteo: hourly series have mismatched lengths")
	}

	samples := make([]forecast.WeatherSample, 0, n/3+1)
	for i, unix := range h.Time {
		ts := time.Unix(unix, 0).UTC()
		if ts.Hour()%3 != 0 {
			continue
		}
		code, text := mapWMOCode(h.WeatherCode[i])
		samples = append(samples, forecast.WeatherSample{
			Timestamp:     ts,
			Temperature:   h.Temperature[i],
			FeelsLike:     h.Apparent[i],
			Humidity:      h.Humidity[i],
			WindSpeed:     h.WindSpeed[i],
			ConditionCode: code,
			ConditionText: text,
		})
	}
	return samples, nil
}

// mapWMOCode translates a WMO 4677 code to the nearest OpenWeatherMap id.
func mapWMOCode(code int) (int, string) {
	switch {
	case code == 0:
		return 800, "clear sky"
	case code == 1:
		return 801, "few clouds"
	case code == 2:
		return 802, "scattered clouds"
	case code == 3:
		return 804, "overcast clouds"
	case code == 45 || code == 48:
		return 741, "fog"
	case code >= 51 && code <= 57:
		return 300, "drizzle"
	case code >= 61 && code <= 67:
		return 500, "rain"
	case code >= 71 && code <= 77:
		return 600, "snow"
	case code >= 80 && code <= 82:
		return 521, "shower rain"
	case code == 85 || code == 86:
		return 621, "shower snow"
	case code >= 95:
		return 211, "thunderstorm"
	default:
		return 0, "unknown"
	}
}
