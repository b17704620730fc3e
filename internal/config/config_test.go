package config

import (
	"testing"
	"time"

	"github.com/voyagepal/voyagepal-api/internal/weather"
)

var configKeys = []string{
	"PORT", "CORS_ORIGINS", "GEMINI_API_KEY", "GEMINI_MODEL", "GEMINI_BASE_URL", "GEMINI_RPS",
	"OPENWEATHER_API_KEY", "GOOGLE_MAPS_API_KEY", "WEATHER_UNITS", "ACCESS_TOKEN_EXPIRE_MINUTES",
	"STORE_DRIVER", "DB_PATH", "HTTP_TIMEOUT", "REFRESH_INTERVAL", "FORECAST_HORIZON_DAYS",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Port != "8000" || cfg.WeatherUnits != weather.UnitsImperial || cfg.StoreDriver != "sqlite" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.AccessTokenTTL != 30*time.Minute || cfg.RefreshInterval != 3*time.Hour || cfg.ForecastHorizonDays != 5 {
		t.Fatalf("unexpected timing defaults: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:3000" {
		t.Fatalf("unexpected CORS origins: %v", cfg.CORSOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", "9090")
	t.Setenv("WEATHER_UNITS", "metric")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "90")
	t.Setenv("REFRESH_INTERVAL", "0s")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Port != "9090" || cfg.WeatherUnits != weather.UnitsMetric || cfg.StoreDriver != "memory" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.AccessTokenTTL != 90*time.Minute || cfg.RefreshInterval != 0 {
		t.Fatalf("unexpected durations: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected CORS origins: %v", cfg.CORSOrigins)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"units":    {"WEATHER_UNITS", "kelvin"},
		"driver":   {"STORE_DRIVER", "mongo"},
		"duration": {"HTTP_TIMEOUT", "soon"},
		"rps":      {"GEMINI_RPS", "fast"},
		"horizon":  {"FORECAST_HORIZON_DAYS", "abc"},
		"ttl":      {"ACCESS_TOKEN_EXPIRE_MINUTES", "half an hour"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("JWT_SECRET", "secret")
			t.Setenv(kv[0], kv[1])
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", kv[0], kv[1])
			}
		})
	}
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error without JWT_SECRET")
	}
}
