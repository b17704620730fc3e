package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/voyagepal/voyagepal-api/internal/common"
	"github.com/voyagepal/voyagepal-api/internal/weather"
)

type AppConfig struct {
	Port        string
	CORSOrigins []string

	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	GeminiRPS     float64

	OpenWeatherAPIKey string
	GoogleMapsAPIKey  string // switches geocoding to Google when set
	WeatherUnits      weather.Units

	JWTSecret      string
	AccessTokenTTL time.Duration

	StoreDriver string // "sqlite" or "memory"
	DBPath      string

	HTTPTimeout time.Duration

	// RefreshInterval controls how often upcoming trips get a fresh forecast.
	// Zero disables the job.
	RefreshInterval     time.Duration
	ForecastHorizonDays int
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8000")
	cfg.CORSOrigins = common.SplitList(getenvDefault("CORS_ORIGINS", "http://localhost:3000"))

	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.GeminiModel = getenvDefault("GEMINI_MODEL", "gemini-1.5-flash")
	cfg.GeminiBaseURL = os.Getenv("GEMINI_BASE_URL")
	rps, err := strconv.ParseFloat(getenvDefault("GEMINI_RPS", "1"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid GEMINI_RPS: %w", err)
	}
	cfg.GeminiRPS = rps

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.GoogleMapsAPIKey = os.Getenv("GOOGLE_MAPS_API_KEY")
	switch units := weather.Units(getenvDefault("WEATHER_UNITS", string(weather.UnitsImperial))); units {
	case weather.UnitsImperial, weather.UnitsMetric:
		cfg.WeatherUnits = units
	default:
		return nil, fmt.Errorf("invalid WEATHER_UNITS %q: use imperial or metric", units)
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	ttlMinutes, err := getenvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30)
	if err != nil {
		return nil, err
	}
	cfg.AccessTokenTTL = time.Duration(ttlMinutes) * time.Minute

	cfg.StoreDriver = getenvDefault("STORE_DRIVER", "sqlite")
	if cfg.StoreDriver != "sqlite" && cfg.StoreDriver != "memory" {
		return nil, fmt.Errorf("invalid STORE_DRIVER %q: use sqlite or memory", cfg.StoreDriver)
	}
	cfg.DBPath = getenvDefault("DB_PATH", "data/voyagepal.db")

	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", "3h"); err != nil {
		return nil, err
	}
	if cfg.ForecastHorizonDays, err = getenvInt("FORECAST_HORIZON_DAYS", 5); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
