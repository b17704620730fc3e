package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/voyagepal/voyagepal-api/internal/api/http"
	"github.com/voyagepal/voyagepal-api/internal/ai/gemini"
	"github.com/voyagepal/voyagepal-api/internal/auth"
	"github.com/voyagepal/voyagepal-api/internal/config"
	"github.com/voyagepal/voyagepal-api/internal/planner"
	"github.com/voyagepal/voyagepal-api/internal/scheduler"
	"github.com/voyagepal/voyagepal-api/internal/store"
	"github.com/voyagepal/voyagepal-api/internal/timezone"
	"github.com/voyagepal/voyagepal-api/internal/weather"
	"github.com/voyagepal/voyagepal-api/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	backend, err := openStore(cfg)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer backend.Close()

	// Shared HTTP client for outbound calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// OpenWeatherMap first, keyless Open-Meteo as fallback.
	openWeather := providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey, cfg.WeatherUnits)
	forecastProviders := []weather.ForecastProvider{
		openWeather,
		providers.NewOpenMeteoProvider(httpClient, cfg.WeatherUnits),
	}

	var geocoder weather.Geocoder = openWeather
	if cfg.GoogleMapsAPIKey != "" {
		log.Println("INFO: using Google Maps for geocoding")
		geocoder = providers.NewGoogleGeocoder(cfg.GoogleMapsAPIKey)
	}

	weatherSvc := weather.NewService(geocoder, timezone.NewLatLongResolver(), forecastProviders, cfg.WeatherUnits)

	// Gemini calls take longer than weather lookups.
	model, err := gemini.NewClient(&http.Client{Timeout: 4 * cfg.HTTPTimeout}, gemini.Config{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiBaseURL,
		RPS:     cfg.GeminiRPS,
		Burst:   2,
	})
	if err != nil {
		log.Fatalf("failed to create gemini client: %v", err)
	}

	authSvc, err := auth.NewService(backend.Collection("users"), cfg.JWTSecret, cfg.AccessTokenTTL)
	if err != nil {
		log.Fatalf("failed to create auth service: %v", err)
	}
	plannerSvc := planner.NewService(backend, weatherSvc, model)

	// Scheduler that keeps forecasts of upcoming trips fresh.
	sched := scheduler.New(plannerSvc, cfg.RefreshInterval, cfg.ForecastHorizonDays)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := httpapi.NewApp(httpapi.Services{
		Auth:    authSvc,
		Planner: plannerSvc,
		Weather: weatherSvc,
	}, httpapi.Options{
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: 6 * cfg.HTTPTimeout,
	})

	// Start server with graceful shutdown
	go func() {
		log.Printf("INFO: listening on :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}

func openStore(cfg *config.AppConfig) (store.Backend, error) {
	if cfg.StoreDriver == "memory" {
		log.Println("INFO: using in-memory store; data is lost on restart")
		return store.NewMemoryStore(), nil
	}
	db, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	return db, nil
}
