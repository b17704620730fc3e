// Package planner drives the three-step trip planning flow and keeps
// preferences and trips in the document store.
package planner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/voyagepal/voyagepal-api/internal/ai"
	"github.com/voyagepal/voyagepal-api/internal/forecast"
	"github.com/voyagepal/voyagepal-api/internal/store"
	"github.com/voyagepal/voyagepal-api/internal/weather"
)

var (
	ErrPreferencesExist    = errors.New("preferences already exist for this user, use PUT to update")
	ErrPreferencesNotFound = errors.New("preferences not found for this user, use POST to create")
	ErrTripNotFound        = errors.New("trip not found")
	ErrInvalidDate         = errors.New("invalid trip date")
)

// Forecaster produces the weather report for a city and day.
type Forecaster interface {
	Forecast(ctx context.Context, city string, date time.Time) (weather.Report, error)
}

type Service struct {
	prefs      store.Docs[Preferences]
	trips      store.Docs[Trip]
	forecaster Forecaster
	model      ai.Client
	budget     BudgetCalculator
	now        func() time.Time
}

func NewService(backend store.Backend, forecaster Forecaster, model ai.Client) *Service {
	return &Service{
		prefs:      store.NewDocs[Preferences](backend.Collection("user_preferences")),
		trips:      store.NewDocs[Trip](backend.Collection("trips")),
		forecaster: forecaster,
		model:      model,
		now:        time.Now,
	}
}

// Preferences returns the user's preferences, creating the defaults on
// first access.
func (s *Service) Preferences(ctx context.Context, userID string) (Preferences, error) {
	p, err := s.prefs.Get(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return Preferences{}, err
	}

	p = Preferences{UserID: userID, UpdatedAt: s.now().UTC()}
	PreferencesInput{}.apply(&p)
	if err := s.prefs.Create(ctx, userID, userID, p); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return s.prefs.Get(ctx, userID)
		}
		return Preferences{}, err
	}
	return p, nil
}

func (s *Service) CreatePreferences(ctx context.Context, userID string, in PreferencesInput) (Preferences, error) {
	p := Preferences{UserID: userID, UpdatedAt: s.now().UTC()}
	in.apply(&p)
	if err := s.prefs.Create(ctx, userID, userID, p); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return Preferences{}, ErrPreferencesExist
		}
		return Preferences{}, err
	}
	return p, nil
}

func (s *Service) UpdatePreferences(ctx context.Context, userID string, in PreferencesInput) (Preferences, error) {
	p := Preferences{UserID: userID, UpdatedAt: s.now().UTC()}
	in.apply(&p)
	if err := s.prefs.Update(ctx, userID, p); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Preferences{}, ErrPreferencesNotFound
		}
		return Preferences{}, err
	}
	return p, nil
}

// InitialSuggestions asks the model for locations and saves a draft trip.
func (s *Service) InitialSuggestions(ctx context.Context, userID string, req PlanRequest) (InitialPlan, error) {
	date, err := parseDate(req.TripDate)
	if err != nil {
		return InitialPlan{}, err
	}

	report := s.weatherFor(ctx, req.Destination, date)

	var suggestions ai.InitialTripSuggestions
	prompt := ai.SuggestionPrompt(ai.SuggestionInput{
		City:           req.Destination,
		Date:           date,
		Interests:      req.Interests,
		Pace:           req.Pace,
		WeatherSummary: report.Summary,
		LocalTime:      s.localTime(report.Timezone),
	})
	if err := ai.Generate(ctx, s.model, prompt, &suggestions); err != nil {
		return InitialPlan{}, err
	}

	now := s.now().UTC()
	trip := Trip{
		ID:          uuid.NewString(),
		UserID:      userID,
		Status:      StatusDraft,
		Destination: req.Destination,
		TripDate:    forecast.FormatDate(date),
		ReturnTime:  req.ReturnTime,
		Preferences: TripPreferences{
			Interests:          nonNil(req.Interests),
			Pace:               req.Pace,
			PreferredTransport: nonNil(req.PreferredTransport),
			BudgetRange:        orDefault(req.BudgetRange, BudgetMid),
		},
		SelectedLocations: []ai.SuggestedLocation{},
		Itinerary:         []ai.ItineraryStep{},
		EstimatedCosts:    map[string]float64{},
		WeatherInfo: WeatherInfo{
			GeneralAdvice:      suggestions.GeneralWeatherAdvice,
			ClothingSuggestion: suggestions.ClothingSuggestion,
			UmbrellaNeeded:     suggestions.UmbrellaNeeded || report.UmbrellaRecommended,
			Forecast:           &report,
		},
		TravelTips: []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.trips.Create(ctx, trip.ID, userID, trip); err != nil {
		return InitialPlan{}, fmt.Errorf("save draft trip: %w", err)
	}
	log.Printf("INFO: draft trip %s created for %s on %s", trip.ID, trip.Destination, trip.TripDate)

	return InitialPlan{InitialTripSuggestions: suggestions, TripID: trip.ID}, nil
}

// DetailedAnalysis analyses the selected locations and records weather,
// costs and tips on the trip.
func (s *Service) DetailedAnalysis(ctx context.Context, userID string, req SelectionRequest) (ai.TripPlanningAnalysis, error) {
	trip, err := s.GetTrip(ctx, userID, req.TripID)
	if err != nil {
		return ai.TripPlanningAnalysis{}, err
	}
	date, err := parseDate(req.TripDate)
	if err != nil {
		return ai.TripPlanningAnalysis{}, err
	}

	report := s.weatherFor(ctx, req.Destination, date)

	var analysis ai.TripPlanningAnalysis
	prompt := ai.AnalysisPrompt(ai.AnalysisInput{
		City:           req.Destination,
		Date:           date,
		ReturnTime:     req.ReturnTime,
		Locations:      req.SelectedLocations,
		Preferences:    preferenceSnapshot(trip.Preferences, req.UserPreferences),
		WeatherSummary: report.Summary,
		LocalTime:      s.localTime(report.Timezone),
	})
	if err := ai.Generate(ctx, s.model, prompt, &analysis); err != nil {
		return ai.TripPlanningAnalysis{}, err
	}

	trip.Destination = req.Destination
	trip.TripDate = forecast.FormatDate(date)
	trip.ReturnTime = req.ReturnTime
	trip.SelectedLocations = req.SelectedLocations

	trip.WeatherInfo.Summary = analysis.WeatherSummary
	trip.WeatherInfo.ClothingSuggestion = analysis.ClothingSuggestion
	trip.WeatherInfo.UmbrellaNeeded = analysis.CarryUmbrella
	trip.WeatherInfo.Forecast = &report

	est := s.budget.Calculate(req.SelectedLocations, mealsFor(req.SelectedLocations),
		trip.Preferences.BudgetRange, trip.Preferences.PreferredTransport)
	if trip.EstimatedCosts == nil {
		trip.EstimatedCosts = map[string]float64{}
	}
	for k, v := range est.costMap() {
		trip.EstimatedCosts[k] = v
	}
	setCost(trip.EstimatedCosts, "gas_usd", analysis.EstimatedGasCostUSD)
	setCost(trip.EstimatedCosts, "public_transit_usd", analysis.EstimatedPublicTransitCostUSD)
	setCost(trip.EstimatedCosts, "ride_share_usd", analysis.EstimatedRideShareCostUSD)
	trip.MoneyTips = analysis.GeneralMoneyTips

	tips := append([]string{}, analysis.OtherCarryItems...)
	if analysis.TransportationTips != "" {
		tips = append(tips, analysis.TransportationTips)
	}
	trip.TravelTips = tips

	if trip.Status == StatusDraft {
		trip.Status = StatusAnalyzed
	}
	trip.UpdatedAt = s.now().UTC()
	if err := s.trips.Update(ctx, trip.ID, trip); err != nil {
		return ai.TripPlanningAnalysis{}, fmt.Errorf("save trip analysis: %w", err)
	}
	return analysis, nil
}

// OptimizeItinerary orders the selected locations into a timed plan and
// stores it on the trip.
func (s *Service) OptimizeItinerary(ctx context.Context, userID string, req SelectionRequest) (ai.OptimizedItinerary, error) {
	trip, err := s.GetTrip(ctx, userID, req.TripID)
	if err != nil {
		return ai.OptimizedItinerary{}, err
	}
	date, err := parseDate(req.TripDate)
	if err != nil {
		return ai.OptimizedItinerary{}, err
	}

	prefs := preferenceSnapshot(trip.Preferences, req.UserPreferences)
	tz := ""
	if trip.WeatherInfo.Forecast != nil {
		tz = trip.WeatherInfo.Forecast.Timezone
	}

	var plan ai.OptimizedItinerary
	prompt := ai.ItineraryPrompt(ai.ItineraryInput{
		City:        req.Destination,
		Date:        date,
		ReturnTime:  req.ReturnTime,
		Pace:        prefs["pace"],
		Locations:   req.SelectedLocations,
		Preferences: prefs,
		LocalTime:   s.localTime(tz),
	})
	if err := ai.Generate(ctx, s.model, prompt, &plan); err != nil {
		return ai.OptimizedItinerary{}, err
	}

	trip.SelectedLocations = req.SelectedLocations
	trip.Itinerary = plan.ItinerarySteps
	if trip.EstimatedCosts == nil {
		trip.EstimatedCosts = map[string]float64{}
	}
	trip.EstimatedCosts["total_itinerary_cost_usd"] = plan.TotalEstimatedCostUSD
	trip.Status = StatusPlanned
	trip.UpdatedAt = s.now().UTC()
	if err := s.trips.Update(ctx, trip.ID, trip); err != nil {
		return ai.OptimizedItinerary{}, fmt.Errorf("save itinerary: %w", err)
	}

	if plan.FeasibilityStatus == ai.FeasibilityNotPossible {
		log.Printf("INFO: itinerary for trip %s is not feasible: %s", trip.ID, plan.FeasibilityNotes)
	}
	return plan, nil
}

// ListTrips returns the user's trips, newest first.
func (s *Service) ListTrips(ctx context.Context, userID string) ([]Trip, error) {
	return s.trips.List(ctx, userID)
}

// GetTrip loads a trip owned by userID. Trips owned by someone else are
// reported as not found.
func (s *Service) GetTrip(ctx context.Context, userID, tripID string) (Trip, error) {
	trip, err := s.trips.Get(ctx, tripID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Trip{}, ErrTripNotFound
		}
		return Trip{}, err
	}
	if trip.UserID != userID {
		return Trip{}, ErrTripNotFound
	}
	return trip, nil
}

// RefreshForecasts re-resolves the stored forecast of every trip dated
// between today and today+horizonDays (UTC) and returns how many trips were
// updated. Failures for a single trip are logged and skipped.
func (s *Service) RefreshForecasts(ctx context.Context, horizonDays int) (int, error) {
	trips, err := s.trips.List(ctx, "")
	if err != nil {
		return 0, err
	}

	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	last := today.AddDate(0, 0, horizonDays)

	updated := 0
	for _, trip := range trips {
		if err := ctx.Err(); err != nil {
			return updated, err
		}
		date, err := forecast.ParseDate(trip.TripDate)
		if err != nil || date.Before(today) || date.After(last) {
			continue
		}

		report, err := s.forecaster.Forecast(ctx, trip.Destination, date)
		if err != nil {
			log.Printf("ERROR: refresh forecast for trip %s (%s): %v", trip.ID, trip.Destination, err)
			continue
		}

		// Planning steps may have saved the trip while the forecast was
		// fetched; apply the forecast to the latest copy only.
		current, err := s.trips.Get(ctx, trip.ID)
		if err != nil {
			log.Printf("ERROR: reload trip %s: %v", trip.ID, err)
			continue
		}
		if current.Destination != trip.Destination || current.TripDate != trip.TripDate {
			log.Printf("DEBUG: trip %s changed during refresh, skipping", trip.ID)
			continue
		}

		refreshed := now
		current.WeatherInfo.Forecast = &report
		current.WeatherInfo.RefreshedAt = &refreshed
		if report.UmbrellaRecommended {
			current.WeatherInfo.UmbrellaNeeded = true
		}
		if err := s.trips.Update(ctx, current.ID, current); err != nil {
			log.Printf("ERROR: save refreshed forecast for trip %s: %v", trip.ID, err)
			continue
		}
		updated++
	}
	return updated, nil
}

// weatherFor never fails: planning continues without weather when the
// forecast cannot be fetched.
func (s *Service) weatherFor(ctx context.Context, city string, date time.Time) weather.Report {
	report, err := s.forecaster.Forecast(ctx, city, date)
	if err != nil {
		log.Printf("ERROR: weather for %s on %s: %v", city, forecast.FormatDate(date), err)
		return weather.Report{City: city, Date: forecast.FormatDate(date)}
	}
	return report
}

func (s *Service) localTime(tz string) string {
	if tz == "" {
		return ""
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return ""
	}
	return s.now().In(loc).Format("3:04 PM MST")
}

func parseDate(s string) (time.Time, error) {
	d, err := forecast.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	return d, nil
}

func setCost(costs map[string]float64, key string, v *float64) {
	if v != nil {
		costs[key] = *v
	}
}

// preferenceSnapshot renders the trip's preferences for a prompt, letting
// non-empty overrides win.
func preferenceSnapshot(p TripPreferences, overrides map[string]any) map[string]string {
	out := map[string]string{}
	put := func(k, v string) {
		if v != "" {
			out[k] = v
		}
	}
	put("interests", strings.Join(p.Interests, ", "))
	put("pace", p.Pace)
	put("preferred_transport", strings.Join(p.PreferredTransport, ", "))
	put("budget_range", p.BudgetRange)

	for k, v := range overrides {
		put(k, flattenValue(v))
	}
	return out
}

func flattenValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []string:
		return strings.Join(t, ", ")
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := flattenValue(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(t)
	}
}
