package planner

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/voyagepal/voyagepal-api/internal/ai"
	"github.com/voyagepal/voyagepal-api/internal/forecast"
	"github.com/voyagepal/voyagepal-api/internal/store"
	"github.com/voyagepal/voyagepal-api/internal/weather"
)

const suggestionsReply = `{"properties":{
"general_weather_advice":{"value":"Warm afternoon."},
"clothing_suggestion":{"value":"Light layers."},
"umbrella_needed":{"value":false},
"location_suggestions":{"value":[
 {"name":"Art Institute","type":"museum","estimated_time_spent_minutes":150,"admission_cost_usd":32,"reasons_for_suggestion":["culture"],"operating_hours_summary":"11 AM - 5 PM"},
 {"name":"Millennium Park","type":"park","estimated_time_spent_minutes":60,"reasons_for_suggestion":["outdoors"],"operating_hours_summary":"6 AM - 11 PM"}
]}}}`

const analysisReply = "```json\n" + `{"weather_summary":"Sunny, 81°F.","clothing_suggestion":"Shorts.","carry_umbrella":false,
"estimated_gas_cost_usd":12.5,"estimated_public_transit_cost_usd":5,
"general_money_tips":"Buy a CityPASS.","transportation_tips":"Use a Ventra day pass.",
"other_carry_items":["sunscreen","water"],"location_info":[{"name":"Art Institute","quick_fact":"Founded 1879."}]}` + "\n```"

const itineraryReply = `{"itinerary_steps":[
 {"activity":"Visit the Art Institute","start_time":"9:00 AM","end_time":"11:30 AM","location_name":"Art Institute","transport_mode_to_next":"walk","estimated_travel_time_minutes":10},
 {"activity":"Lunch","start_time":"11:45 AM","end_time":"12:45 PM","location_name":"Millennium Park"}
],"total_estimated_cost_usd":92.5,"feasibility_status":"possible","total_travel_time_minutes":10,"total_activity_time_minutes":210}`

// routedModel answers based on which planning step the prompt is for.
type routedModel struct {
	prompts []string
}

func (m *routedModel) Generate(_ context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	switch {
	case strings.Contains(prompt, "Suggest 3-5"):
		return suggestionsReply, nil
	case strings.Contains(prompt, "comprehensive analysis"):
		return analysisReply, nil
	case strings.Contains(prompt, "optimized itinerary"):
		return itineraryReply, nil
	}
	return "", errors.New("unexpected prompt")
}

type fakeForecaster struct {
	err   error
	calls []string
	// during runs while a forecast is being fetched.
	during func()
}

func (f *fakeForecaster) Forecast(_ context.Context, city string, date time.Time) (weather.Report, error) {
	f.calls = append(f.calls, city+"@"+forecast.FormatDate(date))
	if f.during != nil {
		f.during()
	}
	if f.err != nil {
		return weather.Report{}, f.err
	}
	return weather.Report{
		City:      city,
		Date:      forecast.FormatDate(date),
		Timezone:  "America/Chicago",
		Available: true,
		Summary:   "On Saturday, July 12: Expected conditions: clear sky, temperature 81°F (feels like 84°F). Humidity around 55%. Winds at 10 mph.",
		Units:     weather.UnitsImperial,
	}, nil
}

func newTestService(t *testing.T) (*Service, *routedModel, *fakeForecaster) {
	t.Helper()
	model := &routedModel{}
	fc := &fakeForecaster{}
	svc := NewService(store.NewMemoryStore(), fc, model)
	svc.now = func() time.Time { return time.Date(2025, 7, 10, 15, 0, 0, 0, time.UTC) }
	return svc, model, fc
}

func planRequest() PlanRequest {
	return PlanRequest{
		Destination:        "Chicago",
		TripDate:           "2025-07-12",
		ReturnTime:         "9 PM",
		Interests:          []string{InterestCulture, InterestOutdoor},
		Pace:               PaceRelaxed,
		PreferredTransport: []string{TransportPublicTransit},
	}
}

func selection(tripID string, locs []ai.SuggestedLocation) SelectionRequest {
	return SelectionRequest{
		TripID:            tripID,
		Destination:       "Chicago",
		TripDate:          "2025-07-12",
		ReturnTime:        "9 PM",
		SelectedLocations: locs,
	}
}

func TestPreferencesLifecycle(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.UpdatePreferences(ctx, "u1", PreferencesInput{Pace: PaceFast}); !errors.Is(err, ErrPreferencesNotFound) {
		t.Fatalf("expected ErrPreferencesNotFound, got %v", err)
	}

	p, err := svc.Preferences(ctx, "u1")
	if err != nil {
		t.Fatalf("Preferences returned error: %v", err)
	}
	if p.Pace != PaceRelaxed || p.BudgetRange != BudgetMid || len(p.Interests) != 0 {
		t.Fatalf("unexpected defaults: %+v", p)
	}

	if _, err := svc.CreatePreferences(ctx, "u1", PreferencesInput{}); !errors.Is(err, ErrPreferencesExist) {
		t.Fatalf("expected ErrPreferencesExist, got %v", err)
	}

	updated, err := svc.UpdatePreferences(ctx, "u1", PreferencesInput{
		Interests:   []string{InterestFood},
		Pace:        PaceFast,
		BudgetRange: BudgetLuxury,
	})
	if err != nil {
		t.Fatalf("UpdatePreferences returned error: %v", err)
	}
	got, _ := svc.Preferences(ctx, "u1")
	if got.Pace != PaceFast || got.BudgetRange != BudgetLuxury || got.Interests[0] != InterestFood {
		t.Fatalf("update not persisted: %+v (returned %+v)", got, updated)
	}
}

func TestCreatePreferencesAppliesDefaults(t *testing.T) {
	svc, _, _ := newTestService(t)
	p, err := svc.CreatePreferences(context.Background(), "u2", PreferencesInput{Interests: []string{InterestFamily}})
	if err != nil {
		t.Fatalf("CreatePreferences returned error: %v", err)
	}
	if p.Pace != PaceRelaxed || p.BudgetRange != BudgetMid || p.PreferredTransport == nil {
		t.Fatalf("unexpected preferences: %+v", p)
	}
}

func TestPlanningFlow(t *testing.T) {
	svc, model, _ := newTestService(t)
	ctx := context.Background()

	plan, err := svc.InitialSuggestions(ctx, "u1", planRequest())
	if err != nil {
		t.Fatalf("InitialSuggestions returned error: %v", err)
	}
	if plan.TripID == "" || len(plan.LocationSuggestions) != 2 {
		t.Fatalf("unexpected plan: %+v", plan)
	}
	if !strings.Contains(model.prompts[0], "clear sky, temperature 81°F") {
		t.Fatalf("weather summary missing from prompt")
	}
	if !strings.Contains(model.prompts[0], "Culture & Museums, Outdoor & Nature") {
		t.Fatalf("interests missing from prompt")
	}

	trip, err := svc.GetTrip(ctx, "u1", plan.TripID)
	if err != nil {
		t.Fatalf("GetTrip returned error: %v", err)
	}
	if trip.Status != StatusDraft || trip.WeatherInfo.GeneralAdvice != "Warm afternoon." || trip.Preferences.BudgetRange != BudgetMid {
		t.Fatalf("unexpected draft trip: %+v", trip)
	}
	if trip.WeatherInfo.Forecast == nil || trip.WeatherInfo.Forecast.Timezone != "America/Chicago" {
		t.Fatalf("expected forecast stored on trip")
	}

	analysis, err := svc.DetailedAnalysis(ctx, "u1", selection(plan.TripID, plan.LocationSuggestions))
	if err != nil {
		t.Fatalf("DetailedAnalysis returned error: %v", err)
	}
	if analysis.WeatherSummary != "Sunny, 81°F." {
		t.Fatalf("unexpected analysis: %+v", analysis)
	}

	trip, _ = svc.GetTrip(ctx, "u1", plan.TripID)
	if trip.Status != StatusAnalyzed || len(trip.SelectedLocations) != 2 {
		t.Fatalf("unexpected analyzed trip: %+v", trip)
	}
	wantCosts := map[string]float64{
		"total_admission_cost_usd":          32,
		"estimated_food_cost_usd":           60,
		"estimated_public_transit_cost_usd": 5,
		"overall_total_estimated_cost_usd":  97,
		"gas_usd":                           12.5,
		"public_transit_usd":                5,
	}
	for k, v := range wantCosts {
		if trip.EstimatedCosts[k] != v {
			t.Fatalf("estimated_costs[%s] = %v, want %v", k, trip.EstimatedCosts[k], v)
		}
	}
	if _, ok := trip.EstimatedCosts["ride_share_usd"]; ok {
		t.Fatalf("ride share cost should be absent when the model omits it")
	}
	if len(trip.TravelTips) != 3 || trip.TravelTips[2] != "Use a Ventra day pass." {
		t.Fatalf("unexpected travel tips: %v", trip.TravelTips)
	}

	itin, err := svc.OptimizeItinerary(ctx, "u1", selection(plan.TripID, plan.LocationSuggestions))
	if err != nil {
		t.Fatalf("OptimizeItinerary returned error: %v", err)
	}
	if itin.FeasibilityStatus != ai.FeasibilityPossible || len(itin.ItinerarySteps) != 2 {
		t.Fatalf("unexpected itinerary: %+v", itin)
	}
	if !strings.Contains(model.prompts[2], "preferred pace is 'relaxed'") {
		t.Fatalf("pace missing from itinerary prompt")
	}
	if !strings.Contains(model.prompts[2], "10:00 AM CDT") {
		t.Fatalf("expected local time in trip timezone in itinerary prompt")
	}

	trip, _ = svc.GetTrip(ctx, "u1", plan.TripID)
	if trip.Status != StatusPlanned || len(trip.Itinerary) != 2 || trip.EstimatedCosts["total_itinerary_cost_usd"] != 92.5 {
		t.Fatalf("unexpected planned trip: %+v", trip)
	}

	trips, err := svc.ListTrips(ctx, "u1")
	if err != nil || len(trips) != 1 {
		t.Fatalf("expected one trip, got %d (%v)", len(trips), err)
	}
}

func TestTripsAreScopedToOwner(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	plan, err := svc.InitialSuggestions(ctx, "u1", planRequest())
	if err != nil {
		t.Fatalf("InitialSuggestions returned error: %v", err)
	}

	if _, err := svc.GetTrip(ctx, "u2", plan.TripID); !errors.Is(err, ErrTripNotFound) {
		t.Fatalf("expected ErrTripNotFound for other user, got %v", err)
	}
	if _, err := svc.DetailedAnalysis(ctx, "u2", selection(plan.TripID, plan.LocationSuggestions)); !errors.Is(err, ErrTripNotFound) {
		t.Fatalf("expected ErrTripNotFound on analysis, got %v", err)
	}
	if _, err := svc.OptimizeItinerary(ctx, "u1", selection("missing", plan.LocationSuggestions)); !errors.Is(err, ErrTripNotFound) {
		t.Fatalf("expected ErrTripNotFound for unknown trip, got %v", err)
	}
	trips, _ := svc.ListTrips(ctx, "u2")
	if len(trips) != 0 {
		t.Fatalf("expected no trips for u2, got %d", len(trips))
	}
}

func TestInitialSuggestionsWithoutWeather(t *testing.T) {
	svc, model, fc := newTestService(t)
	fc.err = errors.New("upstream down")

	plan, err := svc.InitialSuggestions(context.Background(), "u1", planRequest())
	if err != nil {
		t.Fatalf("planning should continue without weather, got %v", err)
	}
	if plan.TripID == "" {
		t.Fatalf("expected a trip id")
	}
	if !strings.Contains(model.prompts[0], "Weather information not available.") {
		t.Fatalf("expected fallback weather text in prompt")
	}
	if !strings.Contains(model.prompts[0], "is unknown") {
		t.Fatalf("expected unknown local time without a timezone")
	}
}

func TestInitialSuggestionsInvalidDate(t *testing.T) {
	svc, model, _ := newTestService(t)
	req := planRequest()
	req.TripDate = "12/07/2025"

	if _, err := svc.InitialSuggestions(context.Background(), "u1", req); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if len(model.prompts) != 0 {
		t.Fatalf("model should not be called for an invalid date")
	}
}

func TestRefreshForecastsWithinHorizon(t *testing.T) {
	svc, _, fc := newTestService(t)
	ctx := context.Background()

	for _, date := range []string{"2025-07-09", "2025-07-12", "2025-07-20"} {
		req := planRequest()
		req.TripDate = date
		if _, err := svc.InitialSuggestions(ctx, "u1", req); err != nil {
			t.Fatalf("InitialSuggestions(%s) returned error: %v", date, err)
		}
	}
	fc.calls = nil

	n, err := svc.RefreshForecasts(ctx, 5)
	if err != nil {
		t.Fatalf("RefreshForecasts returned error: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 refreshed trip, got %d", n)
	}
	if len(fc.calls) != 1 || fc.calls[0] != "Chicago@2025-07-12" {
		t.Fatalf("unexpected forecast calls: %v", fc.calls)
	}

	trips, _ := svc.ListTrips(ctx, "u1")
	for _, trip := range trips {
		refreshed := trip.WeatherInfo.RefreshedAt != nil
		if refreshed != (trip.TripDate == "2025-07-12") {
			t.Fatalf("trip %s refreshed=%v", trip.TripDate, refreshed)
		}
	}
}

func TestRefreshForecastsKeepsConcurrentPlanningChanges(t *testing.T) {
	svc, _, fc := newTestService(t)
	ctx := context.Background()

	plan, err := svc.InitialSuggestions(ctx, "u1", planRequest())
	if err != nil {
		t.Fatalf("InitialSuggestions returned error: %v", err)
	}

	fc.during = func() {
		trip, err := svc.trips.Get(ctx, plan.TripID)
		if err != nil {
			t.Fatalf("Get returned error: %v", err)
		}
		trip.Status = StatusAnalyzed
		trip.MoneyTips = "Buy a day pass."
		if err := svc.trips.Update(ctx, trip.ID, trip); err != nil {
			t.Fatalf("Update returned error: %v", err)
		}
	}

	if n, err := svc.RefreshForecasts(ctx, 5); err != nil || n != 1 {
		t.Fatalf("RefreshForecasts = %d, %v", n, err)
	}

	trip, err := svc.GetTrip(ctx, "u1", plan.TripID)
	if err != nil {
		t.Fatalf("GetTrip returned error: %v", err)
	}
	if trip.Status != StatusAnalyzed || trip.MoneyTips != "Buy a day pass." {
		t.Fatalf("refresh overwrote planning changes: status=%s tips=%q", trip.Status, trip.MoneyTips)
	}
	if trip.WeatherInfo.RefreshedAt == nil {
		t.Fatalf("expected forecast to be refreshed")
	}
}

func TestPreferenceSnapshotOverrides(t *testing.T) {
	base := TripPreferences{Interests: []string{InterestFood}, Pace: PaceRelaxed, BudgetRange: BudgetMid}
	got := preferenceSnapshot(base, map[string]any{
		"pace":                "fast-paced",
		"preferred_transport": []any{"walking", "ride_share"},
		"budget_range":        nil,
	})

	if got["pace"] != "fast-paced" {
		t.Fatalf("expected override to win, got %q", got["pace"])
	}
	if got["preferred_transport"] != "walking, ride_share" {
		t.Fatalf("unexpected transport %q", got["preferred_transport"])
	}
	if got["budget_range"] != BudgetMid || got["interests"] != InterestFood {
		t.Fatalf("unexpected snapshot: %v", got)
	}
}
