package planner

import (
	"time"

	"github.com/voyagepal/voyagepal-api/internal/ai"
	"github.com/voyagepal/voyagepal-api/internal/weather"
)

// Interests a traveller can pick.
const (
	InterestCulture        = "Culture & Museums"
	InterestOutdoor        = "Outdoor & Nature"
	InterestFood           = "Food & Drink"
	InterestArchitecture   = "Architecture & City Views"
	InterestFamily         = "Family-Friendly"
	InterestShopping       = "Shopping & Entertainment"
	PaceFast               = "fast-paced"
	PaceRelaxed            = "relaxed"
	TransportDriving       = "driving"
	TransportPublicTransit = "public_transit"
	TransportWalking       = "walking"
	TransportRideShare     = "ride_share"
	BudgetLow              = "budget"
	BudgetMid              = "mid-range"
	BudgetLuxury           = "luxury"
)

// Trip lifecycle states.
const (
	StatusDraft    = "draft"
	StatusAnalyzed = "analyzed"
	StatusPlanned  = "planned"
)

// Preferences are a user's saved trip defaults.
type Preferences struct {
	UserID             string    `json:"user_id"`
	Interests          []string  `json:"interests"`
	Pace               string    `json:"pace"`
	PreferredTransport []string  `json:"preferred_transport"`
	BudgetRange        string    `json:"budget_range"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// PreferencesInput is the writable part of Preferences.
type PreferencesInput struct {
	Interests          []string `json:"interests" validate:"omitempty,dive,oneof='Culture & Museums' 'Outdoor & Nature' 'Food & Drink' 'Architecture & City Views' 'Family-Friendly' 'Shopping & Entertainment'"`
	Pace               string   `json:"pace" validate:"omitempty,oneof=fast-paced relaxed"`
	PreferredTransport []string `json:"preferred_transport" validate:"omitempty,dive,oneof=driving public_transit walking ride_share"`
	BudgetRange        string   `json:"budget_range" validate:"omitempty,oneof=budget mid-range luxury"`
}

func (in PreferencesInput) apply(p *Preferences) {
	p.Interests = nonNil(in.Interests)
	p.Pace = orDefault(in.Pace, PaceRelaxed)
	p.PreferredTransport = nonNil(in.PreferredTransport)
	p.BudgetRange = orDefault(in.BudgetRange, BudgetMid)
}

// TripPreferences is the snapshot of preferences a trip was planned with.
type TripPreferences struct {
	Interests          []string `json:"interests"`
	Pace               string   `json:"pace"`
	PreferredTransport []string `json:"preferred_transport"`
	BudgetRange        string   `json:"budget_range"`
}

// WeatherInfo accumulates weather advice across the planning steps.
type WeatherInfo struct {
	Summary            string          `json:"summary,omitempty"`
	GeneralAdvice      string          `json:"general_advice,omitempty"`
	ClothingSuggestion string          `json:"clothing_suggestion,omitempty"`
	UmbrellaNeeded     bool            `json:"umbrella_needed"`
	Forecast           *weather.Report `json:"forecast,omitempty"`
	RefreshedAt        *time.Time      `json:"refreshed_at,omitempty"`
}

// Trip is a planned day out.
type Trip struct {
	ID                string                 `json:"id"`
	UserID            string                 `json:"user_id"`
	Status            string                 `json:"status"`
	Destination       string                 `json:"destination"`
	TripDate          string                 `json:"trip_date"`
	ReturnTime        string                 `json:"return_time"`
	Preferences       TripPreferences        `json:"preferences"`
	SelectedLocations []ai.SuggestedLocation `json:"selected_locations"`
	Itinerary         []ai.ItineraryStep     `json:"itinerary"`
	EstimatedCosts    map[string]float64     `json:"estimated_costs"`
	MoneyTips         string                 `json:"money_tips,omitempty"`
	WeatherInfo       WeatherInfo            `json:"weather_info"`
	TravelTips        []string               `json:"travel_tips"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
}

// PlanRequest starts a new trip.
type PlanRequest struct {
	Destination        string   `json:"destination" validate:"required"`
	TripDate           string   `json:"trip_date" validate:"required,datetime=2006-01-02"`
	ReturnTime         string   `json:"return_time" validate:"required"`
	Interests          []string `json:"interests" validate:"required,min=1,dive,oneof='Culture & Museums' 'Outdoor & Nature' 'Food & Drink' 'Architecture & City Views' 'Family-Friendly' 'Shopping & Entertainment'"`
	Pace               string   `json:"pace" validate:"required,oneof=fast-paced relaxed"`
	PreferredTransport []string `json:"preferred_transport" validate:"omitempty,dive,oneof=driving public_transit walking ride_share"`
	BudgetRange        string   `json:"budget_range" validate:"omitempty,oneof=budget mid-range luxury"`
}

// SelectionRequest carries the locations chosen from the initial
// suggestions. UserPreferences overrides the trip's stored snapshot when set.
type SelectionRequest struct {
	TripID            string                 `json:"trip_id" validate:"required"`
	Destination       string                 `json:"destination" validate:"required"`
	TripDate          string                 `json:"trip_date" validate:"required,datetime=2006-01-02"`
	ReturnTime        string                 `json:"return_time" validate:"required"`
	UserPreferences   map[string]any         `json:"user_preferences"`
	SelectedLocations []ai.SuggestedLocation `json:"selected_locations" validate:"required,min=1,dive"`
}

// InitialPlan is the AI suggestion plus the id of the draft trip it created.
type InitialPlan struct {
	ai.InitialTripSuggestions
	TripID string `json:"trip_id"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
