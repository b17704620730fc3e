package ai

// Location types accepted from the model.
const (
	LocationAttraction   = "attraction"
	LocationRestaurant   = "restaurant"
	LocationTransportHub = "transport_hub"
	LocationPark         = "park"
	LocationMuseum       = "museum"
	LocationLandmark     = "landmark"
	LocationTour         = "tour"
	LocationOther        = "other"
)

// Feasibility verdicts for an optimized itinerary.
const (
	FeasibilityPossible    = "possible"
	FeasibilityTight       = "tight_but_possible"
	FeasibilityNotPossible = "not_possible"
)

// SuggestedLocation is a place proposed by the model for the trip.
type SuggestedLocation struct {
	Name                      string   `json:"name" validate:"required" jsonschema_description:"Name of the location."`
	Address                   string   `json:"address,omitempty" jsonschema_description:"Physical address of the location."`
	PlaceID                   string   `json:"place_id,omitempty" jsonschema_description:"Google Places ID or similar external ID."`
	Type                      string   `json:"type" validate:"required,oneof=attraction restaurant transport_hub park museum landmark tour other" jsonschema:"enum=attraction,enum=restaurant,enum=transport_hub,enum=park,enum=museum,enum=landmark,enum=tour,enum=other"`
	Description               string   `json:"description,omitempty" jsonschema_description:"Brief description of the location."`
	EstimatedTimeSpentMinutes int      `json:"estimated_time_spent_minutes" validate:"gte=0" jsonschema_description:"Estimated time needed to visit this location in minutes."`
	AdmissionCostUSD          *float64 `json:"admission_cost_usd,omitempty" validate:"omitempty,gte=0" jsonschema_description:"Estimated admission cost in USD. Null if free."`
	ReasonsForSuggestion      []string `json:"reasons_for_suggestion" jsonschema_description:"Reasons why this location is suggested based on user preferences."`
	OperatingHoursSummary     string   `json:"operating_hours_summary" jsonschema_description:"Summary of typical operating hours for the day of the trip."`
}

// InitialTripSuggestions is the model's first answer for a planned day.
type InitialTripSuggestions struct {
	GeneralWeatherAdvice string              `json:"general_weather_advice" validate:"required" jsonschema_description:"General advice about the weather for the trip day."`
	ClothingSuggestion   string              `json:"clothing_suggestion" validate:"required" jsonschema_description:"Suggestion for what to wear."`
	UmbrellaNeeded       bool                `json:"umbrella_needed" jsonschema_description:"True if an umbrella or rain gear is recommended."`
	LocationSuggestions  []SuggestedLocation `json:"location_suggestions" validate:"required,min=1,dive" jsonschema_description:"List of suggested locations based on user preferences."`
}

// LocationInfo is per-location detail returned with the trip analysis.
type LocationInfo struct {
	Name         string `json:"name" validate:"required"`
	TypicalHours string `json:"typical_hours,omitempty"`
	QuickFact    string `json:"quick_fact,omitempty"`
}

// TripPlanningAnalysis covers weather, clothing, costs and tips for the
// selected locations.
type TripPlanningAnalysis struct {
	WeatherSummary                string         `json:"weather_summary" validate:"required" jsonschema_description:"Summary of the weather, including temperature, conditions, and any warnings."`
	ClothingSuggestion            string         `json:"clothing_suggestion" validate:"required" jsonschema_description:"Detailed clothing recommendation."`
	CarryUmbrella                 bool           `json:"carry_umbrella" jsonschema_description:"True if an umbrella or rain gear is recommended."`
	EstimatedGasCostUSD           *float64       `json:"estimated_gas_cost_usd,omitempty" validate:"omitempty,gte=0" jsonschema_description:"Estimated gas cost if driving."`
	EstimatedPublicTransitCostUSD *float64       `json:"estimated_public_transit_cost_usd,omitempty" validate:"omitempty,gte=0" jsonschema_description:"Estimated public transit cost."`
	EstimatedRideShareCostUSD     *float64       `json:"estimated_ride_share_cost_usd,omitempty" validate:"omitempty,gte=0" jsonschema_description:"Estimated ride-share cost."`
	GeneralMoneyTips              string         `json:"general_money_tips" jsonschema_description:"General advice on managing money for the trip."`
	TransportationTips            string         `json:"transportation_tips" jsonschema_description:"General tips for the chosen transportation methods."`
	OtherCarryItems               []string       `json:"other_carry_items" jsonschema_description:"Other essential items to carry."`
	LocationInfo                  []LocationInfo `json:"location_info" validate:"dive" jsonschema_description:"Information about each selected location: typical hours and a quick fact."`
}

// ItineraryStep is one timed activity in the optimized plan.
type ItineraryStep struct {
	Activity                   string `json:"activity" validate:"required" jsonschema_description:"Description of the activity."`
	StartTime                  string `json:"start_time" validate:"required" jsonschema_description:"Start time of the activity, e.g. 10:30 AM."`
	EndTime                    string `json:"end_time" validate:"required" jsonschema_description:"End time of the activity, e.g. 2:00 PM."`
	LocationName               string `json:"location_name" validate:"required" jsonschema_description:"Name of the location for this activity."`
	Address                    string `json:"address,omitempty"`
	TransportModeToNext        string `json:"transport_mode_to_next,omitempty" validate:"omitempty,oneof=walk public_transit ride_share drive" jsonschema:"enum=walk,enum=public_transit,enum=ride_share,enum=drive"`
	EstimatedTravelTimeMinutes *int   `json:"estimated_travel_time_minutes,omitempty" validate:"omitempty,gte=0"`
	Notes                      string `json:"notes,omitempty"`
}

// OptimizedItinerary is the final ordered plan for the day.
type OptimizedItinerary struct {
	ItinerarySteps           []ItineraryStep `json:"itinerary_steps" validate:"required,min=1,dive" jsonschema_description:"Ordered list of itinerary steps."`
	TotalEstimatedCostUSD    float64         `json:"total_estimated_cost_usd" validate:"gte=0" jsonschema_description:"Total estimated cost for the entire itinerary."`
	FeasibilityStatus        string          `json:"feasibility_status" validate:"required,oneof=possible tight_but_possible not_possible" jsonschema:"enum=possible,enum=tight_but_possible,enum=not_possible"`
	FeasibilityNotes         string          `json:"feasibility_notes,omitempty"`
	TotalTravelTimeMinutes   int             `json:"total_travel_time_minutes" validate:"gte=0"`
	TotalActivityTimeMinutes int             `json:"total_activity_time_minutes" validate:"gte=0"`
}
