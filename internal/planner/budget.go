package planner

import (
	"github.com/voyagepal/voyagepal-api/internal/ai"
)

// Per-meal food cost in USD by budget range.
var mealCostUSD = map[string]float64{
	BudgetLow:    15,
	BudgetMid:    30,
	BudgetLuxury: 70,
}

const (
	gasCostPerMile     = 0.15
	parkingCostUSD     = 40
	transitDayPassUSD  = 5
	rideShareDayUSD    = 50
	defaultMealsPerDay = 2
)

// Estimate is a rule-of-thumb cost breakdown for one day.
type Estimate struct {
	AdmissionUSD float64            `json:"total_admission_cost_usd"`
	FoodUSD      float64            `json:"estimated_food_cost_usd"`
	Transport    map[string]float64 `json:"transport_costs"`
	TotalUSD     float64            `json:"overall_total_estimated_cost_usd"`
}

// BudgetCalculator produces cost estimates without calling any upstream.
type BudgetCalculator struct{}

// FoodCost prices meals at the rate for budget. Unknown ranges use mid-range.
func (BudgetCalculator) FoodCost(meals int, budget string) float64 {
	rate, ok := mealCostUSD[budget]
	if !ok {
		rate = mealCostUSD[BudgetMid]
	}
	return float64(meals) * rate
}

// TransportCost returns the cost items for one transport mode.
func (BudgetCalculator) TransportCost(mode string, distanceMiles float64) map[string]float64 {
	switch mode {
	case TransportDriving:
		return map[string]float64{
			"estimated_gas_cost_usd":     distanceMiles * gasCostPerMile,
			"estimated_parking_cost_usd": parkingCostUSD,
		}
	case TransportPublicTransit:
		return map[string]float64{"estimated_public_transit_cost_usd": transitDayPassUSD}
	case TransportRideShare:
		return map[string]float64{"estimated_ride_share_cost_usd": rideShareDayUSD}
	case TransportWalking:
		return map[string]float64{"estimated_walking_cost_usd": 0}
	}
	return map[string]float64{}
}

// Calculate totals admissions, meals and every preferred transport mode.
// Locations without an admission cost count as free.
func (b BudgetCalculator) Calculate(locs []ai.SuggestedLocation, meals int, budget string, modes []string) Estimate {
	var est Estimate
	for _, l := range locs {
		if l.AdmissionCostUSD != nil {
			est.AdmissionUSD += *l.AdmissionCostUSD
		}
	}
	est.FoodUSD = b.FoodCost(meals, budget)

	est.Transport = map[string]float64{}
	for _, m := range modes {
		for k, v := range b.TransportCost(m, 0) {
			est.Transport[k] = v
		}
	}

	est.TotalUSD = est.AdmissionUSD + est.FoodUSD
	for _, v := range est.Transport {
		est.TotalUSD += v
	}
	return est
}

// mealsFor counts restaurant stops, falling back to lunch and dinner.
func mealsFor(locs []ai.SuggestedLocation) int {
	n := 0
	for _, l := range locs {
		if l.Type == ai.LocationRestaurant {
			n++
		}
	}
	if n == 0 {
		return defaultMealsPerDay
	}
	return n
}

// costMap flattens an estimate into the keys stored on a trip.
func (e Estimate) costMap() map[string]float64 {
	out := map[string]float64{
		"total_admission_cost_usd":         e.AdmissionUSD,
		"estimated_food_cost_usd":          e.FoodUSD,
		"overall_total_estimated_cost_usd": e.TotalUSD,
	}
	for k, v := range e.Transport {
		out[k] = v
	}
	return out
}
