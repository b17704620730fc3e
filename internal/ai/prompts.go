package ai

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const humanDate = "Monday, January 02, 2006"

// SuggestionInput drives the initial suggestions prompt.
type SuggestionInput struct {
	City           string
	Date           time.Time
	Interests      []string
	Pace           string
	WeatherSummary string
	LocalTime      string
}

// AnalysisInput drives the detailed analysis prompt.
type AnalysisInput struct {
	City           string
	Date           time.Time
	ReturnTime     string
	Locations      []SuggestedLocation
	Preferences    map[string]string
	WeatherSummary string
	LocalTime      string
}

// ItineraryInput drives the itinerary optimization prompt.
type ItineraryInput struct {
	City        string
	Date        time.Time
	ReturnTime  string
	Pace        string
	Locations   []SuggestedLocation
	Preferences map[string]string
	LocalTime   string
}

const noWeather = "Weather information not available."

// SuggestionPrompt asks for 3-5 locations matching the traveller's interests.
func SuggestionPrompt(in SuggestionInput) string {
	day := in.Date.Format(humanDate)
	return fmt.Sprintf(
		"You are an AI travel planning companion. The user wants to plan a 1-day trip in %s on %s. "+
			"The current local time in %s is %s. "+
			"Their primary interests are: %s. They prefer a '%s' pace. "+
			"The weather forecast for %s on %s is: %s. "+
			"Suggest 3-5 distinct, highly-rated locations/activities that fit these preferences and are typically open and feasible for a day trip. "+
			"For each suggestion, provide: name, type (museum, park, restaurant, landmark, tour, attraction, transport_hub or other), a brief description, "+
			"estimated visit time in minutes, typical admission cost in USD (null if free), clear reasons for suggestion, and a summary of typical operating hours. "+
			"Also, give general weather and clothing advice for that day based on the provided weather data, "+
			"and indicate if an umbrella or rain gear is recommended.",
		in.City, day, in.City, orUnknown(in.LocalTime),
		strings.Join(in.Interests, ", "), in.Pace,
		in.City, day, orDefault(in.WeatherSummary, noWeather),
	)
}

// AnalysisPrompt asks for weather, clothing, cost and tip details.
func AnalysisPrompt(in AnalysisInput) string {
	day := in.Date.Format(humanDate)
	var b strings.Builder
	fmt.Fprintf(&b, "You are an AI travel planning companion. The user is planning a 1-day trip to %s on %s. ", in.City, day)
	fmt.Fprintf(&b, "They want to return home by %s. ", in.ReturnTime)
	fmt.Fprintf(&b, "Their selected locations are:\n%s\n", listLocations(in.Locations, false))
	fmt.Fprintf(&b, "Their preferences include: %s. ", formatPreferences(in.Preferences))
	fmt.Fprintf(&b, "Current local time in %s is %s. ", in.City, orUnknown(in.LocalTime))
	fmt.Fprintf(&b, "Weather forecast for %s on %s: %s. ", in.City, day, orDefault(in.WeatherSummary, noWeather))
	b.WriteString("Provide a comprehensive analysis including:\n")
	fmt.Fprintf(&b, "- A detailed summary of the weather for %s in %s (temperature, conditions, any warnings like high UV) based on the provided weather data.\n", day, in.City)
	b.WriteString("- Detailed clothing suggestions based on the weather.\n")
	b.WriteString("- Whether an umbrella or rain gear is recommended based on the weather forecast.\n")
	fmt.Fprintf(&b, "- Estimated costs for gas (if driving, include parking downtown, a realistic range for %s for a day) and public transit (typical 1-day pass cost and single ride fare).\n", in.City)
	b.WriteString("- Estimated ride-share costs for typical short trips between downtown attractions (e.g., 3-4 rides).\n")
	fmt.Fprintf(&b, "- General money-saving tips for %s.\n", in.City)
	b.WriteString("- General transportation tips for the chosen modes (transit passes, parking apps if driving, ride-share peak times).\n")
	b.WriteString("- Other essential items to carry (e.g., sunscreen, water bottle, portable phone charger, comfortable shoes).\n")
	b.WriteString("- For each selected location, brief information like typical operating hours and a quick fact or two.")
	return b.String()
}

// ItineraryPrompt asks for a timed, feasibility-checked plan.
func ItineraryPrompt(in ItineraryInput) string {
	day := in.Date.Format(humanDate)
	var b strings.Builder
	fmt.Fprintf(&b, "You are an AI travel planning companion. The user is planning a 1-day trip to %s on %s. ", in.City, day)
	fmt.Fprintf(&b, "They want to return home by %s. ", in.ReturnTime)
	fmt.Fprintf(&b, "Their preferred pace is '%s'. ", orDefault(in.Pace, "relaxed"))
	fmt.Fprintf(&b, "Their selected locations are:\n%s\n", listLocations(in.Locations, true))
	if len(in.Preferences) > 0 {
		fmt.Fprintf(&b, "Their preferences include: %s. ", formatPreferences(in.Preferences))
	}
	fmt.Fprintf(&b, "Current local time in %s is %s. ", in.City, orUnknown(in.LocalTime))
	b.WriteString("Considering these, and assuming the day starts around 9:00 AM, create a detailed, optimized itinerary. ")
	b.WriteString("For each step, include: activity description, exact start time, exact end time, location name, address (if available and relevant), ")
	b.WriteString("estimated travel time to the next step (in minutes), recommended mode of transport (walk, public_transit, ride_share, drive), ")
	b.WriteString("and any important notes (e.g., 'Buy tickets online', 'Lunch break here'). ")
	b.WriteString("Build in realistic buffer time for transitions, meals (explicitly add 'Lunch' and 'Dinner' activities), and short breaks. ")
	fmt.Fprintf(&b, "Assess the overall feasibility of covering all selected locations and returning by %s. ", in.ReturnTime)
	b.WriteString("Feasibility status must be one of: 'possible', 'tight_but_possible', or 'not_possible'. ")
	b.WriteString("Provide notes on feasibility, especially if it's tight. ")
	b.WriteString("Calculate the total estimated cost for admissions based on the provided admission costs, plus a general estimate for food and local transport combined for the day. ")
	b.WriteString("Finally, calculate the total estimated travel time (sum of all estimated_travel_time_minutes) and total activity time for the day.")
	return b.String()
}

func listLocations(locs []SuggestedLocation, withCost bool) string {
	lines := make([]string, 0, len(locs))
	for _, l := range locs {
		typ := orDefault(l.Type, LocationAttraction)
		line := fmt.Sprintf("- %s (Type: %s, Est. Visit: %d mins", l.Name, typ, l.EstimatedTimeSpentMinutes)
		if withCost {
			cost := 0.0
			if l.AdmissionCostUSD != nil {
				cost = *l.AdmissionCostUSD
			}
			line += fmt.Sprintf(", Admission: $%.2f USD", cost)
		}
		lines = append(lines, line+")")
	}
	return strings.Join(lines, "\n")
}

func formatPreferences(prefs map[string]string) string {
	keys := make([]string, 0, len(prefs))
	for k := range prefs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+prefs[k])
	}
	return strings.Join(parts, ", ")
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func orUnknown(s string) string {
	return orDefault(s, "unknown")
}
