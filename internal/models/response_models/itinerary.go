package response_models

import "strings"

type Overview struct {
	Title           string `json:"title"`
	Duration        string `json:"duration"`
	Route           string `json:"route"`
	BudgetBreakdown string `json:"budgetBreakdown"`
	Transport       string `json:"transport"`
}

type ItineraryActivity struct {
	Time      string `json:"time"`
	Activity  string `json:"activity"`
	Title     string `json:"title"`
	Cost      string `json:"cost"`
	Duration  string `json:"duration"`
	Transport string `json:"transport"`
	Note      string `json:"note"`
	Tips      string `json:"tips"`
	VeggieTip string `json:"veggieTip"`
}

type ItineraryDay struct {
	Day        int                 `json:"day"`
	Date       string              `json:"date"`
	Weekday    string              `json:"weekday"`
	City       string              `json:"city"`
	Weather    string              `json:"weather"`
	DailyTotal string              `json:"dailyTotal"`
	Activities []ItineraryActivity `json:"activities"`
}

type DailyWeather struct {
	Date                string `json:"date"`
	Summary             string `json:"summary"`
	High                string `json:"high"`
	Low                 string `json:"low"`
	PrecipitationChance string `json:"precipitationChance"`
}

// Describe renders the day as a short line such as "Light rain, 14-21C, 60% rain".
func (d DailyWeather) Describe() string {
	parts := make([]string, 0, 3)
	if d.Summary != "" {
		parts = append(parts, d.Summary)
	}
	if d.Low != "" && d.High != "" {
		parts = append(parts, d.Low+"-"+d.High)
	} else if d.High != "" {
		parts = append(parts, d.High)
	}
	if d.PrecipitationChance != "" {
		parts = append(parts, d.PrecipitationChance+" rain")
	}
	return strings.Join(parts, ", ")
}

// WeatherInfo is the forecast block echoed next to the days.
type WeatherInfo struct {
	Summary       string         `json:"summary"`
	Temperature   string         `json:"temperature"`
	Precipitation string         `json:"precipitation"`
	Source        string         `json:"source"`
	Daily         []DailyWeather `json:"daily,omitempty"`
}

// Itinerary is the canonical trip plan returned to the UI. Days, Tips and
// every day's Activities are never nil once normalized.
type Itinerary struct {
	Overview Overview       `json:"overview"`
	Days     []ItineraryDay `json:"days"`
	Tips     []string       `json:"tips"`
	Weather  *WeatherInfo   `json:"weather,omitempty"`
}

type EnrichmentMeta struct {
	Weather  bool `json:"weather"`
	Searches int  `json:"searches"`
}

type GenerateMeta struct {
	Destination string         `json:"destination"`
	StartDate   string         `json:"startDate"`
	EndDate     string         `json:"endDate"`
	Duration    int            `json:"duration"`
	Model       string         `json:"model"`
	Attempts    int            `json:"attempts"`
	Refined     bool           `json:"refined"`
	Enrichment  EnrichmentMeta `json:"enrichment"`
	GeneratedAt string         `json:"generatedAt"`
}

type GenerateResponse struct {
	Itinerary Itinerary    `json:"itinerary"`
	Meta      GenerateMeta `json:"meta"`
}

type EditResponse struct {
	Itinerary Itinerary `json:"itinerary"`
}

type TestKeyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// TripResponse is the body of the legacy /trip endpoint.
type TripResponse struct {
	Destination string    `json:"destination"`
	StartDate   string    `json:"startDate"`
	EndDate     string    `json:"endDate"`
	Duration    int       `json:"duration"`
	Interests   []string  `json:"interests"`
	Itinerary   Itinerary `json:"itinerary"`
}

type SavedTripResponse struct {
	ID          string    `json:"id"`
	Destination string    `json:"destination"`
	StartDate   string    `json:"startDate"`
	EndDate     string    `json:"endDate"`
	Duration    int       `json:"duration"`
	Itinerary   Itinerary `json:"itinerary"`
	CreatedAt   int64     `json:"createdAt"` // unix millis
}
