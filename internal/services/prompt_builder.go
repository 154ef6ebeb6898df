package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"tripplanner/internal/models/response_models"
	"tripplanner/pkg/utils"
)

// DefaultDuration is used when a trip length cannot be inferred from dates.
const DefaultDuration = 7

// GenerateParams are the trip parameters rendered into the generation prompt.
type GenerateParams struct {
	Destination string
	StartDate   string
	Duration    int
	Travelers   string
	Budget      string
	Pace        string
	// Notes holds best-effort enrichment (prices, events, forecast). May be empty.
	Notes []string
}

// TripParams feed the legacy /trip prompt.
type TripParams struct {
	Destination string
	StartDate   string
	EndDate     string
	Duration    int
	Travelers   string
	Budget      string
	Interests   []string
}

const formattingRules = `OUTPUT RULES:
1. Return a single JSON object and nothing else.
2. Do not wrap the JSON in markdown code fences.
3. Do not add comments of any kind.
4. Do not leave trailing commas.
5. Use double quotes for every key and string value.
`

const itineraryExample = `{
  "overview": {
    "title": "3 Days in Lisbon",
    "duration": "3 days",
    "route": "Lisbon -> Sintra -> Lisbon",
    "budgetBreakdown": "Accommodation ~EUR 270, food ~EUR 150, transport ~EUR 40, activities ~EUR 90",
    "transport": "Metro and trams in the city, train to Sintra"
  },
  "days": [
    {
      "day": 1,
      "date": "2025-05-10",
      "weekday": "Saturday",
      "city": "Lisbon",
      "weather": "Sunny, 22C",
      "dailyTotal": "EUR 120",
      "activities": [
        {
          "time": "09:00",
          "activity": "Breakfast at Manteigaria, Rua do Loreto 2",
          "cost": "EUR 6",
          "duration": "45 min",
          "transport": "Walk",
          "note": "Order the pasteis de nata warm",
          "veggieTip": "The custard tarts are vegetarian"
        }
      ]
    }
  ],
  "tips": ["Buy a Viva Viagem card for public transport"]
}`

// BuildGeneratePrompt renders the full-itinerary instruction.
func BuildGeneratePrompt(p GenerateParams) string {
	var prompt strings.Builder

	duration := p.Duration
	if duration < 1 {
		duration = 1
	}
	endDate := ComputeEndDate(p.StartDate, duration)

	prompt.WriteString(fmt.Sprintf("Create a detailed %d-day travel itinerary for %s.\n\n", duration, p.Destination))
	prompt.WriteString("TRIP DETAILS:\n")
	prompt.WriteString(fmt.Sprintf("- Destination: %s\n", p.Destination))
	prompt.WriteString(fmt.Sprintf("- Dates: %s to %s (%d days)\n", p.StartDate, endDate, duration))
	prompt.WriteString(fmt.Sprintf("- Travelers: %s\n", orDefault(p.Travelers, "not specified")))
	prompt.WriteString(fmt.Sprintf("- Budget level: %s\n", orDefault(p.Budget, "moderate")))
	prompt.WriteString(fmt.Sprintf("- Pace: %s\n\n", orDefault(p.Pace, "balanced")))

	if len(p.Notes) > 0 {
		prompt.WriteString("CURRENT INFORMATION (use it where relevant):\n")
		for _, note := range p.Notes {
			prompt.WriteString(fmt.Sprintf("- %s\n", note))
		}
		prompt.WriteString("\n")
	}

	prompt.WriteString("CONSTRAINTS:\n")
	prompt.WriteString(fmt.Sprintf("1. Generate exactly %d day objects, numbered 1 to %d, in chronological order.\n", duration, duration))
	prompt.WriteString(fmt.Sprintf("2. Day 1 is %s; give every day its real date and weekday.\n", p.StartDate))
	prompt.WriteString("3. Name real, specific places (restaurants, museums, streets), never generic placeholders.\n")
	prompt.WriteString("4. Give every activity a realistic time, cost in local currency, duration and transport.\n")
	prompt.WriteString("5. Match the number of activities per day to the requested pace.\n")
	prompt.WriteString("6. Keep daily totals consistent with the budget level.\n")
	prompt.WriteString("7. Add a vegetarian-friendly tip (veggieTip) to meals where one exists.\n\n")

	prompt.WriteString(formattingRules)
	prompt.WriteString("\nReturn JSON in exactly this shape:\n")
	prompt.WriteString(itineraryExample)

	return prompt.String()
}

// BuildReinforcedGeneratePrompt is used once when the first answer looked
// generic or incomplete.
func BuildReinforcedGeneratePrompt(p GenerateParams) string {
	var prompt strings.Builder

	prompt.WriteString("=== SECOND ATTEMPT: THE PREVIOUS ANSWER WAS TOO GENERIC ===\n")
	prompt.WriteString("Think step by step before answering:\n")
	prompt.WriteString(fmt.Sprintf("1. List the neighbourhoods and landmarks of %s worth visiting.\n", p.Destination))
	prompt.WriteString("2. Group them geographically, one area per day.\n")
	prompt.WriteString("3. Pick named restaurants and cafes close to each area.\n")
	prompt.WriteString("4. Only then write the final itinerary.\n")
	prompt.WriteString("Be specific. Phrases like \"Guided tour\" or \"Cultural experience\" are not acceptable on their own.\n")
	prompt.WriteString("Output only the final JSON, not your reasoning.\n\n")

	prompt.WriteString(BuildGeneratePrompt(p))

	return prompt.String()
}

// BuildEditPrompt asks the model to apply userRequest to itinerary. When day
// is set, only that day may change.
func BuildEditPrompt(itinerary response_models.Itinerary, userRequest string, day *int) string {
	var prompt strings.Builder

	current, err := json.MarshalIndent(itinerary, "", "  ")
	if err != nil {
		current = []byte("{}")
	}

	prompt.WriteString("You are editing an existing travel itinerary.\n\n")
	prompt.WriteString("CURRENT ITINERARY:\n")
	prompt.Write(current)
	prompt.WriteString("\n\n")
	prompt.WriteString(fmt.Sprintf("USER REQUEST: %s\n\n", strings.TrimSpace(userRequest)))

	prompt.WriteString("EDIT SCOPE:\n")
	if day != nil {
		prompt.WriteString(fmt.Sprintf("- Apply the request to day %d only.\n", *day))
		prompt.WriteString(fmt.Sprintf("- Every day other than day %d must be returned exactly as it is, field for field.\n", *day))
		prompt.WriteString("- Keep the overview and tips unless the request makes them wrong.\n")
	} else {
		prompt.WriteString("- The request may touch the whole itinerary.\n")
		prompt.WriteString("- Make the smallest change that satisfies it and keep everything else unchanged.\n")
	}
	prompt.WriteString("- Keep the same number of days, day numbers and dates.\n\n")

	prompt.WriteString(formattingRules)
	prompt.WriteString("\nReturn the complete updated itinerary with the same keys as the current one.\n")

	return prompt.String()
}

// BuildTripPrompt renders the prompt of the legacy /trip endpoint, which is
// driven by interests rather than pace.
func BuildTripPrompt(p TripParams) string {
	var prompt strings.Builder

	interests := "general sightseeing"
	if len(p.Interests) > 0 {
		interests = strings.Join(p.Interests, ", ")
	}

	prompt.WriteString(fmt.Sprintf("Plan a %d-day trip to %s from %s to %s.\n", p.Duration, p.Destination, p.StartDate, p.EndDate))
	prompt.WriteString(fmt.Sprintf("Travelers: %s. Budget: %s. Interests: %s.\n\n",
		orDefault(p.Travelers, "not specified"), orDefault(p.Budget, "moderate"), interests))
	prompt.WriteString("Build each day around the interests, with 3-5 activities and one local food suggestion.\n\n")
	prompt.WriteString(formattingRules)
	prompt.WriteString("\nReturn JSON in exactly this shape:\n")
	prompt.WriteString(itineraryExample)

	return prompt.String()
}

// BuildChatSystemPrompt primes the trip assistant with the user's current
// trip, if any.
func BuildChatSystemPrompt(tripData json.RawMessage, extra string) string {
	var prompt strings.Builder

	prompt.WriteString("You are a friendly travel assistant helping a user refine their trip. ")
	prompt.WriteString("Answer concisely in plain text, suggest concrete places, and say so when you are unsure about prices or opening hours.\n")

	if trimmed := strings.TrimSpace(string(tripData)); trimmed != "" && trimmed != "null" {
		prompt.WriteString("\nThe user's current trip:\n")
		prompt.WriteString(trimmed)
		prompt.WriteString("\n")
	}
	if extra = strings.TrimSpace(extra); extra != "" {
		prompt.WriteString("\nAdditional context: ")
		prompt.WriteString(extra)
		prompt.WriteString("\n")
	}

	return prompt.String()
}

// ComputeEndDate returns startDate plus durationDays-1 days. An unparsable
// startDate is returned unchanged.
func ComputeEndDate(startDate string, durationDays int) string {
	start, ok := utils.ParseDate(startDate)
	if !ok {
		return startDate
	}
	offset := durationDays - 1
	if offset < 0 {
		offset = 0
	}
	return start.AddDate(0, 0, offset).Format(utils.DateLayout)
}

// InferDuration counts the days from startDate to endDate inclusive, with a
// minimum of 1. Unparsable dates yield DefaultDuration.
func InferDuration(startDate, endDate string) int {
	start, ok := utils.ParseDate(startDate)
	if !ok {
		return DefaultDuration
	}
	end, ok := utils.ParseDate(endDate)
	if !ok {
		return DefaultDuration
	}
	days := int(end.Sub(start).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func monthYear(date string) string {
	t, ok := utils.ParseDate(date)
	if !ok {
		return ""
	}
	return t.Format("January 2006")
}
