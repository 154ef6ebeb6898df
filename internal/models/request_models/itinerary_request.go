package request_models

import "encoding/json"

type GenerateRequest struct {
	Destination          string `json:"destination" binding:"required"`
	StartDate            string `json:"startDate" binding:"required,calendardate"`
	Duration             int    `json:"duration" binding:"omitempty,min=1,max=30"`
	EndDate              string `json:"endDate" binding:"omitempty,calendardate"`
	TravelersDescription string `json:"travelersDescription"`
	BudgetLevel          string `json:"budgetLevel"`
	Pace                 string `json:"pace"`
	OpenAIKey            string `json:"openaiKey"`
}

// EditRequest carries the itinerary as raw JSON; it is normalized before use
// because the client may send back whatever it stored.
type EditRequest struct {
	Itinerary   json.RawMessage `json:"itinerary" binding:"required"`
	UserRequest string          `json:"userRequest" binding:"required"`
	Day         *int            `json:"day" binding:"omitempty,min=1"`
	OpenAIKey   string          `json:"openaiKey"`
}

type TestKeyRequest struct {
	APIKey string `json:"apiKey"`
}

type ChatMessage struct {
	Role    string `json:"role" binding:"required,oneof=user assistant system"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Messages  []ChatMessage   `json:"messages" binding:"required,min=1,dive"`
	TripData  json.RawMessage `json:"tripData"`
	Context   string          `json:"context"`
	OpenAIKey string          `json:"openaiKey"`
}

type TripRequest struct {
	Destination string   `json:"destination" binding:"required"`
	StartDate   string   `json:"startDate" binding:"required,calendardate"`
	EndDate     string   `json:"endDate" binding:"omitempty,calendardate"`
	Travelers   string   `json:"travelers"`
	Budget      string   `json:"budget"`
	Interests   []string `json:"interests"`
	OpenAIKey   string   `json:"openaiKey"`
}

type SaveTripRequest struct {
	Destination string          `json:"destination" binding:"required"`
	StartDate   string          `json:"startDate" binding:"omitempty,calendardate"`
	EndDate     string          `json:"endDate" binding:"omitempty,calendardate"`
	Duration    int             `json:"duration" binding:"omitempty,min=1"`
	Itinerary   json.RawMessage `json:"itinerary" binding:"required"`
}
