package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripplanner/internal/models/request_models"
	"tripplanner/pkg/utils"
)

const testKey = "sk-test-0123456789abcdef"

func parisItinerary() string {
	return `{
  "overview": {"title": "3 Days in Paris", "duration": "3 days", "route": "Paris", "budgetBreakdown": "EUR 600", "transport": "Metro"},
  "days": [
    {"day": 1, "date": "2025-06-01", "city": "Paris", "activities": [{"time": "09:00", "activity": "Breakfast at Cafe de Flore, 172 Boulevard Saint-Germain", "cost": "EUR 18"}]},
    {"day": 2, "date": "2025-06-02", "city": "Paris", "activities": [{"time": "10:00", "activity": "Musee d'Orsay, 1 Rue de la Legion d'Honneur", "cost": "EUR 16"}]},
    {"day": 3, "date": "2025-06-03", "city": "Paris", "activities": [{"time": "11:00", "activity": "Walk the Canal Saint-Martin from Republique", "cost": "Free"}]}
  ],
  "tips": ["Validate metro tickets before boarding", "` + strings.Repeat("Museums close on Mondays or Tuesdays. ", 20) + `"]
}`
}

func newTestItineraryService(chat *scriptedChat) (*ItineraryService, *fakeFactory) {
	factory := &fakeFactory{chat: chat}
	svc := NewItineraryService(factory, testOrchestrator(DefaultRetries), nil, "", nil).(*ItineraryService)
	svc.now = func() time.Time { return time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC) }
	return svc, factory
}

func parisRequest() request_models.GenerateRequest {
	return request_models.GenerateRequest{
		Destination:          "Paris",
		StartDate:            "2025-06-01",
		Duration:             3,
		TravelersDescription: "2 adults",
		BudgetLevel:          "mid",
		Pace:                 "balanced",
		OpenAIKey:            testKey,
	}
}

func TestGenerate_HappyPath(t *testing.T) {
	chat := newScriptedChat(scriptedReply{text: parisItinerary()})
	svc, factory := newTestItineraryService(chat)

	resp, err := svc.Generate(context.Background(), parisRequest())
	require.NoError(t, err)

	assert.Len(t, resp.Itinerary.Days, 3)
	assert.Equal(t, "2025-06-03", resp.Meta.EndDate)
	assert.Equal(t, 3, resp.Meta.Duration)
	assert.Equal(t, 1, resp.Meta.Attempts)
	assert.False(t, resp.Meta.Refined)
	assert.Equal(t, "test-model", resp.Meta.Model)
	assert.Equal(t, "2025-05-01T12:00:00Z", resp.Meta.GeneratedAt)
	assert.Empty(t, resp.Itinerary.Days[0].Weekday)

	assert.Equal(t, []string{testKey}, factory.keys)
	require.Equal(t, 1, chat.calls())
	assert.Contains(t, chat.requests[0].Prompt, "Create a detailed 3-day travel itinerary for Paris.")
	assert.Contains(t, chat.requests[0].Prompt, "2025-06-01 to 2025-06-03")
}

func TestGenerate_InfersDurationFromEndDate(t *testing.T) {
	chat := newScriptedChat(scriptedReply{text: parisItinerary()})
	svc, _ := newTestItineraryService(chat)

	req := parisRequest()
	req.Duration = 0
	req.EndDate = "2025-06-05"

	resp, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 5, resp.Meta.Duration)
	assert.Equal(t, "2025-06-05", resp.Meta.EndDate)
}

func TestGenerate_InvalidCredentialMakesNoCall(t *testing.T) {
	chat := newScriptedChat(scriptedReply{text: parisItinerary()})
	svc, _ := newTestItineraryService(chat)

	req := parisRequest()
	req.OpenAIKey = "abc"

	_, err := svc.Generate(context.Background(), req)
	require.ErrorIs(t, err, utils.ErrInvalidCredential)
	assert.Zero(t, chat.calls())
}

func TestGenerate_MissingCredential(t *testing.T) {
	chat := newScriptedChat()
	svc, _ := newTestItineraryService(chat)

	req := parisRequest()
	req.OpenAIKey = ""

	_, err := svc.Generate(context.Background(), req)
	require.ErrorIs(t, err, utils.ErrMissingCredential)
}

func TestGenerate_EnvironmentCredential(t *testing.T) {
	chat := newScriptedChat(scriptedReply{text: parisItinerary()})
	factory := &fakeFactory{chat: chat}
	svc := NewItineraryService(factory, testOrchestrator(0), nil, "sk-env-0123456789abcdef", nil)

	req := parisRequest()
	req.OpenAIKey = ""

	_, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []string{"sk-env-0123456789abcdef"}, factory.keys)
}

func TestGenerate_InvalidInput(t *testing.T) {
	svc, _ := newTestItineraryService(newScriptedChat())

	req := parisRequest()
	req.StartDate = "next week"
	_, err := svc.Generate(context.Background(), req)
	require.ErrorIs(t, err, utils.ErrInvalidInput)

	req = parisRequest()
	req.Destination = "  "
	_, err = svc.Generate(context.Background(), req)
	require.ErrorIs(t, err, utils.ErrInvalidInput)
}

func TestGenerate_MalformedOutput(t *testing.T) {
	long := strings.Repeat("no json here, activities. ", 60)
	chat := newScriptedChat(scriptedReply{text: long})
	svc, _ := newTestItineraryService(chat)

	_, err := svc.Generate(context.Background(), parisRequest())
	require.ErrorIs(t, err, utils.ErrNoJSONFound)
}

func TestGenerate_TruncatedOutput(t *testing.T) {
	chat := newScriptedChat(scriptedReply{text: `{"overview":{},"days":[{"day":1,"activities":[`})
	svc, _ := newTestItineraryService(chat)

	// The outermost span ends at the overview's closing brace, so the days
	// are lost and only the overview survives.
	resp, err := svc.Generate(context.Background(), parisRequest())
	require.NoError(t, err)
	require.NotNil(t, resp.Itinerary.Days)
	assert.Empty(t, resp.Itinerary.Days)
	assert.NotNil(t, resp.Itinerary.Tips)
}

func TestGenerate_ProviderRejectsKey(t *testing.T) {
	chat := newScriptedChat(scriptedReply{err: utils.NewProviderError(401, "Incorrect API key provided", errors.New("401"))})
	svc, _ := newTestItineraryService(chat)

	_, err := svc.Generate(context.Background(), parisRequest())
	require.ErrorIs(t, err, utils.ErrCredentialRejected)
	assert.Equal(t, 1, chat.calls())
}

func TestEdit_DayScoped(t *testing.T) {
	edited := strings.Replace(parisItinerary(), "Musee d'Orsay", "Musee Rodin", 1)
	chat := newScriptedChat(scriptedReply{text: edited})
	svc, _ := newTestItineraryService(chat)

	day := 2
	resp, err := svc.Edit(context.Background(), request_models.EditRequest{
		Itinerary:   json.RawMessage(parisItinerary()),
		UserRequest: "Swap the museum for something smaller",
		Day:         &day,
		OpenAIKey:   testKey,
	})
	require.NoError(t, err)

	assert.Contains(t, resp.Itinerary.Days[1].Activities[0].Activity, "Musee Rodin")
	require.Equal(t, 1, chat.calls())
	assert.Contains(t, chat.requests[0].Prompt, "Apply the request to day 2 only.")
	assert.Contains(t, chat.requests[0].Prompt, "Musee d'Orsay")
}

func TestEdit_Validation(t *testing.T) {
	svc, _ := newTestItineraryService(newScriptedChat())

	_, err := svc.Edit(context.Background(), request_models.EditRequest{
		Itinerary:   json.RawMessage(`[1,2]`),
		UserRequest: "more food",
		OpenAIKey:   testKey,
	})
	require.ErrorIs(t, err, utils.ErrInvalidInput)

	day := 9
	_, err = svc.Edit(context.Background(), request_models.EditRequest{
		Itinerary:   json.RawMessage(parisItinerary()),
		UserRequest: "more food",
		Day:         &day,
		OpenAIKey:   testKey,
	})
	require.ErrorIs(t, err, utils.ErrInvalidInput)
}

func TestEdit_RetriesEmptyResponses(t *testing.T) {
	chat := newScriptedChat(scriptedReply{text: ""})
	svc, _ := newTestItineraryService(chat)

	_, err := svc.Edit(context.Background(), request_models.EditRequest{
		Itinerary:   json.RawMessage(parisItinerary()),
		UserRequest: "more food",
		OpenAIKey:   testKey,
	})
	require.ErrorIs(t, err, utils.ErrEmptyResponse)
	assert.Equal(t, DefaultRetries+1, chat.calls())
}
