package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripplanner/internal/models/request_models"
	"tripplanner/pkg/utils"
)

func kyotoRequest() request_models.TripRequest {
	return request_models.TripRequest{
		Destination: "Kyoto",
		StartDate:   "2025-10-01",
		EndDate:     "2025-10-04",
		Travelers:   "couple",
		Budget:      "luxury",
		Interests:   []string{"temples", " ", "food"},
		OpenAIKey:   testKey,
	}
}

func TestPlanTrip_OpenAI(t *testing.T) {
	chat := newScriptedChat(scriptedReply{text: "Here you go:\n```json\n" + `{"days":[{"activities":["Fushimi Inari"]},{}]}` + "\n```"})
	factory := &fakeFactory{chat: chat}
	svc := NewTripService(factory, nil, testOrchestrator(DefaultRetries), "", nil)

	resp, err := svc.PlanTrip(context.Background(), kyotoRequest())
	require.NoError(t, err)

	assert.Equal(t, 4, resp.Duration)
	assert.Equal(t, "2025-10-04", resp.EndDate)
	assert.Equal(t, []string{"temples", "food"}, resp.Interests)
	require.Len(t, resp.Itinerary.Days, 2)
	assert.Equal(t, "2025-10-01", resp.Itinerary.Days[1].Date)
	assert.Equal(t, "4-Day Trip to Kyoto", resp.Itinerary.Overview.Title)
	assert.Contains(t, chat.requests[0].Prompt, "Interests: temples, food.")
	assert.Equal(t, []string{testKey}, factory.keys)
}

func TestPlanTrip_Gemini(t *testing.T) {
	gemini := newScriptedChat(scriptedReply{text: `{"days":[]}`})
	factory := &fakeFactory{chat: newScriptedChat()}
	svc := NewTripService(factory, gemini, testOrchestrator(DefaultRetries), "", nil)

	req := kyotoRequest()
	req.OpenAIKey = ""
	req.EndDate = ""

	resp, err := svc.PlanTrip(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, DefaultDuration, resp.Duration)
	assert.Equal(t, "2025-10-07", resp.EndDate)
	assert.Equal(t, 1, gemini.calls())
	assert.Empty(t, factory.keys)
}

func TestPlanTrip_InvalidCredential(t *testing.T) {
	chat := newScriptedChat()
	svc := NewTripService(&fakeFactory{chat: chat}, nil, testOrchestrator(DefaultRetries), "", nil)

	req := kyotoRequest()
	req.OpenAIKey = "abc"

	_, err := svc.PlanTrip(context.Background(), req)
	require.ErrorIs(t, err, utils.ErrInvalidCredential)
	assert.Zero(t, chat.calls())
}
