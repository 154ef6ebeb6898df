package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tripplanner/internal/api/controllers"
	"tripplanner/internal/models/db_models"
	"tripplanner/internal/repositories"
	"tripplanner/internal/services"
	mem "tripplanner/pkg/memcache"
	"tripplanner/pkg/middleware"
	"tripplanner/pkg/utils"
)

const testKey = "sk-test-0123456789abcdef"

type stubChat struct {
	mu    sync.Mutex
	reply string
	err   error
	calls int
}

func (s *stubChat) Complete(context.Context, utils.CompletionRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.reply, s.err
}

func (s *stubChat) ModelName() string { return "stub-model" }

type stubStreamer struct {
	chunks []string
	err    error
}

func (s stubStreamer) Stream(_ context.Context, _ string, _ []utils.ChatTurn, emit func(string) error) error {
	for _, c := range s.chunks {
		if err := emit(c); err != nil {
			return err
		}
	}
	return s.err
}

type stubVerifier struct{ err error }

func (s stubVerifier) VerifyKey(context.Context) error { return s.err }

type stubFactory struct {
	chat     *stubChat
	streamer stubStreamer
	verifier stubVerifier
}

func (f *stubFactory) Chat(string) utils.ChatClientInterface { return f.chat }
func (f *stubFactory) Streamer(string) utils.StreamClientInterface { return f.streamer }
func (f *stubFactory) Verifier(string) utils.KeyVerifierInterface { return f.verifier }
func (f *stubFactory) Search(string) utils.SearchClientInterface { return nil }

func init() {
	gin.SetMode(gin.TestMode)
	utils.RegisterValidators()
}

func newTestRouter(factory *stubFactory) *gin.Engine {
	logger := zap.NewNop()
	orchestrator := services.NewOrchestrator(services.RetryPolicy{Retries: 2, Backoff: time.Millisecond}, logger)
	savedTrips := services.NewSavedTripService(
		repositories.NewMemorySavedTripRepository(mem.NewStore[db_models.SavedTrip](time.Hour)), logger)

	r := gin.New()
	r.Use(middleware.TraceIDMiddleware(), middleware.RequestLogger(logger))
	RegisterRoutes(r, Controllers{
		Itinerary: controllers.NewItineraryController(services.NewItineraryService(factory, orchestrator, nil, "", logger)),
		Key:       controllers.NewKeyController(services.NewKeyService(factory, logger)),
		Chat:      controllers.NewChatController(services.NewChatService(factory, "", logger)),
		Trip: controllers.NewTripController(
			services.NewTripService(factory, nil, orchestrator, "", logger),
			savedTrips,
		),
		Health: controllers.NewHealthController(),
	}, 0)
	return r
}

func postJSON(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func parisStubItinerary() string {
	days := make([]string, 0, 3)
	for i, place := range []string{"Musee du Louvre, Rue de Rivoli", "Musee d'Orsay, Rue de la Legion d'Honneur", "Sainte-Chapelle, Boulevard du Palais"} {
		days = append(days, `{"day":`+string(rune('1'+i))+`,"activities":[{"time":"10:00","activity":"`+place+`","cost":"EUR 20","note":"`+strings.Repeat("Book tickets online. ", 15)+`"}]}`)
	}
	return "```json\n{\"overview\":{\"title\":\"Paris\"},\"days\":[" + strings.Join(days, ",") + "],\"tips\":[\"Walk a lot\"],}\n```"
}

func parisBody() map[string]any {
	return map[string]any{
		"destination":          "Paris",
		"startDate":            "2025-06-01",
		"duration":             3,
		"travelersDescription": "2 adults",
		"budgetLevel":          "mid",
		"pace":                 "balanced",
		"openaiKey":            testKey,
	}
}

func TestGenerate_HappyPath(t *testing.T) {
	factory := &stubFactory{chat: &stubChat{reply: parisStubItinerary()}}
	r := newTestRouter(factory)

	w := postJSON(r, "/generate", parisBody())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "no-store, no-cache, must-revalidate", w.Header().Get("Cache-Control"))

	var resp struct {
		Itinerary struct {
			Days []struct {
				Day        int               `json:"day"`
				Date       string            `json:"date"`
				Activities []json.RawMessage `json:"activities"`
			} `json:"days"`
			Tips []string `json:"tips"`
		} `json:"itinerary"`
		Meta struct {
			EndDate  string `json:"endDate"`
			Attempts int    `json:"attempts"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Itinerary.Days, 3)
	assert.Equal(t, "2025-06-03", resp.Meta.EndDate)
	assert.Equal(t, "2025-06-01", resp.Itinerary.Days[1].Date)
	assert.Equal(t, 1, factory.chat.calls)
}

func TestGenerate_InvalidCredential(t *testing.T) {
	factory := &stubFactory{chat: &stubChat{reply: parisStubItinerary()}}
	r := newTestRouter(factory)

	body := parisBody()
	body["openaiKey"] = "abc"
	w := postJSON(r, "/generate", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid API key format")
	assert.Zero(t, factory.chat.calls)
}

func TestGenerate_BindingErrors(t *testing.T) {
	r := newTestRouter(&stubFactory{chat: &stubChat{}})

	body := parisBody()
	body["startDate"] = "June first"
	w := postJSON(r, "/generate", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "startDate must be a date in YYYY-MM-DD format")

	body = parisBody()
	delete(body, "destination")
	w = postJSON(r, "/generate", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "destination is required")
}

func TestGenerate_UnrecoverableOutput(t *testing.T) {
	factory := &stubFactory{chat: &stubChat{reply: `{"overview": {"title": "Paris" "days": [}`}}
	r := newTestRouter(factory)

	w := postJSON(r, "/generate", parisBody())

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var env utils.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Contains(t, env.Message, "try again")
	assert.NotEmpty(t, env.Details)
	assert.NotEmpty(t, env.TraceID)
}

func TestGenerate_TruncatedOutput(t *testing.T) {
	factory := &stubFactory{chat: &stubChat{reply: `{"overview":{},"days":[{"day":1,"activities":[`}}
	r := newTestRouter(factory)

	w := postJSON(r, "/generate", parisBody())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"days":[]`)
}

func TestGenerate_ProviderErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"rejected key", utils.NewProviderError(401, "Incorrect API key provided", errors.New("401")), http.StatusBadRequest},
		{"quota", utils.NewProviderError(429, "You exceeded your current quota", errors.New("429")), http.StatusTooManyRequests},
		{"other", utils.NewProviderError(400, "context_length_exceeded", errors.New("400")), http.StatusBadRequest},
		{"network", errors.New("dial tcp: connection refused"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(&stubFactory{chat: &stubChat{err: tc.err}})

			w := postJSON(r, "/generate", parisBody())

			assert.Equal(t, tc.status, w.Code, w.Body.String())
		})
	}
}

func TestEdit(t *testing.T) {
	factory := &stubFactory{chat: &stubChat{reply: `{"days":[{"day":1,"activities":[{"title":"Picnic at Parc des Buttes-Chaumont"}]}],"tips":[]}`}}
	r := newTestRouter(factory)

	w := postJSON(r, "/edit", map[string]any{
		"itinerary":   map[string]any{"days": []any{map[string]any{"day": 1, "activities": []any{}}}},
		"userRequest": "Add a picnic",
		"day":         1,
		"openaiKey":   testKey,
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "no-store, no-cache, must-revalidate", w.Header().Get("Cache-Control"))
	assert.Contains(t, w.Body.String(), `"activity":"Picnic at Parc des Buttes-Chaumont"`)
}

func TestTestKey(t *testing.T) {
	r := newTestRouter(&stubFactory{verifier: stubVerifier{err: utils.NewProviderError(401, "Incorrect API key provided", errors.New("401"))}})

	w := postJSON(r, "/test-key", map[string]any{"apiKey": testKey})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Invalid API key"}`, w.Body.String())

	w = postJSON(r, "/test-key", map[string]any{"apiKey": "abc"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChat_Streams(t *testing.T) {
	r := newTestRouter(&stubFactory{streamer: stubStreamer{chunks: []string{"Try ", "the ", "Marais."}}})

	w := postJSON(r, "/chat", map[string]any{
		"messages":  []any{map[string]any{"role": "user", "content": "Where for dinner?"}},
		"openaiKey": testKey,
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Try the Marais.", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}

func TestChat_FailsBeforeFirstChunk(t *testing.T) {
	r := newTestRouter(&stubFactory{streamer: stubStreamer{err: errors.New("upstream closed")}})

	w := postJSON(r, "/chat", map[string]any{
		"messages":  []any{map[string]any{"role": "user", "content": "hi"}},
		"openaiKey": testKey,
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "upstream closed")
}

func TestChat_InterruptedMidStream(t *testing.T) {
	r := newTestRouter(&stubFactory{streamer: stubStreamer{chunks: []string{"Start"}, err: errors.New("reset")}})

	w := postJSON(r, "/chat", map[string]any{
		"messages":  []any{map[string]any{"role": "user", "content": "hi"}},
		"openaiKey": testKey,
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "Start"))
	assert.Contains(t, w.Body.String(), "interrupted")
}

func TestTrip_Legacy(t *testing.T) {
	r := newTestRouter(&stubFactory{chat: &stubChat{reply: `{"days":[{"activities":["Gion walk"]}]}`}})

	w := postJSON(r, "/trip", map[string]any{
		"destination": "Kyoto",
		"startDate":   "2025-10-01",
		"endDate":     "2025-10-02",
		"interests":   []string{"temples"},
		"openaiKey":   testKey,
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"duration":2`)
	assert.Contains(t, w.Body.String(), `"activity":"Gion walk"`)
}

func TestSavedTrips(t *testing.T) {
	r := newTestRouter(&stubFactory{})

	w := postJSON(r, "/trips", map[string]any{
		"destination": "Paris",
		"startDate":   "2025-06-01",
		"duration":    3,
		"itinerary":   map[string]any{"days": []any{}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var saved struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))

	get := httptest.NewRecorder()
	r.ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/trips/"+saved.ID, nil))
	assert.Equal(t, http.StatusOK, get.Code)

	list := httptest.NewRecorder()
	r.ServeHTTP(list, httptest.NewRequest(http.MethodGet, "/trips", nil))
	assert.Equal(t, http.StatusOK, list.Code)
	assert.Contains(t, list.Body.String(), saved.ID)

	del := httptest.NewRecorder()
	r.ServeHTTP(del, httptest.NewRequest(http.MethodDelete, "/trips/"+saved.ID, nil))
	assert.Equal(t, http.StatusNoContent, del.Code)

	missing := httptest.NewRecorder()
	r.ServeHTTP(missing, httptest.NewRequest(http.MethodGet, "/trips/"+saved.ID, nil))
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestHealth(t *testing.T) {
	r := newTestRouter(&stubFactory{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
