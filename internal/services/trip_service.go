package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"tripplanner/internal/models/request_models"
	"tripplanner/internal/models/response_models"
	"tripplanner/pkg/utils"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// TripServiceInterface serves the legacy /trip endpoint, an interests-driven
// planner that predates /generate.
type TripServiceInterface interface {
	PlanTrip(ctx context.Context, req request_models.TripRequest) (*response_models.TripResponse, error)
}

type TripService struct {
	clients      utils.LLMClientFactoryInterface
	gemini       utils.ChatClientInterface
	orchestrator *Orchestrator
	envKey       string
	logger       *zap.Logger
}

// NewTripService uses gemini for every request when it is non-nil, and the
// OpenAI client factory otherwise.
func NewTripService(
	clients utils.LLMClientFactoryInterface,
	gemini utils.ChatClientInterface,
	orchestrator *Orchestrator,
	envKey string,
	logger *zap.Logger,
) TripServiceInterface {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TripService{
		clients:      clients,
		gemini:       gemini,
		orchestrator: orchestrator,
		envKey:       envKey,
		logger:       logger,
	}
}

func (s *TripService) PlanTrip(ctx context.Context, req request_models.TripRequest) (*response_models.TripResponse, error) {
	destination := strings.TrimSpace(req.Destination)
	if destination == "" {
		return nil, utils.NewInputError("destination", "is required")
	}
	start, ok := utils.ParseDate(req.StartDate)
	if !ok {
		return nil, utils.NewInputError("startDate", "must be a date in YYYY-MM-DD format")
	}
	startDate := start.Format(utils.DateLayout)

	duration := DefaultDuration
	if req.EndDate != "" {
		duration = InferDuration(startDate, req.EndDate)
	}
	if duration > MaxTripDays {
		return nil, utils.NewInputError("endDate", "trip must be at most 30 days")
	}
	endDate := ComputeEndDate(startDate, duration)

	client, err := s.chatClient(req.OpenAIKey)
	if err != nil {
		return nil, err
	}

	interests := make([]string, 0, len(req.Interests))
	for _, i := range req.Interests {
		if i = strings.TrimSpace(i); i != "" {
			interests = append(interests, i)
		}
	}

	result, err := s.orchestrator.Call(ctx, client, utils.CompletionRequest{
		System: plannerSystemPrompt,
		Prompt: BuildTripPrompt(TripParams{
			Destination: destination,
			StartDate:   startDate,
			EndDate:     endDate,
			Duration:    duration,
			Travelers:   req.Travelers,
			Budget:      req.Budget,
			Interests:   interests,
		}),
		Temperature: generateTemperature,
	})
	if err != nil {
		return nil, err
	}

	obj, err := utils.ExtractJSONObject(result.Text)
	if err != nil {
		s.logger.Warn("could not recover trip JSON", zap.String("model", client.ModelName()), zap.Error(err))
		return nil, err
	}

	return &response_models.TripResponse{
		Destination: destination,
		StartDate:   startDate,
		EndDate:     endDate,
		Duration:    duration,
		Interests:   interests,
		Itinerary: NormalizeItinerary(obj, NormalizeOptions{
			Generate:    true,
			Destination: destination,
			StartDate:   startDate,
			Duration:    duration,
			Budget:      req.Budget,
		}),
	}, nil
}

func (s *TripService) chatClient(requestKey string) (utils.ChatClientInterface, error) {
	if s.gemini != nil {
		return s.gemini, nil
	}
	key, err := utils.ResolveCredential(requestKey, s.envKey)
	if err != nil {
		return nil, err
	}
	return s.clients.Chat(key), nil
}
