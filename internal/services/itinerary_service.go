package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"tripplanner/internal/models/request_models"
	"tripplanner/internal/models/response_models"
	"tripplanner/pkg/utils"
)

const (
	plannerSystemPrompt = "You are an expert travel planner who knows real places, prices and opening hours. You answer with a single valid JSON object and nothing else."
	generateTemperature = 0.7
	editTemperature     = 0.4
	MaxTripDays         = 30
)

type ItineraryServiceInterface interface {
	Generate(ctx context.Context, req request_models.GenerateRequest) (*response_models.GenerateResponse, error)
	Edit(ctx context.Context, req request_models.EditRequest) (*response_models.EditResponse, error)
}

type ItineraryService struct {
	clients      utils.LLMClientFactoryInterface
	orchestrator *Orchestrator
	enrichment   EnrichmentServiceInterface
	envKey       string
	logger       *zap.Logger
	now          func() time.Time
}

func NewItineraryService(
	clients utils.LLMClientFactoryInterface,
	orchestrator *Orchestrator,
	enrichment EnrichmentServiceInterface,
	envKey string,
	logger *zap.Logger,
) ItineraryServiceInterface {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ItineraryService{
		clients:      clients,
		orchestrator: orchestrator,
		enrichment:   enrichment,
		envKey:       envKey,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *ItineraryService) Generate(ctx context.Context, req request_models.GenerateRequest) (*response_models.GenerateResponse, error) {
	destination := strings.TrimSpace(req.Destination)
	if destination == "" {
		return nil, utils.NewInputError("destination", "is required")
	}
	start, ok := utils.ParseDate(req.StartDate)
	if !ok {
		return nil, utils.NewInputError("startDate", "must be a date in YYYY-MM-DD format")
	}
	startDate := start.Format(utils.DateLayout)

	duration := req.Duration
	if duration <= 0 && req.EndDate != "" {
		duration = InferDuration(startDate, req.EndDate)
	}
	if duration <= 0 {
		duration = DefaultDuration
	}
	if duration > MaxTripDays {
		return nil, utils.NewInputError("duration", "must be at most 30 days")
	}

	key, err := utils.ResolveCredential(req.OpenAIKey, s.envKey)
	if err != nil {
		return nil, err
	}

	params := GenerateParams{
		Destination: destination,
		StartDate:   startDate,
		Duration:    duration,
		Travelers:   req.TravelersDescription,
		Budget:      req.BudgetLevel,
		Pace:        req.Pace,
	}

	var enrichment Enrichment
	if s.enrichment != nil {
		enrichment = s.enrichment.Enrich(ctx, s.clients.Search(key), params)
		params.Notes = enrichment.Notes
	}

	client := s.clients.Chat(key)
	result, err := s.orchestrator.Generate(ctx, client,
		utils.CompletionRequest{System: plannerSystemPrompt, Prompt: BuildGeneratePrompt(params), Temperature: generateTemperature},
		utils.CompletionRequest{System: plannerSystemPrompt, Prompt: BuildReinforcedGeneratePrompt(params), Temperature: generateTemperature},
	)
	if err != nil {
		return nil, err
	}

	obj, err := utils.ExtractJSONObject(result.Text)
	if err != nil {
		s.logger.Warn("could not recover itinerary JSON",
			zap.String("destination", destination),
			zap.Int("length", len(result.Text)),
			zap.Error(err))
		return nil, err
	}

	itinerary := NormalizeItinerary(obj, NormalizeOptions{
		Generate:    true,
		Destination: destination,
		StartDate:   startDate,
		Duration:    duration,
		Budget:      req.BudgetLevel,
		Forecast:    enrichment.Forecast,
	})

	s.logger.Info("itinerary generated",
		zap.String("destination", destination),
		zap.Int("days", len(itinerary.Days)),
		zap.Int("attempts", result.Attempts),
		zap.Bool("refined", result.Refined))

	return &response_models.GenerateResponse{
		Itinerary: itinerary,
		Meta: response_models.GenerateMeta{
			Destination: destination,
			StartDate:   startDate,
			EndDate:     ComputeEndDate(startDate, duration),
			Duration:    duration,
			Model:       client.ModelName(),
			Attempts:    result.Attempts,
			Refined:     result.Refined,
			Enrichment:  enrichment.Meta(),
			GeneratedAt: s.now().UTC().Format(time.RFC3339),
		},
	}, nil
}

func (s *ItineraryService) Edit(ctx context.Context, req request_models.EditRequest) (*response_models.EditResponse, error) {
	var raw any
	if err := json.Unmarshal(req.Itinerary, &raw); err != nil {
		return nil, utils.NewInputError("itinerary", "must be a JSON object")
	}
	if _, ok := raw.(map[string]any); !ok {
		return nil, utils.NewInputError("itinerary", "must be a JSON object")
	}
	userRequest := strings.TrimSpace(req.UserRequest)
	if userRequest == "" {
		return nil, utils.NewInputError("userRequest", "is required")
	}

	current := NormalizeItinerary(raw, NormalizeOptions{})
	if req.Day != nil && (*req.Day < 1 || (len(current.Days) > 0 && *req.Day > len(current.Days))) {
		return nil, utils.NewInputError("day", "is outside the itinerary")
	}

	key, err := utils.ResolveCredential(req.OpenAIKey, s.envKey)
	if err != nil {
		return nil, err
	}

	client := s.clients.Chat(key)
	result, err := s.orchestrator.Call(ctx, client, utils.CompletionRequest{
		System:      plannerSystemPrompt,
		Prompt:      BuildEditPrompt(current, userRequest, req.Day),
		Temperature: editTemperature,
	})
	if err != nil {
		return nil, err
	}

	obj, err := utils.ExtractJSONObject(result.Text)
	if err != nil {
		s.logger.Warn("could not recover edited itinerary JSON", zap.Int("length", len(result.Text)), zap.Error(err))
		return nil, err
	}

	return &response_models.EditResponse{
		Itinerary: NormalizeItinerary(obj, NormalizeOptions{Forecast: current.Weather}),
	}, nil
}
