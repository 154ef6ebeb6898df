package trip_fx

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"tripplanner/internal/repositories"
	"tripplanner/internal/services"
	"tripplanner/pkg/config"
	"tripplanner/pkg/utils"
)

var Module = fx.Provide(provideTripService, provideSavedTripService)

func provideTripService(
	lc fx.Lifecycle,
	cfg *config.Config,
	clients utils.LLMClientFactoryInterface,
	orchestrator *services.Orchestrator,
	logger *zap.Logger,
) (services.TripServiceInterface, error) {
	var gemini utils.ChatClientInterface

	if cfg.LLM.TripProvider == services.ProviderGemini {
		if cfg.Gemini.APIKey == "" {
			return nil, errors.New("GEMINI_API_KEY is required when TRIP_PROVIDER=gemini")
		}
		client, err := utils.NewGeminiChatClient(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.LLM.Timeout)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error { return client.Close() },
		})
		gemini = client
		logger.Info("Legacy /trip uses Gemini", zap.String("model", cfg.Gemini.Model))
	}

	return services.NewTripService(clients, gemini, orchestrator, cfg.OpenAI.APIKey, logger.Named("trip")), nil
}

func provideSavedTripService(repo repositories.SavedTripRepository, logger *zap.Logger) services.SavedTripServiceInterface {
	return services.NewSavedTripService(repo, logger.Named("saved_trips"))
}
