package itinerary_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"tripplanner/internal/services"
	"tripplanner/pkg/config"
	"tripplanner/pkg/utils"
)

var Module = fx.Provide(
	provideItineraryService,
	provideChatService,
	provideKeyService)

func provideItineraryService(
	cfg *config.Config,
	clients utils.LLMClientFactoryInterface,
	orchestrator *services.Orchestrator,
	enrichment services.EnrichmentServiceInterface,
	logger *zap.Logger,
) services.ItineraryServiceInterface {
	return services.NewItineraryService(clients, orchestrator, enrichment, cfg.OpenAI.APIKey, logger.Named("itinerary"))
}

func provideChatService(cfg *config.Config, clients utils.LLMClientFactoryInterface, logger *zap.Logger) services.ChatServiceInterface {
	return services.NewChatService(clients, cfg.OpenAI.APIKey, logger.Named("chat"))
}

func provideKeyService(clients utils.LLMClientFactoryInterface, logger *zap.Logger) services.KeyServiceInterface {
	return services.NewKeyService(clients, logger.Named("keys"))
}
