// cmd/fx/llm_fx/init.go
package llm_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"tripplanner/internal/services"
	"tripplanner/pkg/config"
	"tripplanner/pkg/utils"
	"tripplanner/pkg/weather"
)

var Module = fx.Provide(
	ProvideClientFactory,
	ProvideOrchestrator,
	ProvideForecaster,
	ProvideEnrichmentService)

// ProvideClientFactory builds OpenAI clients per request. The key is never
// fixed here; services resolve it from the request or the environment.
func ProvideClientFactory(cfg *config.Config, logger *zap.Logger) utils.LLMClientFactoryInterface {
	logger.Info("Initializing OpenAI client factory",
		zap.String("model", cfg.OpenAI.Model),
		zap.String("search_model", cfg.OpenAI.SearchModel),
		zap.Bool("server_key", cfg.OpenAI.APIKey != ""))

	return utils.NewOpenAIClientFactory(utils.OpenAIConfig{
		BaseURL:     cfg.OpenAI.BaseURL,
		Model:       cfg.OpenAI.Model,
		SearchModel: cfg.OpenAI.SearchModel,
		Timeout:     cfg.LLM.Timeout,
	})
}

func ProvideOrchestrator(cfg *config.Config, logger *zap.Logger) *services.Orchestrator {
	return services.NewOrchestrator(services.RetryPolicy{
		Retries: cfg.LLM.Retries,
		Backoff: cfg.LLM.RetryBackoff,
	}, logger.Named("orchestrator"))
}

func ProvideForecaster(cfg *config.Config) weather.ForecasterInterface {
	return weather.NewOpenMeteoClient(weather.Config{
		GeocodeURL:  cfg.Enrichment.WeatherGeocodeURL,
		ForecastURL: cfg.Enrichment.WeatherForecastURL,
		Timeout:     cfg.Enrichment.Timeout,
	})
}

func ProvideEnrichmentService(cfg *config.Config, forecaster weather.ForecasterInterface, logger *zap.Logger) services.EnrichmentServiceInterface {
	return services.NewEnrichmentService(forecaster, services.EnrichmentConfig{
		Timeout:        cfg.Enrichment.Timeout,
		SearchEnabled:  cfg.Enrichment.SearchEnabled,
		WeatherEnabled: cfg.Enrichment.WeatherEnabled,
	}, logger.Named("enrichment"))
}
