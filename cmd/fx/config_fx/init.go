package config_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"tripplanner/pkg/config"
	"tripplanner/pkg/logger"
)

var Module = fx.Provide(
	provideConfig,
	provideLogger)

func provideConfig() (*config.Config, error) {
	return config.Load()
}

func provideLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(cfg.Log.Level, cfg.Server.Mode)
}
