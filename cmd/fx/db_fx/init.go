package db_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"tripplanner/internal/infra"
	"tripplanner/internal/models/db_models"
	"tripplanner/internal/repositories"
	"tripplanner/pkg/config"
	mem "tripplanner/pkg/memcache"
)

var Module = fx.Provide(
	provideSavedTripRepo)

// provideSavedTripRepo uses postgres when POSTGRES_URL is set and the
// in-memory store otherwise.
func provideSavedTripRepo(
	lc fx.Lifecycle,
	cfg *config.Config,
	store *mem.Store[db_models.SavedTrip],
	logger *zap.Logger,
) (repositories.SavedTripRepository, error) {
	if !cfg.DatabaseEnabled() {
		logger.Info("POSTGRES_URL not set, saved trips are kept in memory",
			zap.Duration("ttl", cfg.Storage.SavedTripTTL))
		return repositories.NewMemorySavedTripRepository(store), nil
	}

	db, err := infra.InitPostgresql(cfg.Storage.PostgresURL, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			infra.ClosePostgresql(db, logger)
			return nil
		},
	})
	return repositories.NewSavedTripRepository(db), nil
}
