package memcache_fx

import (
	"context"
	"time"

	"go.uber.org/fx"

	"tripplanner/internal/models/db_models"
	"tripplanner/pkg/config"
	mem "tripplanner/pkg/memcache"
)

var Module = fx.Provide(provideSavedTripStore)

const sweepInterval = 10 * time.Minute

func provideSavedTripStore(lc fx.Lifecycle, cfg *config.Config) *mem.Store[db_models.SavedTrip] {
	store := mem.NewStore[db_models.SavedTrip](cfg.Storage.SavedTripTTL)

	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				ticker := time.NewTicker(sweepInterval)
				defer ticker.Stop()
				for {
					select {
					case <-ticker.C:
						store.Sweep()
					case <-done:
						return
					}
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			close(done)
			return nil
		},
	})
	return store
}
