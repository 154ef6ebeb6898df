package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"tripplanner/cmd/fx/config_fx"
	"tripplanner/cmd/fx/controllers_fx"
	"tripplanner/cmd/fx/db_fx"
	"tripplanner/cmd/fx/itinerary_fx"
	"tripplanner/cmd/fx/llm_fx"
	"tripplanner/cmd/fx/memcache_fx"
	"tripplanner/cmd/fx/trip_fx"
	"tripplanner/internal/api/routes"
	"tripplanner/pkg/config"
	"tripplanner/pkg/middleware"
	"tripplanner/pkg/utils"
)

// @title Trip Planner API
// @version 1.0
// @BasePath /
func main() {
	app := fx.New(
		config_fx.Module,
		memcache_fx.Module,
		db_fx.Module,
		llm_fx.Module,
		itinerary_fx.Module,
		trip_fx.Module,
		controllers_fx.Module,

		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

const shutdownTimeout = 10 * time.Second

func StartServer(lc fx.Lifecycle, cfg *config.Config, engine *gin.Engine, logger *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal("Failed to start server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

func ProvideRouter(cfg *config.Config, ctrl routes.Controllers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	utils.RegisterValidators()

	r := gin.New()
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORSMiddleware(cfg.Server.CORSOrigins))

	routes.RegisterRoutes(r, ctrl, cfg.Server.RateLimitPerMinute)

	return r
}
