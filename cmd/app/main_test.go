package main

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"tripplanner/cmd/fx/config_fx"
	"tripplanner/cmd/fx/controllers_fx"
	"tripplanner/cmd/fx/db_fx"
	"tripplanner/cmd/fx/itinerary_fx"
	"tripplanner/cmd/fx/llm_fx"
	"tripplanner/cmd/fx/memcache_fx"
	"tripplanner/cmd/fx/trip_fx"
)

func TestAppGraph(t *testing.T) {
	err := fx.ValidateApp(
		config_fx.Module,
		memcache_fx.Module,
		db_fx.Module,
		llm_fx.Module,
		itinerary_fx.Module,
		trip_fx.Module,
		controllers_fx.Module,
		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)
	require.NoError(t, err)
}
