package controllers_fx

import (
	"go.uber.org/fx"

	"tripplanner/internal/api/controllers"
	"tripplanner/internal/api/routes"
)

var Module = fx.Options(
	fx.Provide(controllers.NewItineraryController),
	fx.Provide(controllers.NewKeyController),
	fx.Provide(controllers.NewChatController),
	fx.Provide(controllers.NewTripController),
	fx.Provide(controllers.NewHealthController),
	fx.Provide(provideControllers))

func provideControllers(
	itinerary *controllers.ItineraryController,
	key *controllers.KeyController,
	chat *controllers.ChatController,
	trip *controllers.TripController,
	health *controllers.HealthController,
) routes.Controllers {
	return routes.Controllers{
		Itinerary: itinerary,
		Key:       key,
		Chat:      chat,
		Trip:      trip,
		Health:    health,
	}
}
