package routes

import (
	"github.com/gin-gonic/gin"

	"tripplanner/internal/api/controllers"
	"tripplanner/pkg/middleware"
)

// Controllers groups every handler the router mounts.
type Controllers struct {
	Itinerary *controllers.ItineraryController
	Key       *controllers.KeyController
	Chat      *controllers.ChatController
	Trip      *controllers.TripController
	Health    *controllers.HealthController
}

// RegisterRoutes mounts the API. Model-backed endpoints share the per-IP
// limiter; generate, edit and trip responses are never cached.
func RegisterRoutes(r *gin.Engine, ctrl Controllers, rateLimitPerMinute int64) {
	r.GET("/health", ctrl.Health.Health)

	llm := r.Group("/", middleware.RateLimit(rateLimitPerMinute))
	llm.POST("/test-key", ctrl.Key.TestKey)
	llm.POST("/chat", ctrl.Chat.Chat)

	planning := llm.Group("/", middleware.NoStore())
	planning.POST("/generate", ctrl.Itinerary.Generate)
	planning.POST("/edit", ctrl.Itinerary.Edit)
	planning.POST("/trip", ctrl.Trip.PlanTrip)

	trips := r.Group("/trips")
	trips.POST("", ctrl.Trip.SaveTrip)
	trips.GET("", ctrl.Trip.ListTrips)
	trips.GET("/:id", ctrl.Trip.GetTrip)
	trips.DELETE("/:id", ctrl.Trip.DeleteTrip)
}
