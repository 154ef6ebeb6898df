package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tripplanner/internal/models/request_models"
	"tripplanner/internal/services"
	"tripplanner/pkg/utils"
)

type TripController struct {
	tripService      services.TripServiceInterface
	savedTripService services.SavedTripServiceInterface
}

func NewTripController(
	tripService services.TripServiceInterface,
	savedTripService services.SavedTripServiceInterface,
) *TripController {
	return &TripController{
		tripService:      tripService,
		savedTripService: savedTripService,
	}
}

// PlanTrip godoc
// @Summary Plan a trip from interests
// @Description Legacy planner driven by a date range and a list of interests
// @Tags Trips
// @Accept json
// @Produce json
// @Param request body request_models.TripRequest true "Trip form"
// @Success 200 {object} response_models.TripResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Router /trip [post]
func (t *TripController) PlanTrip(c *gin.Context) {
	var req request_models.TripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	resp, err := t.tripService.PlanTrip(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, resp)
}

// SaveTrip godoc
// @Summary Save a generated trip
// @Tags Trips
// @Accept json
// @Produce json
// @Param request body request_models.SaveTripRequest true "Trip to save"
// @Success 201 {object} response_models.SavedTripResponse
// @Failure 400 {object} utils.APIResponse
// @Router /trips [post]
func (t *TripController) SaveTrip(c *gin.Context) {
	var req request_models.SaveTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	saved, err := t.savedTripService.Save(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, saved)
}

// ListTrips godoc
// @Summary List saved trips
// @Tags Trips
// @Produce json
// @Param limit query int false "Maximum number of trips" default(50)
// @Success 200 {array} response_models.SavedTripResponse
// @Router /trips [get]
func (t *TripController) ListTrips(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid limit")
		return
	}

	trips, err := t.savedTripService.List(c.Request.Context(), limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, trips)
}

// GetTrip godoc
// @Summary Get a saved trip
// @Tags Trips
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} response_models.SavedTripResponse
// @Failure 404 {object} utils.APIResponse
// @Router /trips/{id} [get]
func (t *TripController) GetTrip(c *gin.Context) {
	trip, err := t.savedTripService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, trip)
}

// DeleteTrip godoc
// @Summary Delete a saved trip
// @Tags Trips
// @Param id path string true "Trip ID"
// @Success 204
// @Failure 404 {object} utils.APIResponse
// @Router /trips/{id} [delete]
func (t *TripController) DeleteTrip(c *gin.Context) {
	if err := t.savedTripService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
