package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripplanner/internal/models/request_models"
	"tripplanner/internal/services"
	"tripplanner/pkg/utils"
)

type ItineraryController struct {
	itineraryService services.ItineraryServiceInterface
}

func NewItineraryController(itineraryService services.ItineraryServiceInterface) *ItineraryController {
	return &ItineraryController{
		itineraryService: itineraryService,
	}
}

// Generate godoc
// @Summary Generate an itinerary
// @Description Ask the model for a day-by-day itinerary. duration wins over endDate; with neither the trip is 7 days.
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param request body request_models.GenerateRequest true "Trip parameters"
// @Success 200 {object} response_models.GenerateResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 429 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Router /generate [post]
func (i *ItineraryController) Generate(c *gin.Context) {
	var req request_models.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	resp, err := i.itineraryService.Generate(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, resp)
}

// Edit godoc
// @Summary Edit an itinerary
// @Description Apply a free-text change to an existing itinerary, optionally limited to one day
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param request body request_models.EditRequest true "Itinerary and requested change"
// @Success 200 {object} response_models.EditResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 429 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Router /edit [post]
func (i *ItineraryController) Edit(c *gin.Context) {
	var req request_models.EditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	resp, err := i.itineraryService.Edit(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, resp)
}
