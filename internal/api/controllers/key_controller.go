package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripplanner/internal/models/request_models"
	"tripplanner/internal/models/response_models"
	"tripplanner/internal/services"
	"tripplanner/pkg/utils"
)

type KeyController struct {
	keyService services.KeyServiceInterface
}

func NewKeyController(keyService services.KeyServiceInterface) *KeyController {
	return &KeyController{keyService: keyService}
}

// TestKey godoc
// @Summary Check an OpenAI API key
// @Description Makes one cheap authenticated call. The status mirrors the provider: 401 rejected, 402 no quota, 429 rate limited.
// @Tags Keys
// @Accept json
// @Produce json
// @Param request body request_models.TestKeyRequest true "Key to test"
// @Success 200 {object} response_models.TestKeyResponse
// @Failure 400 {object} response_models.TestKeyResponse
// @Failure 401 {object} response_models.TestKeyResponse
// @Failure 402 {object} response_models.TestKeyResponse
// @Failure 429 {object} response_models.TestKeyResponse
// @Router /test-key [post]
func (k *KeyController) TestKey(c *gin.Context) {
	var req request_models.TestKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondJSON(c, http.StatusBadRequest, response_models.TestKeyResponse{
			Success: false,
			Message: "Invalid request format",
		})
		return
	}

	result := k.keyService.TestKey(c.Request.Context(), req.APIKey)
	utils.RespondJSON(c, result.Status, result.Response)
}
