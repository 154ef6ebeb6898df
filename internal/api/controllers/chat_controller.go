package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tripplanner/internal/models/request_models"
	"tripplanner/internal/services"
	"tripplanner/pkg/utils"
)

const interruptedNotice = "\n\n[The reply was interrupted. Please try again.]"

type ChatController struct {
	chatService services.ChatServiceInterface
}

func NewChatController(chatService services.ChatServiceInterface) *ChatController {
	return &ChatController{chatService: chatService}
}

// Chat godoc
// @Summary Chat about a trip
// @Description Streams the assistant's reply as plain text. Errors before the first chunk are JSON.
// @Tags Chat
// @Accept json
// @Produce plain
// @Param request body request_models.ChatRequest true "Conversation so far"
// @Success 200 {string} string "streamed reply"
// @Failure 400 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Router /chat [post]
func (ch *ChatController) Chat(c *gin.Context) {
	var req request_models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	started := false
	start := func() {
		if started {
			return
		}
		started = true
		c.Header("Content-Type", "text/plain; charset=utf-8")
		c.Header("Cache-Control", "no-cache")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Status(http.StatusOK)
	}

	err := ch.chatService.Stream(c.Request.Context(), req, func(chunk string) error {
		start()
		if _, err := c.Writer.WriteString(chunk); err != nil {
			return err
		}
		c.Writer.Flush()
		return nil
	})
	if err != nil {
		if !started {
			utils.HandleServiceError(c, err)
			return
		}
		utils.LoggerFrom(c).Warn("chat stream interrupted", zap.Error(err))
		_, _ = c.Writer.WriteString(interruptedNotice)
		return
	}

	start()
	c.Writer.Flush()
}
