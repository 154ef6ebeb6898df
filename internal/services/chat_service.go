package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"tripplanner/internal/models/request_models"
	"tripplanner/pkg/utils"
)

type ChatServiceInterface interface {
	// Stream sends the conversation to the model and calls emit for every
	// chunk of the reply, in order.
	Stream(ctx context.Context, req request_models.ChatRequest, emit func(chunk string) error) error
}

type ChatService struct {
	clients utils.LLMClientFactoryInterface
	envKey  string
	logger  *zap.Logger
}

func NewChatService(clients utils.LLMClientFactoryInterface, envKey string, logger *zap.Logger) ChatServiceInterface {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{clients: clients, envKey: envKey, logger: logger}
}

func (s *ChatService) Stream(ctx context.Context, req request_models.ChatRequest, emit func(chunk string) error) error {
	turns := make([]utils.ChatTurn, 0, len(req.Messages))
	for _, m := range req.Messages {
		content := strings.TrimSpace(m.Content)
		if content == "" {
			continue
		}
		turns = append(turns, utils.ChatTurn{Role: m.Role, Content: content})
	}
	if len(turns) == 0 {
		return utils.NewInputError("messages", "must contain at least one non-empty message")
	}

	key, err := utils.ResolveCredential(req.OpenAIKey, s.envKey)
	if err != nil {
		return err
	}

	chunks := 0
	err = s.clients.Streamer(key).Stream(ctx, BuildChatSystemPrompt(req.TripData, req.Context), turns, func(chunk string) error {
		chunks++
		return emit(chunk)
	})
	if err != nil {
		s.logger.Warn("chat stream failed", zap.Int("chunks", chunks), zap.Error(err))
		return err
	}
	return nil
}
