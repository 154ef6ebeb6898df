package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"tripplanner/internal/models/response_models"
	"tripplanner/pkg/utils"
)

// KeyCheckResult is the outcome of probing a key: the HTTP status to answer
// with and the body to send.
type KeyCheckResult struct {
	Status   int
	Response response_models.TestKeyResponse
}

type KeyServiceInterface interface {
	TestKey(ctx context.Context, apiKey string) KeyCheckResult
}

type KeyService struct {
	clients utils.LLMClientFactoryInterface
	logger  *zap.Logger
}

func NewKeyService(clients utils.LLMClientFactoryInterface, logger *zap.Logger) KeyServiceInterface {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KeyService{clients: clients, logger: logger}
}

func (s *KeyService) TestKey(ctx context.Context, apiKey string) KeyCheckResult {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return keyResult(http.StatusBadRequest, false, "API key is required")
	}
	if err := utils.ValidateCredentialFormat(apiKey); err != nil {
		return keyResult(http.StatusBadRequest, false, "Invalid API key format. OpenAI keys start with \"sk\".")
	}

	err := s.clients.Verifier(apiKey).VerifyKey(ctx)
	if err == nil {
		return keyResult(http.StatusOK, true, "API key is valid")
	}

	s.logger.Info("API key check failed", zap.String("key", utils.MaskCredential(apiKey)), zap.Error(err))

	var pe *utils.ProviderError
	isProvider := errors.As(err, &pe)
	lower := strings.ToLower(err.Error())

	switch {
	case errors.Is(err, utils.ErrCredentialRejected):
		return keyResult(http.StatusUnauthorized, false, "Invalid API key")
	case isProvider && pe.StatusCode == http.StatusPaymentRequired,
		strings.Contains(lower, "insufficient_quota"), strings.Contains(lower, "billing"),
		strings.Contains(lower, "quota"):
		return keyResult(http.StatusPaymentRequired, false, "API key has no remaining quota. Check your billing details.")
	case errors.Is(err, utils.ErrRateLimited):
		return keyResult(http.StatusTooManyRequests, false, "Rate limit reached. Try again in a moment.")
	case isProvider && pe.StatusCode >= 400:
		return keyResult(pe.StatusCode, false, pe.Message)
	default:
		return keyResult(http.StatusInternalServerError, false, err.Error())
	}
}

func keyResult(status int, ok bool, message string) KeyCheckResult {
	return KeyCheckResult{
		Status:   status,
		Response: response_models.TestKeyResponse{Success: ok, Message: message},
	}
}
