package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	Details string      `json:"details,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

const ParseFailureMessage = "The AI response could not be read. Please try again, or simplify your request."

// RespondJSON writes body as-is. Itinerary endpoints keep the shape the UI
// already consumes, so only errors use the envelope.
func RespondJSON(c *gin.Context, code int, body interface{}) {
	c.JSON(code, body)
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	RespondErrorDetails(c, code, message, "")
}

func RespondErrorDetails(c *gin.Context, code int, message, details string) {
	c.AbortWithStatusJSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		Details: details,
		TraceID: c.GetString("trace_id"),
	})
}

// HandleServiceError maps a service error onto a status code. Messages are
// passed through verbatim, except JSON recovery failures, which get a
// friendlier instruction with the parser error in details.
func HandleServiceError(c *gin.Context, err error) {
	logger := LoggerFrom(c)

	var providerErr *ProviderError
	var malformed *MalformedJSONError

	switch {
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrMissingCredential),
		errors.Is(err, ErrInvalidCredential):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrCredentialRejected):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrRateLimited):
		RespondError(c, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, ErrTripNotFound):
		RespondError(c, http.StatusNotFound, err.Error())
	case errors.As(err, &malformed):
		logger.Warn("model output could not be repaired", zap.Error(err))
		RespondErrorDetails(c, http.StatusInternalServerError, ParseFailureMessage, malformed.Cause.Error())
	case errors.Is(err, ErrNoJSONFound):
		logger.Warn("model output contained no JSON", zap.Error(err))
		RespondErrorDetails(c, http.StatusInternalServerError, ParseFailureMessage, err.Error())
	case errors.Is(err, ErrDatabaseError):
		logger.Error("database error", zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	case errors.As(err, &providerErr) && providerErr.StatusCode >= 400:
		logger.Warn("provider error", zap.Int("status", providerErr.StatusCode), zap.Error(err))
		RespondError(c, providerErr.StatusCode, err.Error())
	default:
		logger.Error("request failed", zap.Error(err))
		RespondError(c, http.StatusInternalServerError, err.Error())
	}
}

// LoggerFrom returns the request-scoped logger set by the logging middleware.
func LoggerFrom(c *gin.Context) *zap.Logger {
	if v, ok := c.Get("logger"); ok {
		if l, ok := v.(*zap.Logger); ok {
			return l
		}
	}
	return zap.NewNop()
}
