package utils

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrMissingCredential  = errors.New("an OpenAI API key is required")
	ErrInvalidCredential  = errors.New("invalid API key format")
	ErrCredentialRejected = errors.New("API key was rejected by the provider")
	ErrEmptyResponse      = errors.New("the model returned an empty response")
	ErrNoJSONFound        = errors.New("no JSON object found in model response")
	ErrMalformedJSON      = errors.New("model response is not valid JSON")
	ErrRateLimited        = errors.New("rate limit or quota exceeded")
	ErrTripNotFound       = errors.New("trip not found")
	ErrDatabaseError      = errors.New("database error")
)

// MalformedJSONError is returned when every repair heuristic failed.
// Cause is the error of the last strict parse.
type MalformedJSONError struct {
	Cause error
}

func (e *MalformedJSONError) Error() string {
	return fmt.Sprintf("%s: %v", ErrMalformedJSON.Error(), e.Cause)
}

func (e *MalformedJSONError) Unwrap() error { return e.Cause }

func (e *MalformedJSONError) Is(target error) bool { return target == ErrMalformedJSON }

// ProviderError carries a failure reported by the LLM provider.
type ProviderError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider error (status %d): %s", e.StatusCode, e.Message)
	}
	return "provider error: " + e.Message
}

func (e *ProviderError) Unwrap() error { return e.Err }

// InputError names the offending request field.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *InputError) Is(target error) bool { return target == ErrInvalidInput }

func NewInputError(field, reason string) error {
	return &InputError{Field: field, Reason: reason}
}
