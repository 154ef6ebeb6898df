package utils

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GeminiChatClient implements ChatClientInterface on Google's Gemini models.
// It serves the legacy /trip path when TRIP_PROVIDER=gemini.
type GeminiChatClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewGeminiChatClient(ctx context.Context, apiKey, model string, timeout time.Duration) (*GeminiChatClient, error) {
	if model == "" {
		model = "gemini-1.5-flash"
	}
	if timeout <= 0 {
		timeout = 90 * time.Second
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiChatClient{
		client:  client,
		model:   model,
		timeout: timeout,
	}, nil
}

func (c *GeminiChatClient) ModelName() string { return c.model }

func (c *GeminiChatClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	m := c.generativeModel(req)

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := m.GenerateContent(callCtx, genai.Text(req.Prompt))
	if err != nil {
		if ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return "", &ProviderError{Message: "request to the model timed out", Err: err}
		}
		return "", classifyGeminiError(err)
	}

	return geminiText(resp), nil
}

// generativeModel configures the model for one request. Every caller wants
// an itinerary document, so the response is always requested as JSON.
func (c *GeminiChatClient) generativeModel(req CompletionRequest) *genai.GenerativeModel {
	m := c.client.GenerativeModel(c.model)
	m.ResponseMIMEType = "application/json"
	if req.System != "" {
		m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}
	if req.Temperature > 0 {
		m.SetTemperature(req.Temperature)
	}
	if req.MaxTokens > 0 {
		m.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	return m
}

// Close releases the underlying connection.
func (c *GeminiChatClient) Close() error {
	return c.client.Close()
}

func geminiText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
		break
	}
	return strings.TrimSpace(b.String())
}

func classifyGeminiError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		status := gErr.Code
		// Gemini reports a bad key as 400 API_KEY_INVALID.
		if strings.Contains(gErr.Message, "API key not valid") {
			status = 401
		}
		return NewProviderError(status, gErr.Message, err)
	}
	return NewProviderError(0, err.Error(), err)
}
