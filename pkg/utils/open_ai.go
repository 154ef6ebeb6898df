package utils

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// CompletionRequest is a single-turn prompt with an optional system message.
type CompletionRequest struct {
	System      string
	Prompt      string
	Temperature float32
	MaxTokens   int
}

// ChatTurn is one message of a chat conversation.
type ChatTurn struct {
	Role    string
	Content string
}

type ChatClientInterface interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	ModelName() string
}

type StreamClientInterface interface {
	Stream(ctx context.Context, system string, turns []ChatTurn, emit func(chunk string) error) error
}

type KeyVerifierInterface interface {
	VerifyKey(ctx context.Context) error
}

type SearchClientInterface interface {
	Search(ctx context.Context, query string) (string, error)
}

// LLMClientFactoryInterface builds provider clients bound to one credential.
// Clients are created per request so a caller's key never leaks into another
// request.
type LLMClientFactoryInterface interface {
	Chat(apiKey string) ChatClientInterface
	Streamer(apiKey string) StreamClientInterface
	Verifier(apiKey string) KeyVerifierInterface
	Search(apiKey string) SearchClientInterface
}

type OpenAIConfig struct {
	BaseURL     string
	Model       string
	SearchModel string
	Timeout     time.Duration
}

type OpenAIClientFactory struct {
	cfg OpenAIConfig
}

func NewOpenAIClientFactory(cfg OpenAIConfig) *OpenAIClientFactory {
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}
	if cfg.SearchModel == "" {
		cfg.SearchModel = "gpt-4o-mini-search-preview"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 90 * time.Second
	}
	return &OpenAIClientFactory{cfg: cfg}
}

func (f *OpenAIClientFactory) newClient(apiKey string) *openai.Client {
	clientCfg := openai.DefaultConfig(apiKey)
	if f.cfg.BaseURL != "" {
		clientCfg.BaseURL = f.cfg.BaseURL
	}
	return openai.NewClientWithConfig(clientCfg)
}

func (f *OpenAIClientFactory) Chat(apiKey string) ChatClientInterface {
	return &OpenAIChatClient{client: f.newClient(apiKey), model: f.cfg.Model, timeout: f.cfg.Timeout}
}

func (f *OpenAIClientFactory) Streamer(apiKey string) StreamClientInterface {
	return &OpenAIChatClient{client: f.newClient(apiKey), model: f.cfg.Model, timeout: f.cfg.Timeout}
}

func (f *OpenAIClientFactory) Verifier(apiKey string) KeyVerifierInterface {
	return &OpenAIChatClient{client: f.newClient(apiKey), model: f.cfg.Model, timeout: f.cfg.Timeout}
}

func (f *OpenAIClientFactory) Search(apiKey string) SearchClientInterface {
	return &OpenAISearchClient{client: f.newClient(apiKey), model: f.cfg.SearchModel}
}

// OpenAIChatClient implements chat completion, streaming and key probing
// against the OpenAI API.
type OpenAIChatClient struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

func (c *OpenAIChatClient) ModelName() string { return c.model }

func (c *OpenAIChatClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", classifyCallError(ctx, callCtx, err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (c *OpenAIChatClient) Stream(ctx context.Context, system string, turns []ChatTurn, emit func(chunk string) error) error {
	messages := make([]openai.ChatCompletionMessage, 0, len(turns)+1)
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	}
	for _, turn := range turns {
		messages = append(messages, openai.ChatCompletionMessage{Role: turn.Role, Content: turn.Content})
	}

	stream, err := c.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   true,
	})
	if err != nil {
		return ClassifyProviderError(err)
	}
	defer stream.Close()

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return ClassifyProviderError(err)
		}
		if len(resp.Choices) == 0 || resp.Choices[0].Delta.Content == "" {
			continue
		}
		if err := emit(resp.Choices[0].Delta.Content); err != nil {
			return err
		}
	}
}

// VerifyKey lists models, the cheapest authenticated call available.
func (c *OpenAIChatClient) VerifyKey(ctx context.Context) error {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if _, err := c.client.ListModels(callCtx); err != nil {
		return classifyCallError(ctx, callCtx, err)
	}
	return nil
}

// OpenAISearchClient answers short factual questions with a search-enabled
// model.
type OpenAISearchClient struct {
	client *openai.Client
	model  string
}

func (s *OpenAISearchClient) Search(ctx context.Context, query string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: query},
		},
	})
	if err != nil {
		return "", ClassifyProviderError(err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// ClassifyProviderError wraps an OpenAI client error into a *ProviderError
// whose chain carries ErrCredentialRejected or ErrRateLimited when they apply.
func ClassifyProviderError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return NewProviderError(apiErr.HTTPStatusCode, apiErr.Message, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return NewProviderError(reqErr.HTTPStatusCode, reqErr.Error(), err)
	}
	return NewProviderError(0, err.Error(), err)
}

// NewProviderError builds a *ProviderError and tags it by status and message.
func NewProviderError(status int, message string, cause error) *ProviderError {
	lower := strings.ToLower(message)
	wrapped := cause
	switch {
	case status == 401:
		wrapped = errors.Join(ErrCredentialRejected, cause)
	case status == 429, strings.Contains(lower, "rate limit"), strings.Contains(lower, "quota"):
		wrapped = errors.Join(ErrRateLimited, cause)
	}
	return &ProviderError{StatusCode: status, Message: message, Err: wrapped}
}

// classifyCallError separates a per-call timeout, which is worth retrying,
// from cancellation of the caller's own context.
func classifyCallError(parent, call context.Context, err error) error {
	if parent.Err() == nil && errors.Is(call.Err(), context.DeadlineExceeded) {
		return &ProviderError{Message: "request to the model timed out", Err: err}
	}
	return ClassifyProviderError(err)
}

// IsTransientError reports whether another attempt may succeed.
func IsTransientError(err error) bool {
	if errors.Is(err, ErrEmptyResponse) {
		return true
	}
	if errors.Is(err, ErrRateLimited) || errors.Is(err, ErrCredentialRejected) {
		return false
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.StatusCode == 0 || pe.StatusCode >= 500
	}
	return false
}
