package services

import (
	"context"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"tripplanner/pkg/utils"
)

const (
	DefaultRetries      = 2
	lowQualityMinLength = 1000
)

var genericPhrases = []string{"Guided tour", "Cultural experience"}

// RetryPolicy bounds the model calls of one request: Retries+1 attempts with
// a constant Backoff between them.
type RetryPolicy struct {
	Retries int
	Backoff time.Duration
}

// CallResult is the raw text of the accepted response and how it was reached.
type CallResult struct {
	Text     string
	Attempts int
	Refined  bool
}

type Orchestrator struct {
	policy RetryPolicy
	logger *zap.Logger
}

func NewOrchestrator(policy RetryPolicy, logger *zap.Logger) *Orchestrator {
	if policy.Retries < 0 {
		policy.Retries = 0
	}
	if policy.Backoff < time.Millisecond {
		policy.Backoff = time.Millisecond
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{policy: policy, logger: logger}
}

// Call asks the model until it answers with non-empty text or the attempts run
// out. Empty answers and transient provider errors are retried; anything else
// stops immediately. The last error is returned on exhaustion.
func (o *Orchestrator) Call(ctx context.Context, client utils.ChatClientInterface, req utils.CompletionRequest) (CallResult, error) {
	var result CallResult

	backoff := retry.WithMaxRetries(uint64(o.policy.Retries), retry.NewConstant(o.policy.Backoff))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		result.Attempts++

		text, err := client.Complete(ctx, req)
		if err != nil {
			if utils.IsTransientError(err) {
				o.logger.Warn("model call failed, retrying",
					zap.Int("attempt", result.Attempts),
					zap.String("model", client.ModelName()),
					zap.Error(err))
				return retry.RetryableError(err)
			}
			return err
		}
		if strings.TrimSpace(text) == "" {
			o.logger.Warn("model returned an empty response",
				zap.Int("attempt", result.Attempts),
				zap.String("model", client.ModelName()))
			return retry.RetryableError(utils.ErrEmptyResponse)
		}

		result.Text = text
		return nil
	})
	if err != nil {
		return CallResult{Attempts: result.Attempts}, err
	}
	return result, nil
}

// Generate runs Call and, when the answer looks generic or incomplete, makes
// exactly one more call with the reinforced prompt. The second answer is
// final; if it fails or is empty the first answer is kept.
func (o *Orchestrator) Generate(ctx context.Context, client utils.ChatClientInterface, req, reinforced utils.CompletionRequest) (CallResult, error) {
	first, err := o.Call(ctx, client, req)
	if err != nil {
		return first, err
	}
	if !IsLowQuality(first.Text) {
		return first, nil
	}

	o.logger.Info("first itinerary looks generic, asking once more", zap.Int("length", len(first.Text)))

	text, err := client.Complete(ctx, reinforced)
	first.Attempts++
	if err != nil {
		o.logger.Warn("reinforced call failed, keeping first response", zap.Error(err))
		return first, nil
	}
	if strings.TrimSpace(text) == "" {
		o.logger.Warn("reinforced call returned an empty response, keeping first response")
		return first, nil
	}

	return CallResult{Text: text, Attempts: first.Attempts, Refined: true}, nil
}

// IsLowQuality is the cheap quality gate of the generation path.
func IsLowQuality(text string) bool {
	if len(text) < lowQualityMinLength {
		return true
	}
	if !strings.Contains(text, "activities") {
		return true
	}
	for _, phrase := range genericPhrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}
