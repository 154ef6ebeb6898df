package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tripplanner/internal/models/response_models"
	"tripplanner/pkg/utils"
	"tripplanner/pkg/weather"
)

const (
	DefaultEnrichmentTimeout = 3 * time.Second
	maxSearches              = 3
	maxSearchAnswerLength    = 600
)

// Enrichment is the best-effort context gathered before generation. Every
// field may be empty.
type Enrichment struct {
	Forecast *response_models.WeatherInfo
	Notes    []string
	Searches int
}

func (e Enrichment) Meta() response_models.EnrichmentMeta {
	return response_models.EnrichmentMeta{
		Weather:  e.Forecast != nil,
		Searches: e.Searches,
	}
}

type EnrichmentServiceInterface interface {
	Enrich(ctx context.Context, search utils.SearchClientInterface, params GenerateParams) Enrichment
}

type EnrichmentConfig struct {
	Timeout        time.Duration
	SearchEnabled  bool
	WeatherEnabled bool
}

type EnrichmentService struct {
	forecaster weather.ForecasterInterface
	cfg        EnrichmentConfig
	logger     *zap.Logger
}

func NewEnrichmentService(forecaster weather.ForecasterInterface, cfg EnrichmentConfig, logger *zap.Logger) EnrichmentServiceInterface {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultEnrichmentTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrichmentService{forecaster: forecaster, cfg: cfg, logger: logger}
}

type searchTopic struct {
	label string
	query string
}

func searchTopics(p GenerateParams) []searchTopic {
	when := monthYear(p.StartDate)
	return []searchTopic{
		{
			label: "Current prices",
			query: fmt.Sprintf("Typical current prices in %s for a %s budget: mid-range hotel per night, a restaurant meal, public transport ticket. Answer in 3 short lines.", p.Destination, orDefault(p.Budget, "moderate")),
		},
		{
			label: "Events",
			query: fmt.Sprintf("Notable events, festivals or closures in %s in %s. Answer in at most 3 short lines.", p.Destination, when),
		},
		{
			label: "Local transport",
			query: fmt.Sprintf("Best way to get around %s as a visitor right now, including passes and airport transfer. Answer in 3 short lines.", p.Destination),
		},
	}[:maxSearches]
}

// Enrich runs the weather lookup and the searches concurrently under one
// deadline. Each lookup also has its own timeout. A lookup that fails or is
// still running when the deadline passes contributes nothing, and its context
// is cancelled.
func (s *EnrichmentService) Enrich(ctx context.Context, search utils.SearchClientInterface, params GenerateParams) Enrichment {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	var (
		mu       sync.Mutex
		forecast *response_models.WeatherInfo
	)
	topics := searchTopics(params)
	answers := make([]string, len(topics))

	g, gctx := errgroup.WithContext(ctx)

	if s.cfg.WeatherEnabled && s.forecaster != nil {
		g.Go(func() error {
			lookupCtx, cancel := context.WithTimeout(gctx, s.cfg.Timeout)
			defer cancel()

			info, err := s.forecaster.Forecast(lookupCtx, params.Destination, params.StartDate, params.Duration)
			if err != nil {
				s.logger.Debug("weather lookup skipped", zap.String("destination", params.Destination), zap.Error(err))
				return nil
			}
			mu.Lock()
			forecast = info
			mu.Unlock()
			return nil
		})
	}

	if s.cfg.SearchEnabled && search != nil {
		for i, topic := range topics {
			g.Go(func() error {
				lookupCtx, cancel := context.WithTimeout(gctx, s.cfg.Timeout)
				defer cancel()

				answer, err := search.Search(lookupCtx, topic.query)
				if err != nil {
					s.logger.Debug("search lookup skipped", zap.String("topic", topic.label), zap.Error(err))
					return nil
				}
				answer = truncate(strings.TrimSpace(answer), maxSearchAnswerLength)
				if answer == "" {
					return nil
				}
				mu.Lock()
				answers[i] = topic.label + ": " + answer
				mu.Unlock()
				return nil
			})
		}
	}

	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Info("enrichment deadline reached, continuing without stragglers")
	}

	mu.Lock()
	defer mu.Unlock()

	out := Enrichment{Forecast: forecast}
	for _, a := range answers {
		if a != "" {
			out.Notes = append(out.Notes, a)
			out.Searches++
		}
	}
	if forecast != nil && forecast.Summary != "" {
		out.Notes = append(out.Notes, fmt.Sprintf("Weather forecast: %s, %s, %s", forecast.Summary, forecast.Temperature, forecast.Precipitation))
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
