package services

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"tripplanner/internal/models/db_models"
	"tripplanner/internal/models/request_models"
	"tripplanner/internal/models/response_models"
	"tripplanner/internal/repositories"
	"tripplanner/pkg/utils"
)

const DefaultSavedTripListLimit = 50

type SavedTripServiceInterface interface {
	Save(ctx context.Context, req request_models.SaveTripRequest) (*response_models.SavedTripResponse, error)
	Get(ctx context.Context, id string) (*response_models.SavedTripResponse, error)
	List(ctx context.Context, limit int) ([]response_models.SavedTripResponse, error)
	Delete(ctx context.Context, id string) error
}

type SavedTripService struct {
	repo   repositories.SavedTripRepository
	logger *zap.Logger
}

func NewSavedTripService(repo repositories.SavedTripRepository, logger *zap.Logger) SavedTripServiceInterface {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SavedTripService{repo: repo, logger: logger}
}

func (s *SavedTripService) Save(ctx context.Context, req request_models.SaveTripRequest) (*response_models.SavedTripResponse, error) {
	destination := strings.TrimSpace(req.Destination)
	if destination == "" {
		return nil, utils.NewInputError("destination", "is required")
	}

	var raw any
	if err := json.Unmarshal(req.Itinerary, &raw); err != nil {
		return nil, utils.NewInputError("itinerary", "must be a JSON object")
	}
	if _, ok := raw.(map[string]any); !ok {
		return nil, utils.NewInputError("itinerary", "must be a JSON object")
	}

	duration := req.Duration
	if duration <= 0 && req.StartDate != "" && req.EndDate != "" {
		duration = InferDuration(req.StartDate, req.EndDate)
	}
	endDate := req.EndDate
	if endDate == "" && req.StartDate != "" && duration > 0 {
		endDate = ComputeEndDate(req.StartDate, duration)
	}

	itinerary := NormalizeItinerary(raw, NormalizeOptions{})
	body, err := json.Marshal(itinerary)
	if err != nil {
		return nil, err
	}

	trip := &db_models.SavedTrip{
		Destination: destination,
		StartDate:   req.StartDate,
		EndDate:     endDate,
		Duration:    duration,
		Itinerary:   string(body),
	}
	if err := s.repo.Create(ctx, trip); err != nil {
		s.logger.Error("save trip failed", zap.String("destination", destination), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	return toSavedTripResponse(*trip, itinerary), nil
}

func (s *SavedTripService) Get(ctx context.Context, id string) (*response_models.SavedTripResponse, error) {
	trip, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("load trip failed", zap.String("id", id), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if trip == nil {
		return nil, utils.ErrTripNotFound
	}
	return toSavedTripResponse(*trip, decodeStoredItinerary(trip.Itinerary)), nil
}

func (s *SavedTripService) List(ctx context.Context, limit int) ([]response_models.SavedTripResponse, error) {
	if limit <= 0 || limit > DefaultSavedTripListLimit {
		limit = DefaultSavedTripListLimit
	}
	trips, err := s.repo.List(ctx, limit)
	if err != nil {
		s.logger.Error("list trips failed", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	out := make([]response_models.SavedTripResponse, 0, len(trips))
	for _, trip := range trips {
		out = append(out, *toSavedTripResponse(trip, decodeStoredItinerary(trip.Itinerary)))
	}
	return out, nil
}

func (s *SavedTripService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("delete trip failed", zap.String("id", id), zap.Error(err))
		return utils.ErrDatabaseError
	}
	if !deleted {
		return utils.ErrTripNotFound
	}
	return nil
}

// decodeStoredItinerary re-normalizes what was stored, so rows written by an
// older version still come back in the current shape.
func decodeStoredItinerary(body string) response_models.Itinerary {
	var raw any
	_ = json.Unmarshal([]byte(body), &raw)
	return NormalizeItinerary(raw, NormalizeOptions{})
}

func toSavedTripResponse(trip db_models.SavedTrip, itinerary response_models.Itinerary) *response_models.SavedTripResponse {
	return &response_models.SavedTripResponse{
		ID:          trip.ID.String(),
		Destination: trip.Destination,
		StartDate:   trip.StartDate,
		EndDate:     trip.EndDate,
		Duration:    trip.Duration,
		Itinerary:   itinerary,
		CreatedAt:   trip.CreatedAt,
	}
}
