package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbm "tripplanner/internal/models/db_models"
	mem "tripplanner/pkg/memcache"
)

type SavedTripRepository interface {
	Create(ctx context.Context, trip *dbm.SavedTrip) error
	// GetByID returns nil, nil when no trip has that id.
	GetByID(ctx context.Context, id string) (*dbm.SavedTrip, error)
	List(ctx context.Context, limit int) ([]dbm.SavedTrip, error)
	// Delete reports whether a trip was removed.
	Delete(ctx context.Context, id string) (bool, error)
}

type savedTripRepository struct {
	db *gorm.DB
}

func NewSavedTripRepository(db *gorm.DB) SavedTripRepository {
	return &savedTripRepository{db: db}
}

func (r *savedTripRepository) Create(ctx context.Context, trip *dbm.SavedTrip) error {
	return r.db.WithContext(ctx).Create(trip).Error
}

func (r *savedTripRepository) GetByID(ctx context.Context, id string) (*dbm.SavedTrip, error) {
	tripID, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}

	var trip dbm.SavedTrip
	err = r.db.WithContext(ctx).Where("id = ?", tripID).First(&trip).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

func (r *savedTripRepository) List(ctx context.Context, limit int) ([]dbm.SavedTrip, error) {
	var trips []dbm.SavedTrip
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&trips).Error; err != nil {
		return nil, err
	}
	return trips, nil
}

func (r *savedTripRepository) Delete(ctx context.Context, id string) (bool, error) {
	tripID, err := uuid.Parse(id)
	if err != nil {
		return false, nil
	}
	res := r.db.WithContext(ctx).Where("id = ?", tripID).Delete(&dbm.SavedTrip{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// memorySavedTripRepository keeps trips in process memory with a TTL. It is
// used when no database is configured.
type memorySavedTripRepository struct {
	store *mem.Store[dbm.SavedTrip]
}

func NewMemorySavedTripRepository(store *mem.Store[dbm.SavedTrip]) SavedTripRepository {
	return &memorySavedTripRepository{store: store}
}

func (r *memorySavedTripRepository) Create(_ context.Context, trip *dbm.SavedTrip) error {
	// Same hook gorm runs, so both stores assign ids and timestamps alike.
	if err := trip.BeforeCreate(nil); err != nil {
		return err
	}
	r.store.Set(trip.ID.String(), *trip)
	return nil
}

func (r *memorySavedTripRepository) GetByID(_ context.Context, id string) (*dbm.SavedTrip, error) {
	trip, ok := r.store.Get(id)
	if !ok {
		return nil, nil
	}
	return &trip, nil
}

func (r *memorySavedTripRepository) List(_ context.Context, limit int) ([]dbm.SavedTrip, error) {
	return r.store.Values(limit), nil
}

func (r *memorySavedTripRepository) Delete(_ context.Context, id string) (bool, error) {
	return r.store.Delete(id), nil
}
