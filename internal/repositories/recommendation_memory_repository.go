package repositories

import (
	"fmt"
	"sync"
	"time"

	"fitness/internal/models"

	"github.com/google/uuid"
)

// MemoryRecommendationRepository is an in-memory implementation of RecommendationRepository.
type MemoryRecommendationRepository struct {
	recs []models.Recommendation
	mu   sync.RWMutex
}

// NewMemoryRecommendationRepository creates a new instance of MemoryRecommendationRepository.
func NewMemoryRecommendationRepository() *MemoryRecommendationRepository {
	return &MemoryRecommendationRepository{}
}

// Create appends a recommendation.
func (r *MemoryRecommendationRepository) Create(rec *models.Recommendation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	r.recs = append(r.recs, *rec)
	return nil
}

// ListByUserID returns the recommendations of a user in insertion order.
func (r *MemoryRecommendationRepository) ListByUserID(userID string) ([]models.Recommendation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := []models.Recommendation{}
	for _, rec := range r.recs {
		if rec.UserID == userID {
			list = append(list, rec)
		}
	}
	return list, nil
}

// GetByActivityID returns the latest recommendation for an activity.
func (r *MemoryRecommendationRepository) GetByActivityID(activityID string) (*models.Recommendation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := len(r.recs) - 1; i >= 0; i-- {
		if r.recs[i].ActivityID == activityID {
			rec := r.recs[i]
			return &rec, nil
		}
	}
	return nil, fmt.Errorf("recommendation for activity %s: %w", activityID, ErrNotFound)
}
