package repositories

import (
	"errors"
	"fmt"

	"fitness/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMRecommendationRepository is a GORM implementation of RecommendationRepository.
type GORMRecommendationRepository struct {
	db *gorm.DB
}

// NewGORMRecommendationRepository creates a new instance of GORMRecommendationRepository.
func NewGORMRecommendationRepository(db *gorm.DB) *GORMRecommendationRepository {
	return &GORMRecommendationRepository{
		db: db,
	}
}

// Create inserts a recommendation. Duplicates per activity are allowed.
func (r *GORMRecommendationRepository) Create(rec *models.Recommendation) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if err := r.db.Create(rec).Error; err != nil {
		return fmt.Errorf("failed to create recommendation: %w", err)
	}
	return nil
}

// ListByUserID returns all recommendations of a user, oldest first.
func (r *GORMRecommendationRepository) ListByUserID(userID string) ([]models.Recommendation, error) {
	recs := []models.Recommendation{}
	if err := r.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to list recommendations for user %s: %w", userID, err)
	}
	return recs, nil
}

// GetByActivityID returns the most recent recommendation for an activity.
func (r *GORMRecommendationRepository) GetByActivityID(activityID string) (*models.Recommendation, error) {
	var rec models.Recommendation
	if err := r.db.Where("activity_id = ?", activityID).Order("created_at DESC").First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("recommendation for activity %s: %w", activityID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get recommendation for activity %s: %w", activityID, err)
	}
	return &rec, nil
}
