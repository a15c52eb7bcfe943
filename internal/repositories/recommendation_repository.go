package repositories

import "fitness/internal/models"

// RecommendationRepository defines the interface for recommendation data access.
type RecommendationRepository interface {
	Create(rec *models.Recommendation) error
	ListByUserID(userID string) ([]models.Recommendation, error)
	GetByActivityID(activityID string) (*models.Recommendation, error)
}
