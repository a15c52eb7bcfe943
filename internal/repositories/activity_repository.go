package repositories

import "fitness/internal/models"

// ActivityRepository defines the interface for activity data access.
type ActivityRepository interface {
	Create(activity *models.Activity) error
	GetByID(id string) (*models.Activity, error)
	ListByUserID(userID string) ([]models.Activity, error)
	Delete(id string) error
}
