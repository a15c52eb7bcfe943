package repositories

import (
	"errors"
	"fmt"

	"fitness/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMActivityRepository is a GORM implementation of ActivityRepository.
type GORMActivityRepository struct {
	db *gorm.DB
}

// NewGORMActivityRepository creates a new instance of GORMActivityRepository.
func NewGORMActivityRepository(db *gorm.DB) *GORMActivityRepository {
	return &GORMActivityRepository{
		db: db,
	}
}

// Create inserts a new activity; ID and timestamps are assigned here.
func (r *GORMActivityRepository) Create(activity *models.Activity) error {
	if activity.ID == "" {
		activity.ID = uuid.New().String()
	}
	if err := r.db.Create(activity).Error; err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}
	return nil
}

// GetByID retrieves a single activity by its ID.
func (r *GORMActivityRepository) GetByID(id string) (*models.Activity, error) {
	var activity models.Activity
	if err := r.db.First(&activity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("activity with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get activity by ID %s: %w", id, err)
	}
	return &activity, nil
}

// ListByUserID returns every activity of a user in insertion order.
func (r *GORMActivityRepository) ListByUserID(userID string) ([]models.Activity, error) {
	activities := []models.Activity{}
	if err := r.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&activities).Error; err != nil {
		return nil, fmt.Errorf("failed to list activities for user %s: %w", userID, err)
	}
	return activities, nil
}

// Delete removes an activity by its ID.
func (r *GORMActivityRepository) Delete(id string) error {
	res := r.db.Delete(&models.Activity{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete activity: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("activity with ID %s: %w", id, ErrNotFound)
	}
	return nil
}
