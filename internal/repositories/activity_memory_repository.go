package repositories

import (
	"fmt"
	"sync"
	"time"

	"fitness/internal/models"

	"github.com/google/uuid"
)

// MemoryActivityRepository is an in-memory implementation of ActivityRepository.
// It keeps insertion order so listings are stable.
type MemoryActivityRepository struct {
	activities map[string]models.Activity
	order      []string
	mu         sync.RWMutex
}

// NewMemoryActivityRepository creates a new instance of MemoryActivityRepository.
func NewMemoryActivityRepository() *MemoryActivityRepository {
	return &MemoryActivityRepository{
		activities: make(map[string]models.Activity),
	}
}

// Create adds a new activity.
func (r *MemoryActivityRepository) Create(activity *models.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if activity.ID == "" {
		activity.ID = uuid.New().String()
	}
	now := time.Now()
	activity.CreatedAt = now
	activity.UpdatedAt = now
	r.activities[activity.ID] = *activity
	r.order = append(r.order, activity.ID)
	return nil
}

// GetByID returns an activity by its ID.
func (r *MemoryActivityRepository) GetByID(id string) (*models.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	activity, ok := r.activities[id]
	if !ok {
		return nil, fmt.Errorf("activity with ID %s: %w", id, ErrNotFound)
	}
	return &activity, nil
}

// ListByUserID returns the activities of a user in insertion order.
func (r *MemoryActivityRepository) ListByUserID(userID string) ([]models.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := []models.Activity{}
	for _, id := range r.order {
		if a := r.activities[id]; a.UserID == userID {
			list = append(list, a)
		}
	}
	return list, nil
}

// Delete removes an activity by its ID.
func (r *MemoryActivityRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.activities[id]; !ok {
		return fmt.Errorf("activity with ID %s: %w", id, ErrNotFound)
	}
	delete(r.activities, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
