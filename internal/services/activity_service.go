package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"fitness/internal/models"
	"fitness/internal/observability"
	"fitness/internal/repositories"
)

// UserValidator confirms that a user ID is known to the user directory.
type UserValidator interface {
	ValidateUser(ctx context.Context, userID string) (bool, error)
}

// EventPublisher hands a message to the broker.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// ActivityEvents names the routing keys used for activity events.
type ActivityEvents struct {
	CreatedRoutingKey string
	DeletedRoutingKey string
}

// ActivityService handles business logic related to activities.
type ActivityService struct {
	activityRepo repositories.ActivityRepository
	validator    UserValidator
	publisher    EventPublisher
	events       ActivityEvents
}

// NewActivityService creates a new ActivityService. publisher may be nil, in
// which case events are skipped.
func NewActivityService(activityRepo repositories.ActivityRepository, validator UserValidator, publisher EventPublisher, events ActivityEvents) *ActivityService {
	return &ActivityService{
		activityRepo: activityRepo,
		validator:    validator,
		publisher:    publisher,
		events:       events,
	}
}

// TrackActivity validates the user, persists the activity and emits an
// activity-created event. The event is best effort: a publish failure is
// logged and never fails the call.
func (s *ActivityService) TrackActivity(ctx context.Context, req models.ActivityRequest) (*models.Activity, error) {
	valid, err := s.validator.ValidateUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidUser, req.UserID)
	}

	activity := &models.Activity{
		UserID:            req.UserID,
		Type:              req.Type,
		Duration:          req.Duration,
		CaloriesBurned:    req.CaloriesBurned,
		StartTime:         req.StartTime,
		AdditionalMetrics: req.AdditionalMetrics,
	}
	if err := s.activityRepo.Create(activity); err != nil {
		return nil, fmt.Errorf("failed to save activity: %w", err)
	}
	observability.RecordActivityTracked()

	s.publish("activity.created", s.events.CreatedRoutingKey, activity.ID, activity)

	return activity, nil
}

// GetUserActivities returns every activity of a user.
func (s *ActivityService) GetUserActivities(userID string) ([]models.Activity, error) {
	return s.activityRepo.ListByUserID(userID)
}

// GetActivityByID returns a single activity.
func (s *ActivityService) GetActivityByID(activityID string) (*models.Activity, error) {
	activity, err := s.activityRepo.GetByID(activityID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrActivityNotFound, activityID)
		}
		return nil, err
	}
	return activity, nil
}

// DeleteActivity removes an activity owned by requestingUserID and emits an
// activity-deleted event. Deletion and publication are not transactional.
func (s *ActivityService) DeleteActivity(activityID, requestingUserID string) error {
	activity, err := s.GetActivityByID(activityID)
	if err != nil {
		return err
	}
	if activity.UserID != requestingUserID {
		return fmt.Errorf("%w: activity %s", ErrUnauthorized, activityID)
	}

	if err := s.activityRepo.Delete(activityID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrActivityNotFound, activityID)
		}
		return fmt.Errorf("failed to delete activity %s: %w", activityID, err)
	}

	s.publish("activity.deleted", s.events.DeletedRoutingKey, activityID, models.ActivityDeletedEvent{
		ActivityID: activityID,
		UserID:     activity.UserID,
		DeletedAt:  time.Now().UTC(),
	})
	return nil
}

func (s *ActivityService) publish(event, routingKey, activityID string, payload interface{}) {
	if s.publisher == nil {
		log.Printf("Event publisher is not configured. Skipping %s event for activity %s", event, activityID)
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event for activity %s: %v", event, activityID, err)
		observability.RecordPublishFailure(event)
		return
	}

	if err := s.publisher.Publish(routingKey, body); err != nil {
		log.Printf("Warning: Failed to publish %s event for activity %s: %v", event, activityID, err)
		observability.RecordPublishFailure(event)
		return
	}
	log.Printf("Published %s event for activity %s", event, activityID)
}
