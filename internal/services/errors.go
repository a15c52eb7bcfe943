package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is matched by every lookup miss.
	ErrNotFound = errors.New("not found")
	// ErrUserNotFound is returned when a user profile does not exist.
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)
	// ErrActivityNotFound is returned when an activity does not exist.
	ErrActivityNotFound = fmt.Errorf("activity %w", ErrNotFound)
	// ErrRecommendationNotFound is returned when no recommendation exists for an activity.
	ErrRecommendationNotFound = fmt.Errorf("recommendation %w", ErrNotFound)
	// ErrInvalidUser is returned when an activity is tracked for an unknown user.
	ErrInvalidUser = errors.New("invalid user")
	// ErrUnauthorized is returned when a user tries to delete someone else's activity.
	ErrUnauthorized = errors.New("user does not own this activity")
	// ErrValidationUnavailable is returned when the user directory cannot be reached.
	ErrValidationUnavailable = errors.New("user validation unavailable")
	// ErrUpstream is returned when the generative-AI endpoint fails.
	ErrUpstream = errors.New("upstream AI call failed")
)
