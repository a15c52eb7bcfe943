package models

import "time"

// ActivityType enumerates the supported kinds of workouts.
type ActivityType string

const (
	ActivityRunning        ActivityType = "RUNNING"
	ActivityWalking        ActivityType = "WALKING"
	ActivityCycling        ActivityType = "CYCLING"
	ActivitySwimming       ActivityType = "SWIMMING"
	ActivityWeightTraining ActivityType = "WEIGHT_TRAINING"
	ActivityYoga           ActivityType = "YOGA"
	ActivityHIIT           ActivityType = "HIIT"
	ActivityCardio         ActivityType = "CARDIO"
	ActivityStretching     ActivityType = "STRETCHING"
	ActivityOther          ActivityType = "OTHER"
)

// Activity is a single tracked workout. UserID refers to the identity-provider
// subject of the owner and is checked, not enforced, at creation time.
type Activity struct {
	ID                string                 `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID            string                 `json:"userId" gorm:"index;type:varchar(255);not null"`
	Type              ActivityType           `json:"type" gorm:"type:varchar(32)"`
	Duration          int                    `json:"duration"` // minutes
	CaloriesBurned    int                    `json:"caloriesBurned"`
	StartTime         time.Time              `json:"startTime"`
	AdditionalMetrics map[string]interface{} `json:"additionalMetrics,omitempty" gorm:"serializer:json"`
	CreatedAt         time.Time              `json:"createdAt"`
	UpdatedAt         time.Time              `json:"updatedAt"`
}

// ActivityRequest is the body accepted by the track endpoint.
type ActivityRequest struct {
	UserID            string                 `json:"userId" validate:"required"`
	Type              ActivityType           `json:"type" validate:"required,oneof=RUNNING WALKING CYCLING SWIMMING WEIGHT_TRAINING YOGA HIIT CARDIO STRETCHING OTHER"`
	Duration          int                    `json:"duration" validate:"gte=0"`
	CaloriesBurned    int                    `json:"caloriesBurned" validate:"gte=0"`
	StartTime         time.Time              `json:"startTime"`
	AdditionalMetrics map[string]interface{} `json:"additionalMetrics"`
}

// ActivityDeletedEvent is published after an activity is removed.
type ActivityDeletedEvent struct {
	ActivityID string    `json:"activityId"`
	UserID     string    `json:"userId"`
	DeletedAt  time.Time `json:"deletedAt"`
}
