package models

import "time"

// Recommendation is the AI-generated feedback for one activity.
type Recommendation struct {
	ID             string       `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ActivityID     string       `json:"activityId" gorm:"index;type:varchar(36)"`
	UserID         string       `json:"userId" gorm:"index;type:varchar(255)"`
	ActivityType   ActivityType `json:"activityType" gorm:"type:varchar(32)"`
	Recommendation string       `json:"recommendation" gorm:"type:text"`
	Improvements   []string     `json:"improvements" gorm:"serializer:json"`
	Suggestions    []string     `json:"suggestions" gorm:"serializer:json"`
	Safety         []string     `json:"safety" gorm:"serializer:json"`
	CreatedAt      time.Time    `json:"createdAt"`
}
