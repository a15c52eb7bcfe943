package models

import "time"

// UserRole is the role a user holds in the fitness platform.
type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

// User is a local identity record, optionally linked to an identity-provider account.
type User struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email      string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Username   string    `json:"username" gorm:"type:varchar(100)"`
	ExternalID string    `json:"externalId" gorm:"index;type:varchar(255)"` // identity-provider subject
	Password   string    `json:"-" gorm:"type:varchar(255);not null"`       // bcrypt hash, never serialized
	FirstName  string    `json:"firstName" gorm:"type:varchar(100)"`
	LastName   string    `json:"lastName" gorm:"type:varchar(100)"`
	Role       UserRole  `json:"role" gorm:"type:varchar(20);default:USER"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// RegisterRequest is the body accepted by the user registration endpoint and
// sent by the gateway when it syncs an identity-provider account.
type RegisterRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	Username   string `json:"username" validate:"omitempty,max=100"`
	ExternalID string `json:"externalId" validate:"omitempty,max=255"`
	FirstName  string `json:"firstName" validate:"omitempty,max=100"`
	LastName   string `json:"lastName" validate:"omitempty,max=100"`
}
