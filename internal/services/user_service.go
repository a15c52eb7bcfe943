package services

import (
	"errors"
	"fmt"
	"log"

	"fitness/internal/models"
	"fitness/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

// UserService is the user directory: registration, profile lookup and
// existence checks by identity-provider subject.
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// Register creates a user, or returns the existing user with the same email.
// For an existing user, an empty ExternalID or Username is backfilled from the
// request; fields that are already set are never overwritten.
//
// Two concurrent registrations for a new email race: the second insert fails on
// the unique email index and surfaces as an error.
func (s *UserService) Register(req models.RegisterRequest) (*models.User, error) {
	existing, err := s.userRepo.GetByEmail(req.Email)
	if err == nil {
		changed := false
		if existing.ExternalID == "" && req.ExternalID != "" {
			existing.ExternalID = req.ExternalID
			changed = true
		}
		if existing.Username == "" && req.Username != "" {
			existing.Username = req.Username
			changed = true
		}
		if changed {
			if err := s.userRepo.Save(existing); err != nil {
				return nil, fmt.Errorf("failed to backfill user %s: %w", existing.ID, err)
			}
			log.Printf("Backfilled identity fields for user %s", existing.ID)
		}
		return existing, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:      req.Email,
		Username:   req.Username,
		ExternalID: req.ExternalID,
		Password:   string(hashedPassword),
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Role:       models.RoleUser,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return user, nil
}

// GetProfile returns the user with the given local ID.
func (s *UserService) GetProfile(userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
		}
		return nil, err
	}
	return user, nil
}

// Exists reports whether a user is linked to the given identity-provider subject.
func (s *UserService) Exists(externalID string) (bool, error) {
	log.Printf("Checking user existence for external ID %s", externalID)
	return s.userRepo.ExistsByExternalID(externalID)
}
