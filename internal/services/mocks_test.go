package services_test

import (
	"context"

	"fitness/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockActivityRepository is a mock implementation of repositories.ActivityRepository
type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) Create(activity *models.Activity) error {
	args := m.Called(activity)
	return args.Error(0)
}

func (m *MockActivityRepository) GetByID(id string) (*models.Activity, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Activity), args.Error(1)
}

func (m *MockActivityRepository) ListByUserID(userID string) ([]models.Activity, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.Activity), args.Error(1)
}

func (m *MockActivityRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockUserValidator is a mock implementation of services.UserValidator
type MockUserValidator struct {
	mock.Mock
}

func (m *MockUserValidator) ValidateUser(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

// MockEventPublisher is a mock implementation of services.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(routingKey string, body []byte) error {
	args := m.Called(routingKey, body)
	return args.Error(0)
}

// MockAIClient is a mock implementation of services.AIClient
type MockAIClient struct {
	mock.Mock
}

func (m *MockAIClient) GetAnswer(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}
