package mocks

import (
	"context"

	"github.com/SimpnicServerTeam/catalog-auth-server/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockUserGenerator is a mock implementation of the UserGenerator interface.
type MockUserGenerator struct {
	mock.Mock
}

func (m *MockUserGenerator) ListUsers(ctx context.Context) ([]*models.UserResponse, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]*models.UserResponse)
	return users, args.Error(1)
}

func (m *MockUserGenerator) GetUser(ctx context.Context, id int64) (*models.UserResponse, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.UserResponse)
	return user, args.Error(1)
}
