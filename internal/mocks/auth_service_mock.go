package mocks

import (
	"context"

	"github.com/SimpnicServerTeam/catalog-auth-server/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.UserResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*models.UserResponse)
	return resp, args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*models.LoginResponse)
	return resp, args.Error(1)
}
