package mocks

import (
	"github.com/SimpnicServerTeam/catalog-auth-server/internal/service"
	"github.com/stretchr/testify/mock"
)

// MockPasswordHasher is a mock implementation of the PasswordHasher interface.
type MockPasswordHasher struct {
	mock.Mock
}

func (m *MockPasswordHasher) Hash(password string) (service.PasswordHash, error) {
	args := m.Called(password)
	return args.Get(0).(service.PasswordHash), args.Error(1)
}

func (m *MockPasswordHasher) Verify(password string, salt, digest []byte) bool {
	args := m.Called(password, salt, digest)
	return args.Bool(0)
}
