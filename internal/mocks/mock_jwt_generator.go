package mocks

import (
	"time"

	"github.com/stretchr/testify/mock"
)

// MockJWTGenerator is a mock type for the JWTGenerator type
type MockJWTGenerator struct {
	mock.Mock
}

// GenerateToken provides a mock function with given fields: userID, username
func (_m *MockJWTGenerator) GenerateToken(userID int64, username string) (string, time.Time, error) {
	ret := _m.Called(userID, username)

	return ret.Get(0).(string), ret.Get(1).(time.Time), ret.Error(2)
}
