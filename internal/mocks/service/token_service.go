// Package service provides hand-written test doubles for the domain service interfaces.
package service

import (
	"time"

	"catalog/internal/domain/entity"
	"catalog/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// TokenService is a mock implementation of service.TokenService.
type TokenService struct {
	mock.Mock
}

func (m *TokenService) GenerateAccessToken(accountID uuid.UUID, role entity.Role) (string, error) {
	args := m.Called(accountID, role)

	return args.String(0), args.Error(1)
}

func (m *TokenService) GenerateRefreshToken(accountID uuid.UUID) (string, error) {
	args := m.Called(accountID)

	return args.String(0), args.Error(1)
}

func (m *TokenService) ValidateToken(token string, kind service.TokenKind) (*service.Claims, error) {
	args := m.Called(token, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*service.Claims), args.Error(1)
}

func (m *TokenService) HashToken(token string) string {
	args := m.Called(token)

	return args.String(0)
}

func (m *TokenService) RefreshTokenTTL() time.Duration {
	args := m.Called()

	return args.Get(0).(time.Duration)
}
