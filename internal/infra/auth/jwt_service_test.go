package auth

import (
	"testing"
	"time"

	"catalog/config"
	"catalog/internal/domain/entity"
	domainerrors "catalog/internal/domain/errors"
	"catalog/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T, accessTTL, refreshTTL time.Duration) service.TokenService {
	t.Helper()

	cfg := &config.Config{
		Auth: &config.AuthConfig{
			AccessTokenTTL:  accessTTL,
			RefreshTokenTTL: refreshTTL,
		},
	}
	cfg.SecretKey.Access = "test-access-secret"
	cfg.SecretKey.Refresh = "test-refresh-secret"

	svc, err := NewJWTService(cfg)
	require.NoError(t, err)

	return svc
}

func TestJWTService_RequiresSecrets(t *testing.T) {
	cfg := &config.Config{Auth: &config.AuthConfig{}}

	_, err := NewJWTService(cfg)

	require.Error(t, err)
}

func TestJWTService_AccessTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService(t, 15*time.Minute, 7*24*time.Hour)
	accountID := uuid.New()

	token, err := svc.GenerateAccessToken(accountID, entity.RoleAdmin)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token, service.TokenKindAccess)
	require.NoError(t, err)
	assert.Equal(t, accountID, claims.AccountID)
	assert.Equal(t, entity.RoleAdmin, claims.Role)
	assert.Equal(t, service.TokenKindAccess, claims.Kind)
}

func TestJWTService_RefreshTokenCarriesNoRole(t *testing.T) {
	svc := newTestTokenService(t, 15*time.Minute, 7*24*time.Hour)
	accountID := uuid.New()

	token, err := svc.GenerateRefreshToken(accountID)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token, service.TokenKindRefresh)
	require.NoError(t, err)
	assert.Equal(t, accountID, claims.AccountID)
	assert.Empty(t, claims.Role)
}

func TestJWTService_KindMismatchRejected(t *testing.T) {
	svc := newTestTokenService(t, 15*time.Minute, 7*24*time.Hour)
	accountID := uuid.New()

	accessToken, err := svc.GenerateAccessToken(accountID, entity.RoleCustomer)
	require.NoError(t, err)
	refreshToken, err := svc.GenerateRefreshToken(accountID)
	require.NoError(t, err)

	_, err = svc.ValidateToken(accessToken, service.TokenKindRefresh)
	assert.True(t, errors.Is(err, domainerrors.ErrTokenInvalid))

	_, err = svc.ValidateToken(refreshToken, service.TokenKindAccess)
	assert.True(t, errors.Is(err, domainerrors.ErrTokenInvalid))
}

func TestJWTService_ExpiredTokenDistinctFromInvalid(t *testing.T) {
	svc := newTestTokenService(t, -time.Minute, 7*24*time.Hour)

	expired, err := svc.GenerateAccessToken(uuid.New(), entity.RoleCustomer)
	require.NoError(t, err)

	_, err = svc.ValidateToken(expired, service.TokenKindAccess)
	assert.True(t, errors.Is(err, domainerrors.ErrTokenExpired))

	_, err = svc.ValidateToken("not-a-token", service.TokenKindAccess)
	assert.True(t, errors.Is(err, domainerrors.ErrTokenInvalid))
}

func TestJWTService_TamperedTokenRejected(t *testing.T) {
	svc := newTestTokenService(t, 15*time.Minute, 7*24*time.Hour)

	token, err := svc.GenerateAccessToken(uuid.New(), entity.RoleCustomer)
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"

	_, err = svc.ValidateToken(tampered, service.TokenKindAccess)
	assert.True(t, errors.Is(err, domainerrors.ErrTokenInvalid))
}

func TestJWTService_HashTokenIsDeterministic(t *testing.T) {
	svc := newTestTokenService(t, 15*time.Minute, 7*24*time.Hour)

	first := svc.HashToken("some-token")
	second := svc.HashToken("some-token")
	other := svc.HashToken("other-token")

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
	assert.Len(t, first, 64)
}
