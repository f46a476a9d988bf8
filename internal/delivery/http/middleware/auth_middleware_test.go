package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	deliverycontext "catalog/internal/delivery/context"
	"catalog/internal/domain/entity"
	domainerrors "catalog/internal/domain/errors"
	"catalog/internal/domain/repository"
	"catalog/internal/domain/service"
	mockRepo "catalog/internal/mocks/repository"
	mockSvc "catalog/internal/mocks/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type authMiddlewareFixtures struct {
	middleware   *AuthMiddleware
	tokenService *mockSvc.TokenService
	accountRepo  *mockRepo.AccountRepository
}

func createTestAuthMiddleware(t *testing.T) authMiddlewareFixtures {
	t.Helper()

	tokenService := new(mockSvc.TokenService)
	accountRepo := new(mockRepo.AccountRepository)

	return authMiddlewareFixtures{
		middleware:   NewAuthMiddleware(tokenService, accountRepo),
		tokenService: tokenService,
		accountRepo:  accountRepo,
	}
}

func newEchoContext(authHeader string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}

	return e.NewContext(req, httptest.NewRecorder())
}

func passthrough(c echo.Context) error { return nil }

func TestAuthMiddleware_Authenticate_MissingHeader(t *testing.T) {
	f := createTestAuthMiddleware(t)

	err := f.middleware.Authenticate(passthrough)(newEchoContext(""))

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrTokenMissing))
}

func TestAuthMiddleware_Authenticate_MalformedHeader(t *testing.T) {
	f := createTestAuthMiddleware(t)

	err := f.middleware.Authenticate(passthrough)(newEchoContext("Token abc123"))

	require.Error(t, err)
	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "TOKEN_MISSING", appErr.ErrorCode())
}

func TestAuthMiddleware_Authenticate_Success(t *testing.T) {
	f := createTestAuthMiddleware(t)

	accountID := uuid.New()
	account := &entity.Account{ID: accountID, Role: entity.RoleCustomer, IsActive: true}

	f.tokenService.On("ValidateToken", "valid-token", service.TokenKindAccess).
		Return(&service.Claims{AccountID: accountID, Role: entity.RoleCustomer, Kind: service.TokenKindAccess}, nil)
	f.accountRepo.On("FindByID", mock.Anything, accountID).Return(account, nil)

	c := newEchoContext("Bearer valid-token")
	var seen *entity.Account
	err := f.middleware.Authenticate(func(c echo.Context) error {
		seen = deliverycontext.GetAccount(c)

		return nil
	})(c)

	require.NoError(t, err)
	require.NotNil(t, seen)
	assert.Equal(t, accountID, seen.ID)
}

func TestAuthMiddleware_Authenticate_AccountGone(t *testing.T) {
	f := createTestAuthMiddleware(t)

	accountID := uuid.New()
	f.tokenService.On("ValidateToken", "orphan-token", service.TokenKindAccess).
		Return(&service.Claims{AccountID: accountID, Kind: service.TokenKindAccess}, nil)
	f.accountRepo.On("FindByID", mock.Anything, accountID).
		Return(nil, repository.ErrAccountNotFound)

	err := f.middleware.Authenticate(passthrough)(newEchoContext("Bearer orphan-token"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrTokenInvalid))
}

func TestAuthMiddleware_Authenticate_InactiveAccount(t *testing.T) {
	f := createTestAuthMiddleware(t)

	accountID := uuid.New()
	account := &entity.Account{ID: accountID, IsActive: false}

	f.tokenService.On("ValidateToken", "valid-token", service.TokenKindAccess).
		Return(&service.Claims{AccountID: accountID, Kind: service.TokenKindAccess}, nil)
	f.accountRepo.On("FindByID", mock.Anything, accountID).Return(account, nil)

	err := f.middleware.Authenticate(passthrough)(newEchoContext("Bearer valid-token"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrAccountInactive))
}

func TestAuthMiddleware_OptionalAuthenticate_AnonymousPasses(t *testing.T) {
	f := createTestAuthMiddleware(t)

	c := newEchoContext("")
	called := false
	err := f.middleware.OptionalAuthenticate(func(c echo.Context) error {
		called = true
		assert.Nil(t, deliverycontext.GetAccount(c))

		return nil
	})(c)

	require.NoError(t, err)
	assert.True(t, called)
}

func TestAuthMiddleware_OptionalAuthenticate_InvalidTokenTreatedAsAnonymous(t *testing.T) {
	f := createTestAuthMiddleware(t)

	f.tokenService.On("ValidateToken", "bad-token", service.TokenKindAccess).
		Return(nil, domainerrors.ErrTokenInvalid.WrapMessage("token parse failed"))

	c := newEchoContext("Bearer bad-token")
	called := false
	err := f.middleware.OptionalAuthenticate(func(c echo.Context) error {
		called = true
		assert.Nil(t, deliverycontext.GetAccount(c))

		return nil
	})(c)

	require.NoError(t, err)
	assert.True(t, called)
}

func TestAuthMiddleware_RequireRole_WithoutAccountIsUnauthorized(t *testing.T) {
	f := createTestAuthMiddleware(t)

	err := f.middleware.RequireRole(entity.RoleAdmin)(passthrough)(newEchoContext(""))

	require.Error(t, err)
	// Skipping Authenticate must read as a 401, never a 403.
	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusUnauthorized, appErr.HTTPCode())
}

func TestAuthMiddleware_RequireRole_Mismatch(t *testing.T) {
	f := createTestAuthMiddleware(t)

	c := newEchoContext("")
	deliverycontext.SetAccount(c, &entity.Account{ID: uuid.New(), Role: entity.RoleCustomer, IsActive: true})

	err := f.middleware.RequireRole(entity.RoleAdmin)(passthrough)(c)

	require.Error(t, err)
	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusForbidden, appErr.HTTPCode())
	assert.Contains(t, appErr.Details(), "admin")
}

func TestAuthMiddleware_RequireRole_Match(t *testing.T) {
	f := createTestAuthMiddleware(t)

	c := newEchoContext("")
	deliverycontext.SetAccount(c, &entity.Account{ID: uuid.New(), Role: entity.RoleAdmin, IsActive: true})

	called := false
	err := f.middleware.RequireRole(entity.RoleAdmin)(func(c echo.Context) error {
		called = true

		return nil
	})(c)

	require.NoError(t, err)
	assert.True(t, called)
}
