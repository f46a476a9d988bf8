package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"catalog/config"
	"catalog/internal/domain/entity"
	domainerrors "catalog/internal/domain/errors"
	"catalog/internal/domain/repository"
	"catalog/internal/domain/service"
	mockRepo "catalog/internal/mocks/repository"
	mockSvc "catalog/internal/mocks/service"
	"catalog/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// accountServiceFixtures holds all test dependencies for account service tests.
type accountServiceFixtures struct {
	service      usecase.AccountUsecase
	accountRepo  *mockRepo.AccountRepository
	hasher       *mockSvc.PasswordHasher
	tokenService *mockSvc.TokenService
	cfg          *config.Config
}

func createTestAccountService(t *testing.T) accountServiceFixtures {
	t.Helper()

	accountRepo := new(mockRepo.AccountRepository)
	hasher := new(mockSvc.PasswordHasher)
	tokenService := new(mockSvc.TokenService)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	factory := new(mockRepo.RepositoryFactory)
	factory.On("AccountRepo").Return(accountRepo).Maybe()
	txManager := &mockRepo.TransactionManager{Factory: factory}

	cfg := &config.Config{
		Auth: &config.AuthConfig{},
	}
	cfg.Env.Env = "development"

	svc := NewAccountService(AccountServiceParams{
		TxManager:    txManager,
		AccountRepo:  accountRepo,
		Hasher:       hasher,
		TokenService: tokenService,
		Config:       cfg,
		Logger:       logger,
	})

	return accountServiceFixtures{
		service:      svc,
		accountRepo:  accountRepo,
		hasher:       hasher,
		tokenService: tokenService,
		cfg:          cfg,
	}
}

func expectTokenPair(f accountServiceFixtures, accountID any, role any) {
	f.tokenService.On("GenerateAccessToken", accountID, role).Return("access-token", nil)
	f.tokenService.On("GenerateRefreshToken", accountID).Return("refresh-token", nil)
	f.tokenService.On("HashToken", "refresh-token").Return("refresh-token-hash")
}

func TestAccountService_Register_Success(t *testing.T) {
	f := createTestAccountService(t)
	ctx := context.Background()

	input := &usecase.RegisterInput{
		Name:     "Test User",
		Email:    "Test@Example.com",
		Password: "Password123",
	}

	f.hasher.On("ValidateStrength", "Password123").Return(nil)
	f.hasher.On("Hash", "Password123").Return("hashed-password", nil)
	f.accountRepo.On("FindByEmail", ctx, "test@example.com").
		Return(nil, repository.ErrAccountNotFound)
	f.accountRepo.On("CountByRole", ctx, entity.RoleAdmin).Return(int64(1), nil)
	f.accountRepo.On("Create", ctx, mock.AnythingOfType("*entity.Account")).Return(nil)
	f.accountRepo.On("Update", ctx, mock.AnythingOfType("*entity.Account")).Return(nil)
	expectTokenPair(f, mock.AnythingOfType("uuid.UUID"), entity.RoleCustomer)

	output, err := f.service.Register(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "test@example.com", output.Account.Email)
	assert.Equal(t, entity.RoleCustomer, output.Account.Role)
	assert.Equal(t, "access-token", output.Tokens.AccessToken)
	assert.Equal(t, "refresh-token", output.Tokens.RefreshToken)
	assert.Equal(t, "refresh-token-hash", output.Account.RefreshTokenHash)
	f.accountRepo.AssertExpectations(t)
}

func TestAccountService_Register_BootstrapsFirstAdmin(t *testing.T) {
	f := createTestAccountService(t)
	ctx := context.Background()

	input := &usecase.RegisterInput{
		Name:     "First Admin",
		Email:    "admin@example.com",
		Password: "Password123",
	}

	f.hasher.On("ValidateStrength", "Password123").Return(nil)
	f.hasher.On("Hash", "Password123").Return("hashed-password", nil)
	f.accountRepo.On("FindByEmail", ctx, "admin@example.com").
		Return(nil, repository.ErrAccountNotFound)
	f.accountRepo.On("CountByRole", ctx, entity.RoleAdmin).Return(int64(0), nil)
	f.accountRepo.On("Create", ctx, mock.AnythingOfType("*entity.Account")).Return(nil)
	f.accountRepo.On("Update", ctx, mock.AnythingOfType("*entity.Account")).Return(nil)
	expectTokenPair(f, mock.AnythingOfType("uuid.UUID"), entity.RoleAdmin)

	output, err := f.service.Register(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, output.Account.Role)
}

func TestAccountService_Register_NoBootstrapInProduction(t *testing.T) {
	f := createTestAccountService(t)
	f.cfg.Env.Env = "production"
	ctx := context.Background()

	input := &usecase.RegisterInput{
		Name:     "Prod User",
		Email:    "prod@example.com",
		Password: "Password123",
	}

	f.hasher.On("ValidateStrength", "Password123").Return(nil)
	f.hasher.On("Hash", "Password123").Return("hashed-password", nil)
	f.accountRepo.On("FindByEmail", ctx, "prod@example.com").
		Return(nil, repository.ErrAccountNotFound)
	f.accountRepo.On("Create", ctx, mock.AnythingOfType("*entity.Account")).Return(nil)
	f.accountRepo.On("Update", ctx, mock.AnythingOfType("*entity.Account")).Return(nil)
	expectTokenPair(f, mock.AnythingOfType("uuid.UUID"), entity.RoleCustomer)

	output, err := f.service.Register(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, entity.RoleCustomer, output.Account.Role)
	f.accountRepo.AssertNotCalled(t, "CountByRole", ctx, entity.RoleAdmin)
}

func TestAccountService_Register_EmailTaken(t *testing.T) {
	f := createTestAccountService(t)
	ctx := context.Background()

	existing := &entity.Account{ID: uuid.New(), Email: "taken@example.com"}

	f.hasher.On("ValidateStrength", "Password123").Return(nil)
	f.hasher.On("Hash", "Password123").Return("hashed-password", nil)
	f.accountRepo.On("FindByEmail", ctx, "taken@example.com").Return(existing, nil)

	_, err := f.service.Register(ctx, &usecase.RegisterInput{
		Name:     "Dup",
		Email:    "taken@example.com",
		Password: "Password123",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrEmailTaken))
	f.accountRepo.AssertNotCalled(t, "Create", ctx, mock.Anything)
}

func TestAccountService_Register_WeakPassword(t *testing.T) {
	f := createTestAccountService(t)
	ctx := context.Background()

	f.hasher.On("ValidateStrength", "weak").
		Return(domainerrors.ErrPasswordStrength.WithDetails("password must be at least 8 characters"))

	_, err := f.service.Register(ctx, &usecase.RegisterInput{
		Name:     "Weak",
		Email:    "weak@example.com",
		Password: "weak",
	})

	require.Error(t, err)
	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "PASSWORD_STRENGTH", appErr.ErrorCode())
}

func TestAccountService_Login_Success(t *testing.T) {
	f := createTestAccountService(t)
	ctx := context.Background()

	account := &entity.Account{
		ID:           uuid.New(),
		Email:        "test@example.com",
		PasswordHash: "hashed-password",
		Role:         entity.RoleCustomer,
		IsActive:     true,
	}

	f.accountRepo.On("FindByEmail", ctx, "test@example.com").Return(account, nil)
	f.hasher.On("Check", "Password123", "hashed-password").Return(true)
	f.accountRepo.On("Update", ctx, account).Return(nil)
	expectTokenPair(f, account.ID, entity.RoleCustomer)

	output, err := f.service.Login(ctx, &usecase.LoginInput{
		Email:    "Test@Example.com",
		Password: "Password123",
	})

	require.NoError(t, err)
	assert.Equal(t, account.ID, output.Account.ID)
	assert.NotNil(t, output.Account.LastLoginAt)
	assert.Equal(t, "refresh-token-hash", output.Account.RefreshTokenHash)
}

func TestAccountService_Login_EnumerationResistant(t *testing.T) {
	f := createTestAccountService(t)
	ctx := context.Background()

	account := &entity.Account{
		ID:           uuid.New(),
		Email:        "known@example.com",
		PasswordHash: "hashed-password",
		IsActive:     true,
	}

	f.accountRepo.On("FindByEmail", ctx, "unknown@example.com").
		Return(nil, repository.ErrAccountNotFound)
	f.accountRepo.On("FindByEmail", ctx, "known@example.com").Return(account, nil)
	f.hasher.On("Check", "WrongPass1", "hashed-password").Return(false)

	_, unknownErr := f.service.Login(ctx, &usecase.LoginInput{
		Email:    "unknown@example.com",
		Password: "WrongPass1",
	})
	_, wrongPassErr := f.service.Login(ctx, &usecase.LoginInput{
		Email:    "known@example.com",
		Password: "WrongPass1",
	})

	require.Error(t, unknownErr)
	require.Error(t, wrongPassErr)

	// Both failures must present the identical client-facing error.
	var unknownApp, wrongPassApp domainerrors.AppError
	require.True(t, errors.As(unknownErr, &unknownApp))
	require.True(t, errors.As(wrongPassErr, &wrongPassApp))
	assert.Equal(t, unknownApp.ErrorCode(), wrongPassApp.ErrorCode())
	assert.Equal(t, unknownApp.Message(), wrongPassApp.Message())
}

func TestAccountService_Login_InactiveAccount(t *testing.T) {
	f := createTestAccountService(t)
	ctx := context.Background()

	account := &entity.Account{
		ID:           uuid.New(),
		Email:        "inactive@example.com",
		PasswordHash: "hashed-password",
		IsActive:     false,
	}

	f.accountRepo.On("FindByEmail", ctx, "inactive@example.com").Return(account, nil)
	f.hasher.On("Check", "Password123", "hashed-password").Return(true)

	_, err := f.service.Login(ctx, &usecase.LoginInput{
		Email:    "inactive@example.com",
		Password: "Password123",
	})

	require.Error(t, err)
	// Indistinguishable from bad credentials on purpose.
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestAccountService_Refresh_Success(t *testing.T) {
	f := createTestAccountService(t)
	ctx := context.Background()

	accountID := uuid.New()
	account := &entity.Account{
		ID:               accountID,
		Role:             entity.RoleCustomer,
		IsActive:         true,
		RefreshTokenHash: "old-refresh-hash",
	}

	f.tokenService.On("ValidateToken", "old-refresh-token", service.TokenKindRefresh).
		Return(&service.Claims{AccountID: accountID, Kind: service.TokenKindRefresh}, nil)
	f.tokenService.On("HashToken", "old-refresh-token").Return("old-refresh-hash")
	f.accountRepo.On("FindByID", ctx, accountID).Return(account, nil)
	f.accountRepo.On("Update", ctx, account).Return(nil)
	f.tokenService.On("GenerateAccessToken", accountID, entity.RoleCustomer).Return("new-access", nil)
	f.tokenService.On("GenerateRefreshToken", accountID).Return("new-refresh", nil)
	f.tokenService.On("HashToken", "new-refresh").Return("new-refresh-hash")

	output, err := f.service.Refresh(ctx, &usecase.RefreshInput{RefreshToken: "old-refresh-token"})

	require.NoError(t, err)
	assert.Equal(t, "new-access", output.Tokens.AccessToken)
	assert.Equal(t, "new-refresh", output.Tokens.RefreshToken)
	// Rotation overwrites the slot, invalidating the presented token.
	assert.Equal(t, "new-refresh-hash", account.RefreshTokenHash)
}

func TestAccountService_Refresh_SupersededToken(t *testing.T) {
	f := createTestAccountService(t)
	ctx := context.Background()

	accountID := uuid.New()
	account := &entity.Account{
		ID:               accountID,
		IsActive:         true,
		RefreshTokenHash: "current-refresh-hash",
	}

	f.tokenService.On("ValidateToken", "stale-refresh-token", service.TokenKindRefresh).
		Return(&service.Claims{AccountID: accountID, Kind: service.TokenKindRefresh}, nil)
	f.tokenService.On("HashToken", "stale-refresh-token").Return("stale-refresh-hash")
	f.accountRepo.On("FindByID", ctx, accountID).Return(account, nil)

	_, err := f.service.Refresh(ctx, &usecase.RefreshInput{RefreshToken: "stale-refresh-token"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))
	f.accountRepo.AssertNotCalled(t, "Update", ctx, mock.Anything)
}

func TestAccountService_Logout_ClearsRefreshSlot(t *testing.T) {
	f := createTestAccountService(t)
	ctx := context.Background()

	accountID := uuid.New()
	account := &entity.Account{ID: accountID, IsActive: true, RefreshTokenHash: "some-hash"}

	f.accountRepo.On("FindByID", ctx, accountID).Return(account, nil)
	f.accountRepo.On("Update", ctx, account).Return(nil)

	err := f.service.Logout(ctx, accountID)

	require.NoError(t, err)
	assert.Empty(t, account.RefreshTokenHash)
}

func TestAccountService_ChangePassword_WrongCurrent(t *testing.T) {
	f := createTestAccountService(t)
	ctx := context.Background()

	accountID := uuid.New()
	account := &entity.Account{ID: accountID, PasswordHash: "hashed-password", IsActive: true}

	f.accountRepo.On("FindByID", ctx, accountID).Return(account, nil)
	f.hasher.On("Check", "WrongCurrent1", "hashed-password").Return(false)

	err := f.service.ChangePassword(ctx, accountID, &usecase.ChangePasswordInput{
		CurrentPassword: "WrongCurrent1",
		NewPassword:     "NewPassword1",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrPasswordMismatch))
	f.accountRepo.AssertNotCalled(t, "Update", ctx, mock.Anything)
}

func TestAccountService_ChangePassword_EndsSession(t *testing.T) {
	f := createTestAccountService(t)
	ctx := context.Background()

	accountID := uuid.New()
	account := &entity.Account{
		ID:               accountID,
		PasswordHash:     "hashed-password",
		RefreshTokenHash: "some-hash",
		IsActive:         true,
	}

	f.accountRepo.On("FindByID", ctx, accountID).Return(account, nil)
	f.hasher.On("Check", "Current1234", "hashed-password").Return(true)
	f.hasher.On("ValidateStrength", "NewPassword1").Return(nil)
	f.hasher.On("Hash", "NewPassword1").Return("new-hashed-password", nil)
	f.accountRepo.On("Update", ctx, account).Return(nil)

	err := f.service.ChangePassword(ctx, accountID, &usecase.ChangePasswordInput{
		CurrentPassword: "Current1234",
		NewPassword:     "NewPassword1",
	})

	require.NoError(t, err)
	assert.Equal(t, "new-hashed-password", account.PasswordHash)
	assert.Empty(t, account.RefreshTokenHash)
}

func TestAccountService_SetAccountStatus_SelfBlocked(t *testing.T) {
	f := createTestAccountService(t)
	ctx := context.Background()

	adminID := uuid.New()

	_, err := f.service.SetAccountStatus(ctx, adminID, adminID, false)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrSelfAction))
}

func TestAccountService_SetAccountStatus_DeactivateClearsSlot(t *testing.T) {
	f := createTestAccountService(t)
	ctx := context.Background()

	targetID := uuid.New()
	target := &entity.Account{ID: targetID, IsActive: true, RefreshTokenHash: "some-hash"}

	f.accountRepo.On("FindByID", ctx, targetID).Return(target, nil)
	f.accountRepo.On("Update", ctx, target).Return(nil)

	updated, err := f.service.SetAccountStatus(ctx, uuid.New(), targetID, false)

	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Empty(t, updated.RefreshTokenHash)
}

func TestAccountService_DeleteAccount_SelfBlocked(t *testing.T) {
	f := createTestAccountService(t)
	ctx := context.Background()

	adminID := uuid.New()

	err := f.service.DeleteAccount(ctx, adminID, adminID)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrSelfAction))
}

func TestAccountService_ListAccounts_ClampsPaging(t *testing.T) {
	f := createTestAccountService(t)
	ctx := context.Background()

	f.accountRepo.On("List", ctx, mock.AnythingOfType("repository.AccountFilter"),
		repository.Page{Page: 1, Limit: 100, SortBy: "created_at", SortOrder: repository.SortDesc}).
		Return([]*entity.Account{}, int64(0), nil)

	output, err := f.service.ListAccounts(ctx, &usecase.ListAccountsInput{Page: 0, Limit: 500})

	require.NoError(t, err)
	assert.Equal(t, 1, output.Pagination.Page)
	assert.Equal(t, 100, output.Pagination.Limit)
	f.accountRepo.AssertExpectations(t)
}
