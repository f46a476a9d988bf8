// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"catalog/config"
	deliverycontext "catalog/internal/delivery/context"
	"catalog/internal/domain/entity"
	domainerrors "catalog/internal/domain/errors"
	"catalog/internal/domain/repository"
	"catalog/internal/domain/service"
	"catalog/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// accountService implements the AccountUsecase interface.
type accountService struct {
	txManager    repository.TransactionManager
	accountRepo  repository.AccountRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	cfg          *config.Config
	logger       *slog.Logger
}

// AccountServiceParams holds dependencies for accountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	AccountRepo  repository.AccountRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Config       *config.Config
	Logger       *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	return &accountService{
		txManager:    params.TxManager,
		accountRepo:  params.AccountRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		cfg:          params.Config,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register orchestrates the complete account registration process.
func (srv *accountService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.AuthOutput, error) {
	email := entity.NormalizeEmail(input.Email)
	srv.log(ctx).Info("Starting registration", slog.String("email", email))

	if err := srv.hasher.ValidateStrength(input.Password); err != nil {
		srv.log(ctx).Warn("Password validation failed during registration", slog.String("email", email))

		return nil, errors.WithStack(err)
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	var registered *entity.Account
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		if _, findErr := accountRepo.FindByEmail(ctx, email); findErr == nil {
			return domainerrors.ErrEmailTaken.WrapMessage("email already registered")
		} else if !errors.Is(findErr, repository.ErrAccountNotFound) {
			return errors.Wrap(findErr, "failed to check email availability")
		}

		role, roleErr := srv.resolveRole(ctx, accountRepo)
		if roleErr != nil {
			return roleErr
		}

		newAccount := &entity.Account{
			Email:        email,
			Name:         strings.TrimSpace(input.Name),
			PasswordHash: hashedPassword,
			Role:         role,
			Phone:        strings.TrimSpace(input.Phone),
			Address:      strings.TrimSpace(input.Address),
			IsActive:     true,
		}

		if createErr := accountRepo.Create(ctx, newAccount); createErr != nil {
			return errors.Wrap(createErr, "failed to create account during registration")
		}

		registered = newAccount

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("email", email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute registration transaction")
	}

	tokens, err := srv.issueTokenPair(ctx, registered)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue tokens after registration")
	}

	srv.log(ctx).Debug("Registration completed",
		slog.Any("accountID", registered.ID), slog.String("role", registered.Role.String()))

	return &usecase.AuthOutput{Account: registered, Tokens: *tokens}, nil
}

// resolveRole decides the role of a new registration. Elevation to admin is
// permitted only through the explicit bootstrap flag, or outside production
// while no administrator exists yet.
func (srv *accountService) resolveRole(ctx context.Context, accountRepo repository.AccountRepository) (entity.Role, error) {
	if srv.cfg.Auth != nil && srv.cfg.Auth.AllowAdminBootstrap {
		return entity.RoleAdmin, nil
	}

	if !srv.cfg.IsProduction() {
		adminCount, err := accountRepo.CountByRole(ctx, entity.RoleAdmin)
		if err != nil {
			return "", errors.Wrap(err, "failed to count administrators")
		}
		if adminCount == 0 {
			srv.log(ctx).Info("Bootstrapping first administrator account")

			return entity.RoleAdmin, nil
		}
	}

	return entity.RoleCustomer, nil
}

// Login orchestrates the account login process.
func (srv *accountService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthOutput, error) {
	email := entity.NormalizeEmail(input.Email)
	srv.log(ctx).Debug("Starting login", slog.String("email", email))

	account, err := srv.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			// Same message as a password mismatch to resist account enumeration.
			srv.log(ctx).Warn("Login failed: unknown email", slog.String("email", email))

			return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
		}

		return nil, errors.Wrap(err, "failed to load account for login")
	}

	// bcrypt comparison runs before the active check so both failure paths
	// cost roughly the same.
	if !srv.hasher.Check(input.Password, account.PasswordHash) {
		srv.log(ctx).Warn("Login failed: password mismatch", slog.Any("accountID", account.ID))

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
	}

	// Inactive accounts get the same response as bad credentials so a login
	// probe cannot distinguish deactivated accounts from unknown ones.
	if !account.IsActive {
		srv.log(ctx).Warn("Login failed: inactive account", slog.Any("accountID", account.ID))

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
	}

	now := time.Now()
	account.LastLoginAt = &now

	tokens, err := srv.issueTokenPair(ctx, account)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue tokens during login")
	}

	srv.log(ctx).Debug("Login successful", slog.Any("accountID", account.ID))

	return &usecase.AuthOutput{Account: account, Tokens: *tokens}, nil
}

// Refresh rotates the token pair presented by a valid refresh token. The
// stored single-slot hash must match; any previously issued refresh token is
// invalidated by the overwrite.
func (srv *accountService) Refresh(ctx context.Context, input *usecase.RefreshInput) (*usecase.AuthOutput, error) {
	srv.log(ctx).Debug("Attempting token refresh")

	claims, err := srv.tokenService.ValidateToken(input.RefreshToken, service.TokenKindRefresh)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var out *usecase.AuthOutput
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		account, findErr := accountRepo.FindByID(ctx, claims.AccountID)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrAccountNotFound) {
				return domainerrors.ErrRefreshTokenInvalid.WrapMessage("account no longer exists")
			}

			return errors.Wrap(findErr, "failed to load account for refresh")
		}

		if !account.IsActive {
			return domainerrors.ErrAccountInactive.WrapMessage("refresh rejected")
		}

		// Enforce the single-active-session invariant: only the most recently
		// issued refresh token matches the stored fingerprint.
		if account.RefreshTokenHash == "" ||
			account.RefreshTokenHash != srv.tokenService.HashToken(input.RefreshToken) {
			return domainerrors.ErrRefreshTokenInvalid.WrapMessage("refresh token superseded")
		}

		tokens, issueErr := srv.issueTokenPairTx(ctx, accountRepo, account)
		if issueErr != nil {
			return issueErr
		}

		out = &usecase.AuthOutput{Account: account, Tokens: *tokens}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Token refresh failed", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute refresh transaction")
	}

	srv.log(ctx).Debug("Token refresh successful", slog.Any("accountID", out.Account.ID))

	return out, nil
}

// Logout clears the account's refresh token slot, ending the active session.
func (srv *accountService) Logout(ctx context.Context, accountID uuid.UUID) error {
	srv.log(ctx).Info("Logging out", slog.Any("accountID", accountID))

	account, err := srv.loadAccount(ctx, accountID)
	if err != nil {
		return err
	}

	account.RefreshTokenHash = ""
	if err := srv.accountRepo.Update(ctx, account); err != nil {
		return errors.Wrap(err, "failed to clear refresh token during logout")
	}

	return nil
}

// GetAccount retrieves a single account by ID.
func (srv *accountService) GetAccount(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	return srv.loadAccount(ctx, id)
}

// UpdateProfile applies the mutable profile fields to the account.
func (srv *accountService) UpdateProfile(ctx context.Context, accountID uuid.UUID, input *usecase.UpdateProfileInput) (*entity.Account, error) {
	account, err := srv.loadAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		account.Name = strings.TrimSpace(*input.Name)
	}
	if input.Phone != nil {
		account.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Address != nil {
		account.Address = strings.TrimSpace(*input.Address)
	}

	if err := srv.accountRepo.Update(ctx, account); err != nil {
		return nil, errors.Wrap(err, "failed to update profile")
	}

	srv.log(ctx).Debug("Profile updated", slog.Any("accountID", accountID))

	return account, nil
}

// ChangePassword rotates the password after verifying the current one, and
// clears the refresh slot so other holders of the old session are logged out.
func (srv *accountService) ChangePassword(ctx context.Context, accountID uuid.UUID, input *usecase.ChangePasswordInput) error {
	account, err := srv.loadAccount(ctx, accountID)
	if err != nil {
		return err
	}

	if !srv.hasher.Check(input.CurrentPassword, account.PasswordHash) {
		srv.log(ctx).Warn("Password change rejected: current password mismatch", slog.Any("accountID", accountID))

		return domainerrors.ErrPasswordMismatch.WrapMessage("password change rejected")
	}

	if err := srv.hasher.ValidateStrength(input.NewPassword); err != nil {
		return errors.WithStack(err)
	}

	hashed, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return errors.Wrap(err, "failed to hash new password")
	}

	account.PasswordHash = hashed
	account.RefreshTokenHash = ""

	if err := srv.accountRepo.Update(ctx, account); err != nil {
		return errors.Wrap(err, "failed to persist new password")
	}

	srv.log(ctx).Info("Password changed", slog.Any("accountID", accountID))

	return nil
}

// ListAccounts returns a page of accounts matching the recognized filters.
func (srv *accountService) ListAccounts(ctx context.Context, input *usecase.ListAccountsInput) (*usecase.AccountListOutput, error) {
	filter := repository.AccountFilter{
		Active: input.Active,
		Search: strings.TrimSpace(input.Search),
	}
	if role, ok := entity.RoleFromString(input.Role); ok {
		filter.Role = role
	}

	page := normalizePage(input.Page, input.Limit, "created_at", repository.SortDesc)

	accounts, total, err := srv.accountRepo.List(ctx, filter, page)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list accounts")
	}

	return &usecase.AccountListOutput{
		Accounts:   accounts,
		Pagination: usecase.NewPagination(page.Page, page.Limit, total),
	}, nil
}

// SetAccountStatus toggles the active flag of a target account. An
// administrator may not toggle their own account.
func (srv *accountService) SetAccountStatus(ctx context.Context, actorID, targetID uuid.UUID, active bool) (*entity.Account, error) {
	if actorID == targetID {
		return nil, domainerrors.ErrSelfAction.WrapMessage("status toggle blocked")
	}

	account, err := srv.loadAccount(ctx, targetID)
	if err != nil {
		return nil, err
	}

	account.IsActive = active
	if !active {
		// Deactivation ends the account's session immediately.
		account.RefreshTokenHash = ""
	}

	if err := srv.accountRepo.Update(ctx, account); err != nil {
		return nil, errors.Wrap(err, "failed to update account status")
	}

	srv.log(ctx).Info("Account status changed",
		slog.Any("accountID", targetID), slog.Bool("active", active), slog.Any("actorID", actorID))

	return account, nil
}

// DeleteAccount soft-deletes a target account. Self-deletion is blocked.
func (srv *accountService) DeleteAccount(ctx context.Context, actorID, targetID uuid.UUID) error {
	if actorID == targetID {
		return domainerrors.ErrSelfAction.WrapMessage("self deletion blocked")
	}

	account, err := srv.loadAccount(ctx, targetID)
	if err != nil {
		return err
	}

	account.IsActive = false
	account.RefreshTokenHash = ""

	if err := srv.accountRepo.Update(ctx, account); err != nil {
		return errors.Wrap(err, "failed to soft delete account")
	}

	srv.log(ctx).Info("Account soft deleted", slog.Any("accountID", targetID), slog.Any("actorID", actorID))

	return nil
}

// loadAccount fetches an account and maps the not-found case onto the client taxonomy.
func (srv *accountService) loadAccount(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	account, err := srv.accountRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrAccountNotFound.WrapMessage("account lookup failed")
		}

		return nil, errors.Wrap(err, "failed to load account")
	}

	return account, nil
}

// issueTokenPair generates a fresh pair and persists the refresh fingerprint
// into the account's single slot through the service's direct repository.
func (srv *accountService) issueTokenPair(ctx context.Context, account *entity.Account) (*usecase.TokenPair, error) {
	return srv.issueTokenPairTx(ctx, srv.accountRepo, account)
}

func (srv *accountService) issueTokenPairTx(ctx context.Context, accountRepo repository.AccountRepository, account *entity.Account) (*usecase.TokenPair, error) {
	accessToken, err := srv.tokenService.GenerateAccessToken(account.ID, account.Role)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate access token")
	}

	refreshToken, err := srv.tokenService.GenerateRefreshToken(account.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate refresh token")
	}

	// Overwrite the slot; the previously issued refresh token (if any) is
	// invalidated even though it has not expired.
	account.RefreshTokenHash = srv.tokenService.HashToken(refreshToken)

	if err := accountRepo.Update(ctx, account); err != nil {
		return nil, errors.Wrap(err, "failed to persist refresh token")
	}

	return &usecase.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// normalizePage clamps paging inputs and applies the sort defaults.
func normalizePage(page, limit int, sortBy, sortOrder string) repository.Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	return repository.Page{
		Page:      page,
		Limit:     limit,
		SortBy:    sortBy,
		SortOrder: sortOrder,
	}
}
