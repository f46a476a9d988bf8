package middleware

import (
	"strings"

	deliverycontext "catalog/internal/delivery/context"
	"catalog/internal/domain/entity"
	domainerrors "catalog/internal/domain/errors"
	"catalog/internal/domain/repository"
	"catalog/internal/domain/service"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const bearerPrefix = "Bearer "

// AuthMiddleware provides middleware for JWT authentication and authorization.
type AuthMiddleware struct {
	tokenSvc    service.TokenService
	accountRepo repository.AccountRepository
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, accountRepo repository.AccountRepository) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, accountRepo: accountRepo}
}

// Authenticate validates the access token and attaches the account to the context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		account, err := m.authenticate(c)
		if err != nil {
			return err
		}

		deliverycontext.SetAccount(c, account)

		return next(c)
	}
}

// OptionalAuthenticate attaches the account when valid credentials are
// presented and proceeds anonymously on any failure. Public reads never turn
// into a 401 because of a stale token.
func (m *AuthMiddleware) OptionalAuthenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if account, err := m.authenticate(c); err == nil {
			deliverycontext.SetAccount(c, account)
		}

		return next(c)
	}
}

// RequireRole checks that the authenticated account holds one of the given
// roles. A missing account reads as unauthenticated, not forbidden, so the
// middleware order (Authenticate first) cannot silently downgrade a 401.
func (m *AuthMiddleware) RequireRole(roles ...entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			account := deliverycontext.GetAccount(c)
			if account == nil {
				return domainerrors.ErrTokenMissing.WrapMessage("role check without authentication")
			}

			for _, role := range roles {
				if account.Role == role {
					return next(c)
				}
			}

			return domainerrors.ErrForbidden.WithDetails(
				"requires role " + roleNames(roles) + ", have " + account.Role.String())
		}
	}
}

func (m *AuthMiddleware) authenticate(c echo.Context) (*entity.Account, error) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return nil, domainerrors.ErrTokenMissing.WrapMessage("authorization header absent")
	}

	tokenString := strings.TrimPrefix(authHeader, bearerPrefix)
	if tokenString == authHeader || tokenString == "" {
		return nil, domainerrors.ErrTokenMissing.WithDetails("authorization header must use the Bearer scheme")
	}

	claims, err := m.tokenSvc.ValidateToken(tokenString, service.TokenKindAccess)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	account, err := m.accountRepo.FindByID(c.Request().Context(), claims.AccountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrTokenInvalid.WrapMessage("account for token no longer exists")
		}

		return nil, errors.Wrap(err, "failed to load account for authentication")
	}

	if !account.IsActive {
		return nil, domainerrors.ErrAccountInactive.WrapMessage("authentication rejected")
	}

	return account, nil
}

func roleNames(roles []entity.Role) string {
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.String())
	}

	return strings.Join(names, " or ")
}
