package service

import (
	"time"

	"catalog/internal/domain/entity"

	"github.com/google/uuid"
)

// TokenKind distinguishes the two credentials the service issues. Verification
// enforces the expected kind so an access token can never be replayed as a
// refresh token or vice versa.
type TokenKind string

const (
	// TokenKindAccess is a short-lived credential proving recent authentication.
	TokenKindAccess TokenKind = "access"
	// TokenKindRefresh is a longer-lived credential used to mint a new pair
	// without re-authenticating with a password.
	TokenKindRefresh TokenKind = "refresh"
)

// Claims is the verified content of a token.
type Claims struct {
	AccountID uuid.UUID
	Role      entity.Role // Only populated on access tokens.
	Kind      TokenKind
}

// TokenService defines the interface for issuing and verifying signed credentials.
// Verification checks signature, expiry and kind only; it never consults the store.
type TokenService interface {
	// GenerateAccessToken signs a short-lived token carrying identity and role.
	GenerateAccessToken(accountID uuid.UUID, role entity.Role) (string, error)

	// GenerateRefreshToken signs a longer-lived token carrying identity only.
	GenerateRefreshToken(accountID uuid.UUID) (string, error)

	// ValidateToken verifies signature, expiry and kind. Failures map to the
	// domain error taxonomy: ErrTokenExpired for expired tokens and
	// ErrTokenInvalid for everything else.
	ValidateToken(token string, kind TokenKind) (*Claims, error)

	// HashToken returns a deterministic fingerprint of a raw token, suitable
	// for storage in the account's refresh-token slot.
	HashToken(token string) string

	// RefreshTokenTTL returns the configured lifetime of refresh tokens.
	RefreshTokenTTL() time.Duration
}
