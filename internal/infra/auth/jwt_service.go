// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"catalog/config"
	"catalog/internal/domain/entity"
	domainerrors "catalog/internal/domain/errors"
	"catalog/internal/domain/service"
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	accessSecret  string
	refreshSecret string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" || cfg.SecretKey.Refresh == "" {
		return nil, errors.New("jwt secrets must be provided")
	}

	return &jwtService{
		accessSecret:  cfg.SecretKey.Access,
		refreshSecret: cfg.SecretKey.Refresh,
		accessTTL:     cfg.Auth.AccessTokenTTL,
		refreshTTL:    cfg.Auth.RefreshTokenTTL,
	}, nil
}

// GenerateAccessToken signs a short-lived token carrying identity and role.
func (s *jwtService) GenerateAccessToken(accountID uuid.UUID, role entity.Role) (string, error) {
	return s.generateToken(accountID, role, s.accessTTL, s.accessSecret, service.TokenKindAccess)
}

// GenerateRefreshToken signs a longer-lived token carrying identity only.
func (s *jwtService) GenerateRefreshToken(accountID uuid.UUID) (string, error) {
	return s.generateToken(accountID, "", s.refreshTTL, s.refreshSecret, service.TokenKindRefresh)
}

// ValidateToken checks signature, expiry and kind. Expiry failures surface as
// ErrTokenExpired so the gate can report them distinctly from invalid tokens.
func (s *jwtService) ValidateToken(tokenString string, kind service.TokenKind) (*service.Claims, error) {
	secret := s.accessSecret
	if kind == service.TokenKindRefresh {
		secret = s.refreshSecret
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domainerrors.ErrTokenExpired.WrapMessage("token expired")
		}

		return nil, domainerrors.ErrTokenInvalid.WrapMessage("token parse failed")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, domainerrors.ErrTokenInvalid.WrapMessage("unexpected claims type")
	}

	tokenKind, _ := claims["kind"].(string)
	if service.TokenKind(tokenKind) != kind {
		return nil, domainerrors.ErrTokenInvalid.WrapMessage("unexpected token kind")
	}

	sub, _ := claims["sub"].(string)
	accountID, err := uuid.Parse(sub)
	if err != nil {
		return nil, domainerrors.ErrTokenInvalid.WrapMessage("malformed subject claim")
	}

	out := &service.Claims{AccountID: accountID, Kind: kind}
	if roleStr, ok := claims["role"].(string); ok {
		if role, valid := entity.RoleFromString(roleStr); valid {
			out.Role = role
		}
	}

	return out, nil
}

// HashToken returns a hex-encoded SHA-256 fingerprint of a raw token for
// storage in the account's refresh-token slot.
func (s *jwtService) HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))

	return hex.EncodeToString(sum[:])
}

// RefreshTokenTTL returns the configured duration for refresh tokens.
func (s *jwtService) RefreshTokenTTL() time.Duration {
	return s.refreshTTL
}

// generateToken is a private helper to create a JWT with specific claims.
func (s *jwtService) generateToken(accountID uuid.UUID, role entity.Role, ttl time.Duration, secret string, kind service.TokenKind) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  accountID.String(),
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
		"kind": string(kind),
	}
	// Only the access token carries the role, for stateless authorization.
	if role != "" {
		claims["role"] = role.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(secret))
}
