// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"catalog/config"
	domainerrors "catalog/internal/domain/errors"
	"catalog/internal/domain/service"
)

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost   int
	policy config.PasswordStrengthConfig
}

// NewBcryptHasher is the constructor for bcryptHasher.
// It returns the implementation as a service.PasswordHasher interface.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	cost := bcrypt.DefaultCost
	if cfg.Auth != nil && cfg.Auth.BcryptCost >= bcrypt.MinCost && cfg.Auth.BcryptCost <= bcrypt.MaxCost {
		cost = cfg.Auth.BcryptCost
	}

	return &bcryptHasher{
		cost:   cost,
		policy: *cfg.PasswordStrength,
	}
}

// Hash generates a salted hash from a plaintext password using bcrypt.
// bcrypt automatically handles salt generation.
func (h *bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)

	return string(bytes), err
}

// Check compares a plaintext password with a bcrypt hash.
func (h *bcryptHasher) Check(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}

// ValidateStrength checks the password against the configured policy and
// collects every violated rule into a single error, not just the first.
func (h *bcryptHasher) ValidateStrength(password string) error {
	var violations []string

	if len(password) < h.policy.MinLength {
		violations = append(violations, "must be at least "+strconv.Itoa(h.policy.MinLength)+" characters long")
	}
	if h.policy.MaxLength > 0 && len(password) > h.policy.MaxLength {
		violations = append(violations, "must be at most "+strconv.Itoa(h.policy.MaxLength)+" characters long")
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if h.policy.RequireUppercase && !hasUpper {
		violations = append(violations, "must contain an uppercase letter")
	}
	if h.policy.RequireLowercase && !hasLower {
		violations = append(violations, "must contain a lowercase letter")
	}
	if h.policy.RequireNumbers && !hasDigit {
		violations = append(violations, "must contain a digit")
	}

	if len(violations) > 0 {
		return domainerrors.ErrPasswordStrength.WithDetails("password " + strings.Join(violations, "; "))
	}

	return nil
}
