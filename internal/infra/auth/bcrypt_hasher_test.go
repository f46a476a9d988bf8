package auth

import (
	"testing"

	"catalog/config"
	domainerrors "catalog/internal/domain/errors"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHasher() *bcryptHasher {
	cfg := &config.Config{
		Auth: &config.AuthConfig{BcryptCost: 4},
		PasswordStrength: &config.PasswordStrengthConfig{
			MinLength:        8,
			MaxLength:        72,
			RequireUppercase: true,
			RequireLowercase: true,
			RequireNumbers:   true,
		},
	}

	return NewBcryptHasher(cfg).(*bcryptHasher)
}

func TestBcryptHasher_HashAndCheck(t *testing.T) {
	h := newTestHasher()

	hash, err := h.Hash("Password123")
	require.NoError(t, err)
	assert.NotEqual(t, "Password123", hash)

	assert.True(t, h.Check("Password123", hash))
	assert.False(t, h.Check("WrongPassword1", hash))
}

func TestBcryptHasher_ValidateStrength(t *testing.T) {
	h := newTestHasher()

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "valid", password: "Password123", wantErr: false},
		{name: "too short", password: "Pw1", wantErr: true},
		{name: "no uppercase", password: "password123", wantErr: true},
		{name: "no lowercase", password: "PASSWORD123", wantErr: true},
		{name: "no digit", password: "PasswordOnly", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.ValidateStrength(tt.password)
			if tt.wantErr {
				require.Error(t, err)
				var appErr domainerrors.AppError
				require.True(t, errors.As(err, &appErr))
				assert.Equal(t, "PASSWORD_STRENGTH", appErr.ErrorCode())
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestBcryptHasher_CollectsAllViolations(t *testing.T) {
	h := newTestHasher()

	err := h.ValidateStrength("abc")

	require.Error(t, err)
	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	details := appErr.Details()
	assert.Contains(t, details, "at least 8 characters")
	assert.Contains(t, details, "uppercase letter")
	assert.Contains(t, details, "digit")
}
