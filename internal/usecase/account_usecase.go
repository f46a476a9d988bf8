// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"catalog/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Phone    string `json:"phone" validate:"omitempty,e164|numeric"`
	Address  string `json:"address" validate:"omitempty,max=500"`
}

// LoginInput defines the data required for an account to log in.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshInput carries the refresh token presented for rotation.
type RefreshInput struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// UpdateProfileInput defines the mutable profile fields.
type UpdateProfileInput struct {
	Name    *string `json:"name" validate:"omitempty,min=2,max=100"`
	Phone   *string `json:"phone" validate:"omitempty,e164|numeric"`
	Address *string `json:"address" validate:"omitempty,max=500"`
}

// ChangePasswordInput defines the data required to rotate a password.
type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

// ListAccountsInput defines recognized account listing parameters.
type ListAccountsInput struct {
	Role   string `query:"role" validate:"omitempty,oneof=customer admin"`
	Active *bool  `query:"active"`
	Search string `query:"q" validate:"omitempty,max=100"`
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
}

// --- Output DTOs ---

// TokenPair bundles the credentials issued on registration, login and refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthOutput returns the account together with a fresh token pair.
type AuthOutput struct {
	Account *entity.Account `json:"account"`
	Tokens  TokenPair       `json:"tokens"`
}

// AccountListOutput returns a page of accounts with its pagination envelope.
type AccountListOutput struct {
	Accounts   []*entity.Account `json:"accounts"`
	Pagination Pagination        `json:"pagination"`
}

// AccountUsecase defines the interface for account-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AccountUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*AuthOutput, error)
	Login(ctx context.Context, input *LoginInput) (*AuthOutput, error)
	Refresh(ctx context.Context, input *RefreshInput) (*AuthOutput, error)
	Logout(ctx context.Context, accountID uuid.UUID) error

	GetAccount(ctx context.Context, id uuid.UUID) (*entity.Account, error)
	UpdateProfile(ctx context.Context, accountID uuid.UUID, input *UpdateProfileInput) (*entity.Account, error)
	ChangePassword(ctx context.Context, accountID uuid.UUID, input *ChangePasswordInput) error

	ListAccounts(ctx context.Context, input *ListAccountsInput) (*AccountListOutput, error)
	SetAccountStatus(ctx context.Context, actorID, targetID uuid.UUID, active bool) (*entity.Account, error)
	DeleteAccount(ctx context.Context, actorID, targetID uuid.UUID) error
}
