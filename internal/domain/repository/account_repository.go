// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"catalog/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrAccountNotFound is a domain-specific error returned when an account is not found.
var ErrAccountNotFound = errors.New("account not found")

// AccountFilter narrows an account listing. Zero values mean "no constraint".
type AccountFilter struct {
	Role   entity.Role // Filter by role when valid.
	Active *bool       // Filter by active flag when non-nil.
	Search string      // Case-insensitive substring match on name or email.
}

// AccountRepository defines the standard operations for account persistence.
// The application layer depends on this interface, not the concrete implementation.
type AccountRepository interface {
	// Create persists a new account. The store enforces email uniqueness and
	// surfaces a duplicate key as domainerrors.ErrEmailTaken.
	Create(ctx context.Context, account *entity.Account) error

	// FindByID retrieves a single account by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)

	// FindByEmail retrieves a single account by its normalized (lowercased) email.
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)

	// Update modifies an existing account in the storage.
	Update(ctx context.Context, account *entity.Account) error

	// List returns a page of accounts matching the filter together with the
	// total count of matches.
	List(ctx context.Context, filter AccountFilter, page Page) ([]*entity.Account, int64, error)

	// CountByRole returns the number of accounts holding the given role,
	// regardless of active status. Used by the admin bootstrap rule.
	CountByRole(ctx context.Context, role entity.Role) (int64, error)
}
