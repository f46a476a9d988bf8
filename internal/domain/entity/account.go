// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Account is the core identity entity of the system.
// Accounts are never physically deleted; IsActive is flipped instead.
type Account struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"` // Stored lowercased; unique across the system.
	Name         string     `json:"name"`
	PasswordHash string     `json:"-"` // bcrypt hash; never serialized to clients.
	Role         Role       `json:"role"`
	Phone        string     `json:"phone,omitempty"`
	Address      string     `json:"address,omitempty"`
	IsActive     bool       `json:"isActive"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`

	// RefreshTokenHash is the single active session slot. It holds a SHA-256
	// fingerprint of the most recently issued refresh token; issuing a new one
	// overwrites it, invalidating the previous token even before its expiry.
	RefreshTokenHash string `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NormalizeEmail lowercases and trims an email address. Every boundary that
// touches an email (registration, login, lookup) must pass through here so the
// case-insensitive uniqueness invariant holds.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsAdmin reports whether the account carries the administrator role.
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}
