package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "user@example.com", NormalizeEmail("  User@Example.COM "))
	assert.Equal(t, "a@b.c", NormalizeEmail("a@b.c"))
}

func TestRoleFromString(t *testing.T) {
	role, ok := RoleFromString("admin")
	assert.True(t, ok)
	assert.Equal(t, RoleAdmin, role)

	role, ok = RoleFromString("customer")
	assert.True(t, ok)
	assert.Equal(t, RoleCustomer, role)

	_, ok = RoleFromString("superuser")
	assert.False(t, ok)
}

func TestAccount_IsAdmin(t *testing.T) {
	assert.True(t, (&Account{Role: RoleAdmin}).IsAdmin())
	assert.False(t, (&Account{Role: RoleCustomer}).IsAdmin())
}
