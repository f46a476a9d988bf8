package context

import (
	"catalog/internal/domain/entity"

	"github.com/labstack/echo/v4"
)

// KeyAccount is the key for storing the authenticated account in context.
const KeyAccount ContextKey = "account"

// SetAccount stores the authenticated account in echo.Context.
func SetAccount(c echo.Context, account *entity.Account) {
	c.Set(string(KeyAccount), account)
}

// GetAccount extracts the authenticated account from echo.Context.
// Returns nil when the request is unauthenticated.
func GetAccount(c echo.Context) *entity.Account {
	if account, ok := c.Get(string(KeyAccount)).(*entity.Account); ok {
		return account
	}

	return nil
}
