package handler

import (
	"log/slog"
	"net/http"

	deliverycontext "catalog/internal/delivery/context"
	"catalog/internal/delivery/http/response"
	domainerrors "catalog/internal/domain/errors"
	"catalog/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AccountHandler holds dependencies for account and auth handlers.
type AccountHandler struct {
	uc     usecase.AccountUsecase
	logger *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler, injected by Fx.
func NewAccountHandler(uc usecase.AccountUsecase, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{uc: uc, logger: logger}
}

// Register handles the account registration request.
func (h *AccountHandler) Register(c echo.Context) error {
	var input usecase.RegisterInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Register(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, output, "Account registered successfully")
}

// Login handles the login request.
func (h *AccountHandler) Login(c echo.Context) error {
	var input usecase.LoginInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Login(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Login successful")
}

// Refresh handles the token rotation request.
func (h *AccountHandler) Refresh(c echo.Context) error {
	var input usecase.RefreshInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid refresh input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Refresh(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Token refreshed successfully")
}

// Logout ends the authenticated account's session.
func (h *AccountHandler) Logout(c echo.Context) error {
	account := deliverycontext.GetAccount(c)
	if account == nil {
		return domainerrors.ErrTokenMissing.WrapMessage("logout without authentication")
	}

	if err := h.uc.Logout(c.Request().Context(), account.ID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Logout successful")
}

// GetProfile returns the authenticated account.
func (h *AccountHandler) GetProfile(c echo.Context) error {
	account := deliverycontext.GetAccount(c)
	if account == nil {
		return domainerrors.ErrTokenMissing.WrapMessage("profile access without authentication")
	}

	return response.Success(c, http.StatusOK, account, "")
}

// UpdateProfile applies a partial update to the authenticated account.
func (h *AccountHandler) UpdateProfile(c echo.Context) error {
	account := deliverycontext.GetAccount(c)
	if account == nil {
		return domainerrors.ErrTokenMissing.WrapMessage("profile update without authentication")
	}

	var input usecase.UpdateProfileInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid profile input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	updated, err := h.uc.UpdateProfile(c.Request().Context(), account.ID, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, updated, "Profile updated successfully")
}

// ChangePassword rotates the authenticated account's password.
func (h *AccountHandler) ChangePassword(c echo.Context) error {
	account := deliverycontext.GetAccount(c)
	if account == nil {
		return domainerrors.ErrTokenMissing.WrapMessage("password change without authentication")
	}

	var input usecase.ChangePasswordInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid password input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	if err := h.uc.ChangePassword(c.Request().Context(), account.ID, &input); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Password changed successfully")
}

// ListAccounts returns a page of accounts for an administrator.
func (h *AccountHandler) ListAccounts(c echo.Context) error {
	var input usecase.ListAccountsInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid listing parameters")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.ListAccounts(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "")
}

// GetAccount returns a single account by ID for an administrator.
func (h *AccountHandler) GetAccount(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	account, err := h.uc.GetAccount(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, account, "")
}

// StatusInput toggles the active flag of an account or product.
type StatusInput struct {
	Active *bool `json:"active" validate:"required"`
}

// SetAccountStatus toggles a target account's active flag.
func (h *AccountHandler) SetAccountStatus(c echo.Context) error {
	actor := deliverycontext.GetAccount(c)
	if actor == nil {
		return domainerrors.ErrTokenMissing.WrapMessage("status change without authentication")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var input StatusInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid status input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	account, err := h.uc.SetAccountStatus(c.Request().Context(), actor.ID, id, *input.Active)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, account, "Account status updated")
}

// DeleteAccount soft-deletes a target account.
func (h *AccountHandler) DeleteAccount(c echo.Context) error {
	actor := deliverycontext.GetAccount(c)
	if actor == nil {
		return domainerrors.ErrTokenMissing.WrapMessage("deletion without authentication")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	if err := h.uc.DeleteAccount(c.Request().Context(), actor.ID, id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Account deleted")
}

// parseIDParam reads the :id route parameter as a UUID.
func parseIDParam(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, domainerrors.ErrValidationFailed.WithDetails("id must be a valid UUID")
	}

	return id, nil
}
