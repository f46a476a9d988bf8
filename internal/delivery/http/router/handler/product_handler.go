package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	deliverycontext "catalog/internal/delivery/context"
	"catalog/internal/delivery/http/response"
	domainerrors "catalog/internal/domain/errors"
	"catalog/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ProductHandler holds dependencies for catalog handlers.
type ProductHandler struct {
	uc     usecase.CatalogUsecase
	logger *slog.Logger
}

// NewProductHandler is the constructor for ProductHandler, injected by Fx.
func NewProductHandler(uc usecase.CatalogUsecase, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{uc: uc, logger: logger}
}

// ListProducts returns a filtered, sorted page of the catalog.
func (h *ProductHandler) ListProducts(c echo.Context) error {
	var input usecase.ListProductsInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid listing parameters")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	account := deliverycontext.GetAccount(c)
	isAdmin := account != nil && account.IsAdmin()

	output, err := h.uc.ListProducts(c.Request().Context(), &input, isAdmin)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "")
}

// GetProduct returns a single product. Administrators also see inactive products.
func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	account := deliverycontext.GetAccount(c)
	includeInactive := account != nil && account.IsAdmin()

	product, err := h.uc.GetProduct(c.Request().Context(), id, includeInactive)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, product, "")
}

// ListFeatured returns the most recent featured products.
func (h *ProductHandler) ListFeatured(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return domainerrors.ErrValidationFailed.WithDetails("limit must be an integer")
		}
		limit = parsed
	}

	products, err := h.uc.ListFeatured(c.Request().Context(), limit)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, products, "")
}

// ListCategories returns the distinct categories among active products.
func (h *ProductHandler) ListCategories(c echo.Context) error {
	categories, err := h.uc.ListCategories(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, categories, "")
}

// CreateProduct creates a product on behalf of an administrator.
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	actor := deliverycontext.GetAccount(c)
	if actor == nil {
		return domainerrors.ErrTokenMissing.WrapMessage("product creation without authentication")
	}

	var input usecase.CreateProductInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	product, err := h.uc.CreateProduct(c.Request().Context(), actor.ID, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, product, "Product created successfully")
}

// UpdateProduct applies a partial update to a product.
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	actor := deliverycontext.GetAccount(c)
	if actor == nil {
		return domainerrors.ErrTokenMissing.WrapMessage("product update without authentication")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var input usecase.UpdateProductInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	product, err := h.uc.UpdateProduct(c.Request().Context(), actor.ID, id, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, product, "Product updated successfully")
}

// UpdateStock applies a stock mutation to a product.
func (h *ProductHandler) UpdateStock(c echo.Context) error {
	actor := deliverycontext.GetAccount(c)
	if actor == nil {
		return domainerrors.ErrTokenMissing.WrapMessage("stock update without authentication")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var input usecase.UpdateStockInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid stock input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	product, err := h.uc.UpdateStock(c.Request().Context(), actor.ID, id, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, product, "Stock updated successfully")
}

// SetProductStatus toggles a product's active flag.
func (h *ProductHandler) SetProductStatus(c echo.Context) error {
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

	product, err := h.uc.SetProductStatus(c.Request().Context(), actor.ID, id, *input.Active)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, product, "Product status updated")
}

// DeleteProduct soft-deletes a product.
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	actor := deliverycontext.GetAccount(c)
	if actor == nil {
		return domainerrors.ErrTokenMissing.WrapMessage("deletion without authentication")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	if err := h.uc.DeleteProduct(c.Request().Context(), actor.ID, id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Product deleted")
}
