package usecase

import (
	"context"

	"catalog/internal/domain/entity"

	"github.com/google/uuid"
)

// Stock operations recognized by UpdateStock.
const (
	StockOpSet      = "set"
	StockOpAdd      = "add"
	StockOpSubtract = "subtract"
)

// --- Input DTOs ---

// ImageInput is a single image in a create/update payload.
type ImageInput struct {
	URL       string `json:"url" validate:"required,url"`
	Alt       string `json:"alt" validate:"omitempty,max=200"`
	IsPrimary bool   `json:"isPrimary"`
}

// DimensionsInput carries optional physical dimensions.
type DimensionsInput struct {
	Length float64 `json:"length" validate:"omitempty,gte=0"`
	Width  float64 `json:"width" validate:"omitempty,gte=0"`
	Height float64 `json:"height" validate:"omitempty,gte=0"`
}

// CreateProductInput defines the data required to create a product.
type CreateProductInput struct {
	Name         string   `json:"name" validate:"required,min=2,max=200"`
	Description  string   `json:"description" validate:"required,max=5000"`
	Price        float64  `json:"price" validate:"gte=0"`
	ComparePrice *float64 `json:"comparePrice" validate:"omitempty,gte=0"`
	Category     string   `json:"category" validate:"required,oneof=electronics clothing books home sports toys beauty food other"`
	Brand        string   `json:"brand" validate:"required,max=100"`
	SKU          string   `json:"sku" validate:"required,min=3,max=100"`
	Stock        int      `json:"stock" validate:"gte=0"`

	Images         []ImageInput      `json:"images" validate:"dive"`
	Specifications map[string]string `json:"specifications"`
	Tags           []string          `json:"tags" validate:"dive,max=50"`
	Weight         float64           `json:"weight" validate:"omitempty,gte=0"`
	Dimensions     *DimensionsInput  `json:"dimensions"`
	IsFeatured     bool              `json:"isFeatured"`
}

// UpdateProductInput defines the partial-update payload; nil fields are left untouched.
type UpdateProductInput struct {
	Name         *string  `json:"name" validate:"omitempty,min=2,max=200"`
	Description  *string  `json:"description" validate:"omitempty,max=5000"`
	Price        *float64 `json:"price" validate:"omitempty,gte=0"`
	ComparePrice *float64 `json:"comparePrice" validate:"omitempty,gte=0"`
	Category     *string  `json:"category" validate:"omitempty,oneof=electronics clothing books home sports toys beauty food other"`
	Brand        *string  `json:"brand" validate:"omitempty,max=100"`
	Stock        *int     `json:"stock" validate:"omitempty,gte=0"`

	Images         []ImageInput      `json:"images" validate:"omitempty,dive"`
	Specifications map[string]string `json:"specifications"`
	Tags           []string          `json:"tags" validate:"omitempty,dive,max=50"`
	Weight         *float64          `json:"weight" validate:"omitempty,gte=0"`
	Dimensions     *DimensionsInput  `json:"dimensions"`
	IsFeatured     *bool             `json:"isFeatured"`
}

// UpdateStockInput defines a stock mutation.
type UpdateStockInput struct {
	Operation string `json:"operation" validate:"required,oneof=set add subtract"`
	Quantity  int    `json:"quantity" validate:"gte=0"`
}

// ListProductsInput defines recognized product listing parameters.
type ListProductsInput struct {
	Category  string   `query:"category" validate:"omitempty,oneof=electronics clothing books home sports toys beauty food other"`
	Brand     string   `query:"brand" validate:"omitempty,max=100"`
	MinPrice  *float64 `query:"minPrice" validate:"omitempty,gte=0"`
	MaxPrice  *float64 `query:"maxPrice" validate:"omitempty,gte=0"`
	InStock   bool     `query:"inStock"`
	Featured  *bool    `query:"featured"`
	Search    string   `query:"q" validate:"omitempty,max=100"`
	SortBy    string   `query:"sortBy" validate:"omitempty,oneof=name price created_at rating stock"`
	SortOrder string   `query:"sortOrder" validate:"omitempty,oneof=asc desc"`
	Page      int      `query:"page"`
	Limit     int      `query:"limit"`

	// IncludeInactive is honored only for administrator callers.
	IncludeInactive bool `query:"includeInactive"`
}

// --- Output DTOs ---

// ProductListOutput returns a page of products with its pagination envelope.
type ProductListOutput struct {
	Products   []*entity.Product `json:"products"`
	Pagination Pagination        `json:"pagination"`
}

// CatalogUsecase defines the interface for product catalog business operations.
type CatalogUsecase interface {
	CreateProduct(ctx context.Context, actorID uuid.UUID, input *CreateProductInput) (*entity.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID, includeInactive bool) (*entity.Product, error)
	ListProducts(ctx context.Context, input *ListProductsInput, isAdmin bool) (*ProductListOutput, error)
	ListFeatured(ctx context.Context, limit int) ([]*entity.Product, error)
	ListCategories(ctx context.Context) ([]string, error)

	UpdateProduct(ctx context.Context, actorID, id uuid.UUID, input *UpdateProductInput) (*entity.Product, error)
	UpdateStock(ctx context.Context, actorID, id uuid.UUID, input *UpdateStockInput) (*entity.Product, error)
	SetProductStatus(ctx context.Context, actorID, id uuid.UUID, active bool) (*entity.Product, error)
	DeleteProduct(ctx context.Context, actorID, id uuid.UUID) error
}
