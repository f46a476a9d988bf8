package repository

import (
	"context"
	"errors"

	"catalog/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrProductNotFound is a domain-specific error returned when a product is not found.
var ErrProductNotFound = errors.New("product not found")

// ProductFilter narrows a product listing. Zero values mean "no constraint".
type ProductFilter struct {
	Category entity.Category // Filter by category when valid.
	Brand    string          // Exact brand match (case-insensitive).
	MinPrice *float64        // Inclusive lower price bound.
	MaxPrice *float64        // Inclusive upper price bound.
	InStock  bool            // Only products with stock > 0.
	Featured *bool           // Filter by featured flag when non-nil.
	Active   *bool           // Filter by active flag when non-nil.
	Search   string          // Case-insensitive substring match on name, description or brand.
}

// ProductRepository defines the standard operations for product persistence.
type ProductRepository interface {
	// Create persists a new product. The store enforces SKU uniqueness and
	// surfaces a duplicate key as domainerrors.ErrSKUTaken.
	Create(ctx context.Context, product *entity.Product) error

	// FindByID retrieves a single product by its unique ID, including images.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// FindBySKU retrieves a single product by its normalized (uppercased) SKU.
	FindBySKU(ctx context.Context, sku string) (*entity.Product, error)

	// Update modifies an existing product, replacing its image set.
	Update(ctx context.Context, product *entity.Product) error

	// List returns a page of products matching the filter together with the
	// total count of matches.
	List(ctx context.Context, filter ProductFilter, page Page) ([]*entity.Product, int64, error)

	// Categories returns the distinct categories present among active products.
	Categories(ctx context.Context) ([]string, error)
}
