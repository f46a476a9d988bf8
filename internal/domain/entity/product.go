package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category is the closed set of product categories the catalog recognizes.
type Category string

const (
	CategoryElectronics Category = "electronics"
	CategoryClothing    Category = "clothing"
	CategoryBooks       Category = "books"
	CategoryHome        Category = "home"
	CategorySports      Category = "sports"
	CategoryToys        Category = "toys"
	CategoryBeauty      Category = "beauty"
	CategoryFood        Category = "food"
	CategoryOther       Category = "other"
)

// String returns the string representation of the Category.
func (c Category) String() string {
	return string(c)
}

// IsValid checks if the Category is a member of the closed set.
func (c Category) IsValid() bool {
	switch c {
	case CategoryElectronics, CategoryClothing, CategoryBooks, CategoryHome,
		CategorySports, CategoryToys, CategoryBeauty, CategoryFood, CategoryOther:
		return true
	default:
		return false
	}
}

// ProductImage is a single image attached to a product.
type ProductImage struct {
	URL       string `json:"url"`
	Alt       string `json:"alt,omitempty"`
	IsPrimary bool   `json:"isPrimary"`
}

// Dimensions holds optional physical dimensions in centimeters.
type Dimensions struct {
	Length float64 `json:"length,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// Rating is the aggregate customer rating of a product.
type Rating struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// Product is a catalog entry. Products are never physically deleted;
// IsActive is flipped instead.
type Product struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	ComparePrice *float64  `json:"comparePrice,omitempty"` // Must be >= Price when present.
	Category     Category  `json:"category"`
	Brand        string    `json:"brand"`
	SKU          string    `json:"sku"` // Stored uppercased; unique across the catalog.
	Stock        int       `json:"stock"`

	Images         []ProductImage    `json:"images"`
	Specifications map[string]string `json:"specifications,omitempty"`
	Tags           []string          `json:"tags,omitempty"`
	Weight         float64           `json:"weight,omitempty"`
	Dimensions     *Dimensions       `json:"dimensions,omitempty"`

	IsActive   bool   `json:"isActive"`
	IsFeatured bool   `json:"isFeatured"`
	Rating     Rating `json:"rating"`

	// Weak references to the acting accounts; lookups only, no cascade.
	CreatedBy uuid.UUID `json:"createdBy"`
	UpdatedBy uuid.UUID `json:"updatedBy"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NormalizeSKU uppercases and trims a SKU so uniqueness is case-insensitive.
func NormalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}

// NormalizeImages enforces the single-primary invariant: the first image marked
// primary keeps the flag, every other mark is cleared, and when none is marked
// the first image becomes primary.
func NormalizeImages(images []ProductImage) []ProductImage {
	primarySeen := false
	for i := range images {
		if images[i].IsPrimary {
			if primarySeen {
				images[i].IsPrimary = false
			}
			primarySeen = true
		}
	}
	if !primarySeen && len(images) > 0 {
		images[0].IsPrimary = true
	}

	return images
}

// PrimaryImage returns the image currently marked primary, or nil when the
// product has no images.
func (p *Product) PrimaryImage() *ProductImage {
	for i := range p.Images {
		if p.Images[i].IsPrimary {
			return &p.Images[i]
		}
	}
	if len(p.Images) > 0 {
		return &p.Images[0]
	}

	return nil
}
