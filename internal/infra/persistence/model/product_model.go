package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ProductModel mirrors the 'products' table. The free-form specification map
// and the tag list live in JSONB columns; images get their own table.
type ProductModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name         string    `gorm:"type:varchar(200);not null"`
	Description  string    `gorm:"type:text"`
	Price        float64   `gorm:"type:numeric(12,2);not null"`
	ComparePrice *float64  `gorm:"type:numeric(12,2)"`
	Category     string    `gorm:"type:varchar(30);not null;index"`
	Brand        string    `gorm:"type:varchar(100);index"`
	SKU          string    `gorm:"type:varchar(100);unique;not null"`
	Stock        int       `gorm:"not null;default:0"`

	Specifications datatypes.JSONType[map[string]string] `gorm:"type:jsonb"`
	Tags           datatypes.JSONSlice[string]           `gorm:"type:jsonb"`
	Weight         float64
	DimLength      float64
	DimWidth       float64
	DimHeight      float64

	IsActive   bool `gorm:"not null;default:true;index"`
	IsFeatured bool `gorm:"not null;default:false"`

	RatingAverage float64 `gorm:"type:numeric(3,2);not null;default:0"`
	RatingCount   int     `gorm:"not null;default:0"`

	CreatedBy uuid.UUID `gorm:"type:uuid"`
	UpdatedBy uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Images []ProductImageModel `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (ProductModel) TableName() string {
	return "products"
}

// ProductImageModel mirrors the 'product_images' table.
type ProductImageModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	URL       string    `gorm:"type:varchar(500);not null"`
	Alt       string    `gorm:"type:varchar(200)"`
	IsPrimary bool      `gorm:"not null;default:false"`
	Position  int       `gorm:"not null;default:0"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (ProductImageModel) TableName() string {
	return "product_images"
}
