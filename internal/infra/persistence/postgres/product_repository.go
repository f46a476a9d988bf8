package postgres

import (
	"context"

	"catalog/internal/domain/entity"
	domainerrors "catalog/internal/domain/errors"
	"catalog/internal/domain/repository"
	"catalog/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// productRepository implements the repository.ProductRepository interface using GORM.
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository is the constructor for productRepository.
func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

// Create persists a new product entity, including its images, to the database.
func (repo *productRepository) Create(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)

	if err := repo.db.WithContext(ctx).Create(productM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrSKUTaken.WrapMessage("sku already in catalog")
		}
		if isNotNullConstraintViolation(err) || isCheckConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing or invalid product information")
		}

		return domainerrors.NewDatabaseError(err, "failed to create product")
	}

	product.ID = productM.ID
	product.CreatedAt = productM.CreatedAt
	product.UpdatedAt = productM.UpdatedAt

	return nil
}

// FindByID retrieves a single product by its unique ID, preloading images.
func (repo *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var productM model.ProductModel

	err := repo.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("id = ?", id).
		First(&productM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product by id")
	}

	return toProductDomain(&productM), nil
}

// FindBySKU retrieves a single product by its normalized SKU.
func (repo *productRepository) FindBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	var productM model.ProductModel

	err := repo.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("sku = ?", entity.NormalizeSKU(sku)).
		First(&productM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product by sku")
	}

	return toProductDomain(&productM), nil
}

// Update modifies an existing product. The image set is replaced wholesale so
// the single-primary invariant established by the service layer survives.
func (repo *productRepository) Update(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)

	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", product.ID).Delete(&model.ProductImageModel{}).Error; err != nil {
			return errors.Wrap(err, "failed to clear product images")
		}

		return tx.Save(productM).Error
	})
	if err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrSKUTaken.WrapMessage("sku already in catalog")
		}

		return domainerrors.NewDatabaseError(err, "failed to update product")
	}

	product.UpdatedAt = productM.UpdatedAt

	return nil
}

// List returns a page of products matching the filter and the total match count.
func (repo *productRepository) List(ctx context.Context, filter repository.ProductFilter, page repository.Page) ([]*entity.Product, int64, error) {
	query := repo.db.WithContext(ctx).Model(&model.ProductModel{})
	query = applyProductFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count products")
	}

	var productMs []model.ProductModel
	err := query.
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order(page.SortBy + " " + page.SortOrder).
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&productMs).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list products")
	}

	products := make([]*entity.Product, 0, len(productMs))
	for i := range productMs {
		products = append(products, toProductDomain(&productMs[i]))
	}

	return products, total, nil
}

// Categories returns the distinct categories present among active products.
func (repo *productRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string

	err := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Where("is_active = ?", true).
		Distinct().
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list distinct categories")
	}

	return categories, nil
}

func applyProductFilter(query *gorm.DB, filter repository.ProductFilter) *gorm.DB {
	if filter.Category.IsValid() {
		query = query.Where("category = ?", filter.Category.String())
	}
	if filter.Brand != "" {
		query = query.Where("brand ILIKE ?", filter.Brand)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.InStock {
		query = query.Where("stock > 0")
	}
	if filter.Featured != nil {
		query = query.Where("is_featured = ?", *filter.Featured)
	}
	if filter.Active != nil {
		query = query.Where("is_active = ?", *filter.Active)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ? OR brand ILIKE ?", pattern, pattern, pattern)
	}

	return query
}

// --- Mapper Functions ---

// toProductDomain converts a GORM ProductModel to a domain Product entity.
func toProductDomain(data *model.ProductModel) *entity.Product {
	if data == nil {
		return nil
	}

	images := make([]entity.ProductImage, 0, len(data.Images))
	for _, img := range data.Images {
		images = append(images, entity.ProductImage{
			URL:       img.URL,
			Alt:       img.Alt,
			IsPrimary: img.IsPrimary,
		})
	}

	product := &entity.Product{
		ID:             data.ID,
		Name:           data.Name,
		Description:    data.Description,
		Price:          data.Price,
		ComparePrice:   data.ComparePrice,
		Category:       entity.Category(data.Category),
		Brand:          data.Brand,
		SKU:            data.SKU,
		Stock:          data.Stock,
		Images:         images,
		Specifications: data.Specifications.Data(),
		Tags:           []string(data.Tags),
		Weight:         data.Weight,
		IsActive:       data.IsActive,
		IsFeatured:     data.IsFeatured,
		Rating:         entity.Rating{Average: data.RatingAverage, Count: data.RatingCount},
		CreatedBy:      data.CreatedBy,
		UpdatedBy:      data.UpdatedBy,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}

	if data.DimLength > 0 || data.DimWidth > 0 || data.DimHeight > 0 {
		product.Dimensions = &entity.Dimensions{
			Length: data.DimLength,
			Width:  data.DimWidth,
			Height: data.DimHeight,
		}
	}

	return product
}

// fromProductDomain converts a domain Product entity to a GORM ProductModel for persistence.
func fromProductDomain(data *entity.Product) *model.ProductModel {
	if data == nil {
		return nil
	}

	images := make([]model.ProductImageModel, 0, len(data.Images))
	for i, img := range data.Images {
		images = append(images, model.ProductImageModel{
			ProductID: data.ID,
			URL:       img.URL,
			Alt:       img.Alt,
			IsPrimary: img.IsPrimary,
			Position:  i,
		})
	}

	productM := &model.ProductModel{
		ID:             data.ID,
		Name:           data.Name,
		Description:    data.Description,
		Price:          data.Price,
		ComparePrice:   data.ComparePrice,
		Category:       data.Category.String(),
		Brand:          data.Brand,
		SKU:            entity.NormalizeSKU(data.SKU),
		Stock:          data.Stock,
		Specifications: datatypes.NewJSONType(data.Specifications),
		Tags:           datatypes.NewJSONSlice(data.Tags),
		Weight:         data.Weight,
		IsActive:       data.IsActive,
		IsFeatured:     data.IsFeatured,
		RatingAverage:  data.Rating.Average,
		RatingCount:    data.Rating.Count,
		CreatedBy:      data.CreatedBy,
		UpdatedBy:      data.UpdatedBy,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
		Images:         images,
	}

	if data.Dimensions != nil {
		productM.DimLength = data.Dimensions.Length
		productM.DimWidth = data.Dimensions.Width
		productM.DimHeight = data.Dimensions.Height
	}

	return productM
}
