package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	deliverycontext "catalog/internal/delivery/context"
	"catalog/internal/domain/entity"
	domainerrors "catalog/internal/domain/errors"
	"catalog/internal/domain/repository"
	"catalog/internal/infra/cache"
	"catalog/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	defaultFeaturedLimit = 8

	cacheKeyCategories  = "products:categories"
	cacheKeyListPrefix  = "products:list:"
	cacheInvalidateGlob = "products:*"
)

// sortColumns maps the exposed sort keys onto store columns. Anything not in
// this table falls back to created_at.
var sortColumns = map[string]string{
	"name":       "name",
	"price":      "price",
	"created_at": "created_at",
	"rating":     "rating_average",
	"stock":      "stock",
}

// catalogService implements the CatalogUsecase interface.
type catalogService struct {
	txManager   repository.TransactionManager
	productRepo repository.ProductRepository
	cache       *cache.Cache
	logger      *slog.Logger
}

// CatalogServiceParams holds dependencies for catalogService, injected by Fx.
type CatalogServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	ProductRepo repository.ProductRepository
	Cache       *cache.Cache `optional:"true"`
	Logger      *slog.Logger
}

// NewCatalogService is the constructor for catalogService.
func NewCatalogService(params CatalogServiceParams) usecase.CatalogUsecase {
	return &catalogService{
		txManager:   params.TxManager,
		productRepo: params.ProductRepo,
		cache:       params.Cache,
		logger:      params.Logger,
	}
}

func (srv *catalogService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateProduct validates and persists a new product on behalf of an administrator.
func (srv *catalogService) CreateProduct(ctx context.Context, actorID uuid.UUID, input *usecase.CreateProductInput) (*entity.Product, error) {
	if err := validateComparePrice(input.ComparePrice, input.Price); err != nil {
		return nil, err
	}

	product := &entity.Product{
		Name:           strings.TrimSpace(input.Name),
		Description:    input.Description,
		Price:          input.Price,
		ComparePrice:   input.ComparePrice,
		Category:       entity.Category(input.Category),
		Brand:          strings.TrimSpace(input.Brand),
		SKU:            entity.NormalizeSKU(input.SKU),
		Stock:          input.Stock,
		Images:         imagesFromInput(input.Images),
		Specifications: input.Specifications,
		Tags:           input.Tags,
		Weight:         input.Weight,
		Dimensions:     dimensionsFromInput(input.Dimensions),
		IsActive:       true,
		IsFeatured:     input.IsFeatured,
		CreatedBy:      actorID,
		UpdatedBy:      actorID,
	}
	product.Images = entity.NormalizeImages(product.Images)

	if err := srv.productRepo.Create(ctx, product); err != nil {
		srv.log(ctx).Warn("Product creation failed",
			slog.String("sku", product.SKU), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create product")
	}

	srv.invalidateListings(ctx)
	srv.log(ctx).Info("Product created",
		slog.Any("productID", product.ID), slog.String("sku", product.SKU), slog.Any("actorID", actorID))

	return product, nil
}

// GetProduct retrieves a single product. Inactive products are hidden from
// non-administrator callers and surface as not found.
func (srv *catalogService) GetProduct(ctx context.Context, id uuid.UUID, includeInactive bool) (*entity.Product, error) {
	product, err := srv.loadProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if !product.IsActive && !includeInactive {
		return nil, domainerrors.ErrProductNotFound.WrapMessage("product is inactive")
	}

	return product, nil
}

// ListProducts returns a filtered, sorted page of the catalog. Results for
// non-administrator callers are served cache-aside when a cache is configured.
func (srv *catalogService) ListProducts(ctx context.Context, input *usecase.ListProductsInput, isAdmin bool) (*usecase.ProductListOutput, error) {
	filter := repository.ProductFilter{
		Brand:    strings.TrimSpace(input.Brand),
		MinPrice: input.MinPrice,
		MaxPrice: input.MaxPrice,
		InStock:  input.InStock,
		Featured: input.Featured,
		Search:   strings.TrimSpace(input.Search),
	}
	if category := entity.Category(input.Category); category.IsValid() {
		filter.Category = category
	}

	includeInactive := isAdmin && input.IncludeInactive
	if !includeInactive {
		active := true
		filter.Active = &active
	}

	page := normalizePage(input.Page, input.Limit, productSortColumn(input.SortBy), productSortOrder(input.SortOrder))

	// Administrator views bypass the cache so moderation always sees fresh data.
	cacheable := !includeInactive
	cacheKey := listCacheKey(filter, page)
	if cacheable {
		var cached usecase.ProductListOutput
		if hit, err := srv.cache.Get(ctx, cacheKey, &cached); err != nil {
			srv.log(ctx).Warn("Product list cache read failed", slog.Any("error", err))
		} else if hit {
			return &cached, nil
		}
	}

	products, total, err := srv.productRepo.List(ctx, filter, page)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	out := &usecase.ProductListOutput{
		Products:   products,
		Pagination: usecase.NewPagination(page.Page, page.Limit, total),
	}

	if cacheable {
		if err := srv.cache.Set(ctx, cacheKey, out); err != nil {
			srv.log(ctx).Warn("Product list cache write failed", slog.Any("error", err))
		}
	}

	return out, nil
}

// ListFeatured returns up to limit active featured products, newest first.
func (srv *catalogService) ListFeatured(ctx context.Context, limit int) ([]*entity.Product, error) {
	if limit < 1 {
		limit = defaultFeaturedLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	featured := true
	active := true
	filter := repository.ProductFilter{Featured: &featured, Active: &active}
	page := repository.Page{Page: 1, Limit: limit, SortBy: "created_at", SortOrder: repository.SortDesc}

	products, _, err := srv.productRepo.List(ctx, filter, page)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list featured products")
	}

	return products, nil
}

// ListCategories returns the distinct categories among active products.
func (srv *catalogService) ListCategories(ctx context.Context) ([]string, error) {
	var cached []string
	if hit, err := srv.cache.Get(ctx, cacheKeyCategories, &cached); err != nil {
		srv.log(ctx).Warn("Category cache read failed", slog.Any("error", err))
	} else if hit {
		return cached, nil
	}

	categories, err := srv.productRepo.Categories(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}

	if err := srv.cache.Set(ctx, cacheKeyCategories, categories); err != nil {
		srv.log(ctx).Warn("Category cache write failed", slog.Any("error", err))
	}

	return categories, nil
}

// UpdateProduct applies a partial update; nil fields leave the product untouched.
func (srv *catalogService) UpdateProduct(ctx context.Context, actorID, id uuid.UUID, input *usecase.UpdateProductInput) (*entity.Product, error) {
	product, err := srv.loadProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.ComparePrice != nil {
		product.ComparePrice = input.ComparePrice
	}
	if input.Category != nil {
		product.Category = entity.Category(*input.Category)
	}
	if input.Brand != nil {
		product.Brand = strings.TrimSpace(*input.Brand)
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.Images != nil {
		product.Images = entity.NormalizeImages(imagesFromInput(input.Images))
	}
	if input.Specifications != nil {
		product.Specifications = input.Specifications
	}
	if input.Tags != nil {
		product.Tags = input.Tags
	}
	if input.Weight != nil {
		product.Weight = *input.Weight
	}
	if input.Dimensions != nil {
		product.Dimensions = dimensionsFromInput(input.Dimensions)
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}

	// Re-check against the merged state so a price update cannot sneak past
	// a previously valid compare price.
	if err := validateComparePrice(product.ComparePrice, product.Price); err != nil {
		return nil, err
	}

	product.UpdatedBy = actorID

	if err := srv.productRepo.Update(ctx, product); err != nil {
		return nil, errors.Wrap(err, "failed to update product")
	}

	srv.invalidateListings(ctx)
	srv.log(ctx).Info("Product updated", slog.Any("productID", id), slog.Any("actorID", actorID))

	return product, nil
}

// UpdateStock applies a set, add or subtract mutation atomically. Subtracting
// below zero clamps at zero.
func (srv *catalogService) UpdateStock(ctx context.Context, actorID, id uuid.UUID, input *usecase.UpdateStockInput) (*entity.Product, error) {
	var updated *entity.Product
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		productRepo := repoFactory.ProductRepo()

		product, findErr := productRepo.FindByID(ctx, id)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrProductNotFound) {
				return domainerrors.ErrProductNotFound.WrapMessage("stock update failed")
			}

			return errors.Wrap(findErr, "failed to load product for stock update")
		}

		switch input.Operation {
		case usecase.StockOpSet:
			product.Stock = input.Quantity
		case usecase.StockOpAdd:
			product.Stock += input.Quantity
		case usecase.StockOpSubtract:
			product.Stock -= input.Quantity
			if product.Stock < 0 {
				product.Stock = 0
			}
		default:
			return domainerrors.ErrValidationFailed.WithDetails(
				fmt.Sprintf("unknown stock operation %q", input.Operation))
		}

		product.UpdatedBy = actorID

		if updateErr := productRepo.Update(ctx, product); updateErr != nil {
			return errors.Wrap(updateErr, "failed to persist stock update")
		}

		updated = product

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute stock update transaction")
	}

	srv.invalidateListings(ctx)
	srv.log(ctx).Info("Stock updated",
		slog.Any("productID", id), slog.String("operation", input.Operation),
		slog.Int("quantity", input.Quantity), slog.Int("stock", updated.Stock))

	return updated, nil
}

// SetProductStatus toggles a product's active flag.
func (srv *catalogService) SetProductStatus(ctx context.Context, actorID, id uuid.UUID, active bool) (*entity.Product, error) {
	product, err := srv.loadProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	product.IsActive = active
	product.UpdatedBy = actorID

	if err := srv.productRepo.Update(ctx, product); err != nil {
		return nil, errors.Wrap(err, "failed to update product status")
	}

	srv.invalidateListings(ctx)
	srv.log(ctx).Info("Product status changed",
		slog.Any("productID", id), slog.Bool("active", active), slog.Any("actorID", actorID))

	return product, nil
}

// DeleteProduct soft-deletes a product by deactivating it. The row and its
// images are retained for audit.
func (srv *catalogService) DeleteProduct(ctx context.Context, actorID, id uuid.UUID) error {
	if _, err := srv.SetProductStatus(ctx, actorID, id, false); err != nil {
		return errors.Wrap(err, "failed to soft delete product")
	}

	srv.log(ctx).Info("Product soft deleted", slog.Any("productID", id), slog.Any("actorID", actorID))

	return nil
}

func (srv *catalogService) loadProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := srv.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound.WrapMessage("product lookup failed")
		}

		return nil, errors.Wrap(err, "failed to load product")
	}

	return product, nil
}

// invalidateListings drops every cached listing and the category set after a write.
func (srv *catalogService) invalidateListings(ctx context.Context) {
	if err := srv.cache.DeletePattern(ctx, cacheInvalidateGlob); err != nil {
		srv.log(ctx).Warn("Cache invalidation failed", slog.Any("error", err))
	}
}

func validateComparePrice(comparePrice *float64, price float64) error {
	if comparePrice != nil && *comparePrice < price {
		return domainerrors.ErrValidationFailed.WithDetails(
			"comparePrice must be greater than or equal to price")
	}

	return nil
}

func imagesFromInput(inputs []usecase.ImageInput) []entity.ProductImage {
	if len(inputs) == 0 {
		return nil
	}

	images := make([]entity.ProductImage, 0, len(inputs))
	for _, in := range inputs {
		images = append(images, entity.ProductImage{
			URL:       in.URL,
			Alt:       in.Alt,
			IsPrimary: in.IsPrimary,
		})
	}

	return images
}

func dimensionsFromInput(in *usecase.DimensionsInput) *entity.Dimensions {
	if in == nil {
		return nil
	}

	return &entity.Dimensions{Length: in.Length, Width: in.Width, Height: in.Height}
}

func productSortColumn(sortBy string) string {
	if column, ok := sortColumns[sortBy]; ok {
		return column
	}

	return "created_at"
}

func productSortOrder(sortOrder string) string {
	if sortOrder == repository.SortAsc {
		return repository.SortAsc
	}

	return repository.SortDesc
}

// listCacheKey derives a deterministic key from every filter and paging knob.
func listCacheKey(filter repository.ProductFilter, page repository.Page) string {
	var b strings.Builder
	b.WriteString(cacheKeyListPrefix)
	fmt.Fprintf(&b, "c=%s|b=%s|", filter.Category, strings.ToLower(filter.Brand))
	if filter.MinPrice != nil {
		fmt.Fprintf(&b, "min=%g|", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		fmt.Fprintf(&b, "max=%g|", *filter.MaxPrice)
	}
	if filter.InStock {
		b.WriteString("instock|")
	}
	if filter.Featured != nil {
		fmt.Fprintf(&b, "featured=%t|", *filter.Featured)
	}
	fmt.Fprintf(&b, "q=%s|sort=%s.%s|page=%d.%d",
		strings.ToLower(filter.Search), page.SortBy, page.SortOrder, page.Page, page.Limit)

	return b.String()
}
