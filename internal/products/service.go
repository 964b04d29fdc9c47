package products

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/Kushal-prime/kushalwearback/pkg/db"
	"github.com/Kushal-prime/kushalwearback/pkg/db/models"
	"github.com/Kushal-prime/kushalwearback/pkg/enums"
	apperrors "github.com/Kushal-prime/kushalwearback/pkg/errors"
	"github.com/Kushal-prime/kushalwearback/pkg/pagination"
	"github.com/Kushal-prime/kushalwearback/pkg/types"
)

const featuredLimit = 8

// ProductRepository is the persistence surface the catalog service needs.
type ProductRepository interface {
	List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Product, int64, error)
	Featured(ctx context.Context, limit int) ([]models.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	AddReview(ctx context.Context, review *models.ProductReview) error
	Reviews(ctx context.Context, productID uuid.UUID) ([]models.ProductReview, error)
}

// ServiceParams wires the catalog service dependencies.
type ServiceParams struct {
	Products ProductRepository
	Now      func() time.Time
}

// Service implements catalog browsing and administration.
type Service struct {
	products ProductRepository
	now      func() time.Time
}

// NewService validates params and builds the service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Products == nil {
		return nil, fmt.Errorf("catalog service requires a product repository")
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &Service{products: params.Products, now: params.Now}, nil
}

// List returns one catalog page.
func (s *Service) List(ctx context.Context, filters ListFilters) (*ListResponse, error) {
	if filters.Category != "" {
		if _, err := enums.ParseProductCategory(filters.Category); err != nil {
			return nil, apperrors.New(apperrors.CodeValidation, "unknown category")
		}
	}

	params := pagination.Normalize(filters.Page, filters.Limit, pagination.DefaultLimit, pagination.MaxLimit)
	rows, total, err := s.products.List(ctx, filters, params)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "list products")
	}

	dtos := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, ToDTO(&rows[i]))
	}
	return &ListResponse{
		Products:   dtos,
		Pagination: pagination.NewMeta(params, total),
	}, nil
}

// Featured returns the featured shelf.
func (s *Service) Featured(ctx context.Context) ([]ProductDTO, error) {
	rows, err := s.products.Featured(ctx, featuredLimit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "list featured products")
	}
	dtos := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, ToDTO(&rows[i]))
	}
	return dtos, nil
}

// GetByID returns one product with its reviews.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*ProductDTO, []ReviewDTO, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil, apperrors.New(apperrors.CodeNotFound, "product not found")
		}
		return nil, nil, apperrors.Wrap(apperrors.CodeInternal, err, "fetch product")
	}

	reviews, err := s.products.Reviews(ctx, id)
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.CodeInternal, err, "fetch reviews")
	}

	dto := ToDTO(product)
	reviewDTOs := make([]ReviewDTO, 0, len(reviews))
	for i := range reviews {
		reviewDTOs = append(reviewDTOs, ReviewToDTO(&reviews[i]))
	}
	return &dto, reviewDTOs, nil
}

// Create adds a catalog entry with a generated SKU.
func (s *Service) Create(ctx context.Context, req CreateProductRequest) (*ProductDTO, error) {
	category, err := enums.ParseProductCategory(req.Category)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeValidation, "unknown category")
	}

	product := &models.Product{
		Name:               req.Name,
		Description:        req.Description,
		Price:              decimal.NewFromFloat(req.Price),
		DiscountPercent:    req.DiscountPercent,
		DiscountValidUntil: req.DiscountValidUntil,
		Category:           category,
		Subcategory:        req.Subcategory,
		Brand:              req.Brand,
		Material:           req.Material,
		Care:               req.Care,
		SKU:                s.generateSKU(category),
		Images:             pq.StringArray(req.Images),
		MainImage:          req.MainImage,
		Sizes:              pq.StringArray(req.Sizes),
		Colors:             types.ColorList(req.Colors),
		Tags:               pq.StringArray(req.Tags),
		Stock:              req.Stock,
		Featured:           req.Featured,
		Active:             true,
	}
	if req.OriginalPrice != nil {
		product.OriginalPrice = decimal.NewNullDecimal(decimal.NewFromFloat(*req.OriginalPrice))
	}
	// The first gallery image doubles as the main image when the
	// request does not pick one.
	if product.MainImage == "" && len(product.Images) > 0 {
		product.MainImage = product.Images[0]
	}

	if err := s.products.Create(ctx, product); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperrors.New(apperrors.CodeConflict, "sku already in use")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "create product")
	}

	dto := ToDTO(product)
	return &dto, nil
}

// Update applies partial catalog changes.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductDTO, error) {
	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = decimal.NewFromFloat(*req.Price)
	}
	if req.OriginalPrice != nil {
		updates["original_price"] = decimal.NewFromFloat(*req.OriginalPrice)
	}
	if req.DiscountPercent != nil {
		updates["discount_percent"] = *req.DiscountPercent
	}
	if req.DiscountValidUntil != nil {
		updates["discount_valid_until"] = *req.DiscountValidUntil
	}
	if req.Subcategory != nil {
		updates["subcategory"] = *req.Subcategory
	}
	if req.Brand != nil {
		updates["brand"] = *req.Brand
	}
	if req.Material != nil {
		updates["material"] = *req.Material
	}
	if req.Care != nil {
		updates["care"] = *req.Care
	}
	if req.Images != nil {
		updates["images"] = pq.StringArray(*req.Images)
	}
	if req.MainImage != nil {
		updates["main_image"] = *req.MainImage
	}
	if req.Sizes != nil {
		updates["sizes"] = pq.StringArray(*req.Sizes)
	}
	if req.Colors != nil {
		updates["colors"] = types.ColorList(*req.Colors)
	}
	if req.Tags != nil {
		updates["tags"] = pq.StringArray(*req.Tags)
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}
	if req.Featured != nil {
		updates["featured"] = *req.Featured
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}

	if len(updates) == 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "no fields to update")
	}

	if err := s.products.Update(ctx, id, updates); err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "product not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "update product")
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			// Deactivated by this update; nothing more to return.
			return nil, apperrors.New(apperrors.CodeNotFound, "product not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "fetch product")
	}
	dto := ToDTO(product)
	return &dto, nil
}

// Delete soft-deletes a product so existing order lines keep resolving.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.products.Deactivate(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return apperrors.New(apperrors.CodeNotFound, "product not found")
		}
		return apperrors.Wrap(apperrors.CodeInternal, err, "delete product")
	}
	return nil
}

// AddReview records a rating and returns the refreshed product.
func (s *Service) AddReview(ctx context.Context, productID, userID uuid.UUID, req ReviewRequest) (*ProductDTO, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "product not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "fetch product")
	}

	review := &models.ProductReview{
		ProductID: productID,
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := s.products.AddReview(ctx, review); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperrors.New(apperrors.CodeConflict, "You have already reviewed this product")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "add review")
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "fetch product")
	}
	dto := ToDTO(product)
	return &dto, nil
}

// generateSKU builds a catalog code from the category, a millisecond
// timestamp and a short random suffix.
func (s *Service) generateSKU(category enums.ProductCategory) string {
	const digits = "0123456789"
	suffix := make([]byte, 5)
	for i := range suffix {
		suffix[i] = digits[rand.Intn(len(digits))]
	}
	return fmt.Sprintf("KW-%s-%d-%s",
		strings.ToUpper(category.String()),
		s.now().UnixMilli(),
		suffix,
	)
}
