package products

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Kushal-prime/kushalwearback/pkg/db/models"
	apperrors "github.com/Kushal-prime/kushalwearback/pkg/errors"
	"github.com/Kushal-prime/kushalwearback/pkg/pagination"
)

type stubProductRepo struct {
	products map[uuid.UUID]*models.Product
	reviews  map[uuid.UUID][]models.ProductReview
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{
		products: map[uuid.UUID]*models.Product{},
		reviews:  map[uuid.UUID][]models.ProductReview{},
	}
}

func (r *stubProductRepo) List(_ context.Context, filters ListFilters, _ pagination.Params) ([]models.Product, int64, error) {
	var rows []models.Product
	for _, product := range r.products {
		if !product.Active {
			continue
		}
		if filters.Category != "" && product.Category.String() != filters.Category {
			continue
		}
		rows = append(rows, *product)
	}
	return rows, int64(len(rows)), nil
}

func (r *stubProductRepo) Featured(_ context.Context, limit int) ([]models.Product, error) {
	var rows []models.Product
	for _, product := range r.products {
		if product.Active && product.Featured && len(rows) < limit {
			rows = append(rows, *product)
		}
	}
	return rows, nil
}

func (r *stubProductRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := r.products[id]
	if !ok || !product.Active {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *product
	return &copied, nil
}

func (r *stubProductRepo) Create(_ context.Context, product *models.Product) error {
	for _, existing := range r.products {
		if existing.SKU == product.SKU {
			return errors.New("duplicate key value violates unique constraint \"ux_products_sku\"")
		}
	}
	product.ID = uuid.New()
	product.CreatedAt = time.Now().UTC()
	stored := *product
	r.products[product.ID] = &stored
	return nil
}

func (r *stubProductRepo) Update(_ context.Context, id uuid.UUID, updates map[string]any) error {
	product, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if price, ok := updates["price"].(decimal.Decimal); ok {
		product.Price = price
	}
	if stock, ok := updates["stock"].(int); ok {
		product.Stock = stock
	}
	if featured, ok := updates["featured"].(bool); ok {
		product.Featured = featured
	}
	if active, ok := updates["active"].(bool); ok {
		product.Active = active
	}
	return nil
}

func (r *stubProductRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	product, ok := r.products[id]
	if !ok || !product.Active {
		return gorm.ErrRecordNotFound
	}
	product.Active = false
	return nil
}

func (r *stubProductRepo) AddReview(_ context.Context, review *models.ProductReview) error {
	for _, stored := range r.reviews[review.ProductID] {
		if stored.UserID == review.UserID {
			return errors.New("duplicate key value violates unique constraint \"ux_product_reviews_author\"")
		}
	}
	review.ID = uuid.New()
	review.CreatedAt = time.Now().UTC()
	r.reviews[review.ProductID] = append(r.reviews[review.ProductID], *review)

	product := r.products[review.ProductID]
	var sum int
	for _, stored := range r.reviews[review.ProductID] {
		sum += stored.Rating
	}
	product.RatingCount = len(r.reviews[review.ProductID])
	product.RatingAverage = float64(sum) / float64(product.RatingCount)
	return nil
}

func (r *stubProductRepo) Reviews(_ context.Context, productID uuid.UUID) ([]models.ProductReview, error) {
	return r.reviews[productID], nil
}

func newCatalogService(t *testing.T, repo ProductRepository, now func() time.Time) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Products: repo, Now: now})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func validCreateProduct() CreateProductRequest {
	return CreateProductRequest{
		Name:     "Linen Shirt",
		Price:    45,
		Category: "men",
		Sizes:    []string{"S", "M", "L"},
		Stock:    12,
	}
}

func TestCreateGeneratesCategorySKU(t *testing.T) {
	repo := newStubProductRepo()
	fixed := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	svc := newCatalogService(t, repo, func() time.Time { return fixed })

	product, err := svc.Create(context.Background(), validCreateProduct())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	pattern := regexp.MustCompile(`^KW-MEN-\d+-\d{5}$`)
	if !pattern.MatchString(product.SKU) {
		t.Fatalf("unexpected SKU %q", product.SKU)
	}
	if !product.InStock {
		t.Fatalf("expected product in stock")
	}
}

func TestCreateStoresDetailFields(t *testing.T) {
	repo := newStubProductRepo()
	svc := newCatalogService(t, repo, nil)

	until := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	req := validCreateProduct()
	req.Brand = "KushalWear"
	req.Material = "100% linen"
	req.Care = "Machine wash cold"
	req.Images = []string{"https://cdn.kushalwear.test/shirt-front.jpg", "https://cdn.kushalwear.test/shirt-back.jpg"}
	req.DiscountPercent = 20
	req.DiscountValidUntil = &until

	product, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if product.Brand != "KushalWear" || product.Material != "100% linen" || product.Care != "Machine wash cold" {
		t.Fatalf("detail fields not stored: %+v", product)
	}
	// No mainImage in the request, so the first gallery image is promoted.
	if product.MainImage != req.Images[0] {
		t.Fatalf("expected main image %q, got %q", req.Images[0], product.MainImage)
	}
	if product.DiscountValidUntil == nil || !product.DiscountValidUntil.Equal(until) {
		t.Fatalf("expected discount deadline %v, got %v", until, product.DiscountValidUntil)
	}
}

func TestCreateKeepsExplicitMainImage(t *testing.T) {
	repo := newStubProductRepo()
	svc := newCatalogService(t, repo, nil)

	req := validCreateProduct()
	req.Images = []string{"https://cdn.kushalwear.test/a.jpg"}
	req.MainImage = "https://cdn.kushalwear.test/hero.jpg"

	product, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if product.MainImage != req.MainImage {
		t.Fatalf("expected %q, got %q", req.MainImage, product.MainImage)
	}
}

func TestCreateRejectsUnknownCategory(t *testing.T) {
	repo := newStubProductRepo()
	svc := newCatalogService(t, repo, nil)

	req := validCreateProduct()
	req.Category = "pets"

	_, err := svc.Create(context.Background(), req)
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestListRejectsUnknownCategory(t *testing.T) {
	repo := newStubProductRepo()
	svc := newCatalogService(t, repo, nil)

	_, err := svc.List(context.Background(), ListFilters{Category: "pets"})
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestDeleteHidesProductFromCatalog(t *testing.T) {
	repo := newStubProductRepo()
	svc := newCatalogService(t, repo, nil)
	ctx := context.Background()

	product, err := svc.Create(ctx, validCreateProduct())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	productID := uuid.MustParse(product.ID)

	if err := svc.Delete(ctx, productID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	_, _, err = svc.GetByID(ctx, productID)
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND after delete, got %v", err)
	}

	if err := svc.Delete(ctx, productID); err == nil {
		t.Fatalf("expected second delete to fail")
	}
}

func TestUpdateUnknownProductReturnsNotFound(t *testing.T) {
	repo := newStubProductRepo()
	svc := newCatalogService(t, repo, nil)

	stock := 4
	_, err := svc.Update(context.Background(), uuid.New(), UpdateProductRequest{Stock: &stock})
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestUpdateWithNoFieldsIsRejected(t *testing.T) {
	repo := newStubProductRepo()
	svc := newCatalogService(t, repo, nil)

	_, err := svc.Update(context.Background(), uuid.New(), UpdateProductRequest{})
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestAddReviewRecomputesRating(t *testing.T) {
	repo := newStubProductRepo()
	svc := newCatalogService(t, repo, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreateProduct())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	productID := uuid.MustParse(created.ID)

	if _, err := svc.AddReview(ctx, productID, uuid.New(), ReviewRequest{Rating: 5, Comment: "great fit"}); err != nil {
		t.Fatalf("first review: %v", err)
	}
	updated, err := svc.AddReview(ctx, productID, uuid.New(), ReviewRequest{Rating: 2})
	if err != nil {
		t.Fatalf("second review: %v", err)
	}

	if updated.RatingCount != 2 {
		t.Fatalf("expected 2 ratings, got %d", updated.RatingCount)
	}
	if updated.RatingAverage != 3.5 {
		t.Fatalf("expected average 3.5, got %v", updated.RatingAverage)
	}
}

func TestAddReviewRejectsSecondReviewFromSameUser(t *testing.T) {
	repo := newStubProductRepo()
	svc := newCatalogService(t, repo, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreateProduct())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	productID := uuid.MustParse(created.ID)
	reviewer := uuid.New()

	if _, err := svc.AddReview(ctx, productID, reviewer, ReviewRequest{Rating: 4}); err != nil {
		t.Fatalf("first review: %v", err)
	}
	_, err = svc.AddReview(ctx, productID, reviewer, ReviewRequest{Rating: 1})
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeConflict {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestAddReviewUnknownProductReturnsNotFound(t *testing.T) {
	repo := newStubProductRepo()
	svc := newCatalogService(t, repo, nil)

	_, err := svc.AddReview(context.Background(), uuid.New(), uuid.New(), ReviewRequest{Rating: 4})
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestFeaturedShelfHonorsLimit(t *testing.T) {
	repo := newStubProductRepo()
	svc := newCatalogService(t, repo, nil)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		req := validCreateProduct()
		req.Featured = true
		if _, err := svc.Create(ctx, req); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	shelf, err := svc.Featured(ctx)
	if err != nil {
		t.Fatalf("Featured: %v", err)
	}
	if len(shelf) != featuredLimit {
		t.Fatalf("expected %d featured products, got %d", featuredLimit, len(shelf))
	}
}
