package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Kushal-prime/kushalwearback/pkg/db/models"
	"github.com/Kushal-prime/kushalwearback/pkg/enums"
	apperrors "github.com/Kushal-prime/kushalwearback/pkg/errors"
	"github.com/Kushal-prime/kushalwearback/pkg/types"
)

type stubCartRepo struct {
	items map[uuid.UUID][]models.CartItem
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{items: map[uuid.UUID][]models.CartItem{}}
}

func (r *stubCartRepo) GetItems(_ context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	return r.items[userID], nil
}

func (r *stubCartRepo) AddOrMerge(_ context.Context, userID uuid.UUID, incoming models.CartItem, maxStock int) ([]models.CartItem, error) {
	incoming.ID = uuid.New()
	merged, _ := MergeLineItem(r.items[userID], incoming)
	if maxStock > 0 {
		for i := range merged {
			if IdentityOf(&merged[i]) == IdentityOf(&incoming) {
				merged[i].Quantity = ClampQuantity(merged[i].Quantity, maxStock)
			}
		}
	}
	r.items[userID] = merged
	return merged, nil
}

func (r *stubCartRepo) SetQuantity(_ context.Context, userID, itemID uuid.UUID, quantity int) ([]models.CartItem, error) {
	items := r.items[userID]
	for i := range items {
		if items[i].ID == itemID {
			if quantity <= 0 {
				items = append(items[:i], items[i+1:]...)
			} else {
				items[i].Quantity = quantity
			}
			r.items[userID] = items
			return items, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCartRepo) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) ([]models.CartItem, error) {
	return r.SetQuantity(ctx, userID, itemID, 0)
}

func (r *stubCartRepo) Clear(_ context.Context, userID uuid.UUID) error {
	r.items[userID] = nil
	return nil
}

type stubProductGetter struct {
	products map[uuid.UUID]*models.Product
}

func (g *stubProductGetter) GetByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := g.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func testProduct(stock int) *models.Product {
	return &models.Product{
		ID:       uuid.New(),
		Name:     "Linen Shirt",
		Price:    decimal.NewFromInt(45),
		Category: enums.ProductCategoryMen,
		Images:   []string{"https://cdn.kushalwear.test/linen.jpg"},
		Sizes:    []string{"S", "M", "L"},
		Stock:    stock,
		Active:   true,
	}
}

func newCartService(t *testing.T, carts CartRepository, products ProductGetter) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Carts: carts, Products: products})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestAddTwiceMergesQuantities(t *testing.T) {
	product := testProduct(10)
	repo := newStubCartRepo()
	svc := newCartService(t, repo, &stubProductGetter{products: map[uuid.UUID]*models.Product{product.ID: product}})
	ctx := context.Background()
	userID := uuid.New()

	size := "M"
	req := AddItemRequest{
		ProductID: product.ID.String(),
		Quantity:  2,
		Size:      &size,
		Color:     &types.Color{Name: "White", Hex: "#fff"},
	}

	if _, err := svc.Add(ctx, userID, req); err != nil {
		t.Fatalf("first add: %v", err)
	}
	result, err := svc.Add(ctx, userID, req)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}

	if len(result.Items) != 1 {
		t.Fatalf("expected one merged line, got %d", len(result.Items))
	}
	if result.Items[0].Quantity != 4 {
		t.Fatalf("expected quantity 4, got %d", result.Items[0].Quantity)
	}
	if result.TotalItems != 4 {
		t.Fatalf("expected 4 total items, got %d", result.TotalItems)
	}
	if result.TotalPrice != 180 {
		t.Fatalf("expected total price 180, got %v", result.TotalPrice)
	}
}

func TestAddTwiceSumsPastStock(t *testing.T) {
	product := testProduct(3)
	repo := newStubCartRepo()
	svc := newCartService(t, repo, &stubProductGetter{products: map[uuid.UUID]*models.Product{product.ID: product}})
	ctx := context.Background()
	userID := uuid.New()

	req := AddItemRequest{ProductID: product.ID.String(), Quantity: 2}
	if _, err := svc.Add(ctx, userID, req); err != nil {
		t.Fatalf("first add: %v", err)
	}
	result, err := svc.Add(ctx, userID, req)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}

	if len(result.Items) != 1 {
		t.Fatalf("expected one merged line, got %d", len(result.Items))
	}
	if result.Items[0].Quantity != 4 {
		t.Fatalf("expected quantity 4, got %d", result.Items[0].Quantity)
	}
}

func TestAddDifferentSizeCreatesNewLine(t *testing.T) {
	product := testProduct(10)
	repo := newStubCartRepo()
	svc := newCartService(t, repo, &stubProductGetter{products: map[uuid.UUID]*models.Product{product.ID: product}})
	ctx := context.Background()
	userID := uuid.New()

	sizeM, sizeL := "M", "L"
	if _, err := svc.Add(ctx, userID, AddItemRequest{ProductID: product.ID.String(), Quantity: 1, Size: &sizeM}); err != nil {
		t.Fatalf("add M: %v", err)
	}
	result, err := svc.Add(ctx, userID, AddItemRequest{ProductID: product.ID.String(), Quantity: 1, Size: &sizeL})
	if err != nil {
		t.Fatalf("add L: %v", err)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected two lines, got %d", len(result.Items))
	}
}

func TestAddRejectsQuantityBeyondStock(t *testing.T) {
	product := testProduct(3)
	repo := newStubCartRepo()
	svc := newCartService(t, repo, &stubProductGetter{products: map[uuid.UUID]*models.Product{product.ID: product}})

	_, err := svc.Add(context.Background(), uuid.New(), AddItemRequest{ProductID: product.ID.String(), Quantity: 9})
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
	if typed.Message() != "Only 3 items available" {
		t.Fatalf("unexpected message %q", typed.Message())
	}
}

func TestAddRejectsUnknownProduct(t *testing.T) {
	repo := newStubCartRepo()
	svc := newCartService(t, repo, &stubProductGetter{products: map[uuid.UUID]*models.Product{}})

	_, err := svc.Add(context.Background(), uuid.New(), AddItemRequest{ProductID: uuid.NewString(), Quantity: 1})
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestAddRejectsOutOfStockProduct(t *testing.T) {
	product := testProduct(0)
	repo := newStubCartRepo()
	svc := newCartService(t, repo, &stubProductGetter{products: map[uuid.UUID]*models.Product{product.ID: product}})

	_, err := svc.Add(context.Background(), uuid.New(), AddItemRequest{ProductID: product.ID.String(), Quantity: 1})
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeConflict {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	product := testProduct(10)
	repo := newStubCartRepo()
	svc := newCartService(t, repo, &stubProductGetter{products: map[uuid.UUID]*models.Product{product.ID: product}})
	ctx := context.Background()
	userID := uuid.New()

	added, err := svc.Add(ctx, userID, AddItemRequest{ProductID: product.ID.String(), Quantity: 2})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	itemID := uuid.MustParse(added.Items[0].ID)

	result, err := svc.UpdateQuantity(ctx, userID, itemID, 0)
	if err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}
	if len(result.Items) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(result.Items))
	}
}

func TestUpdateQuantityRejectsBeyondStock(t *testing.T) {
	product := testProduct(5)
	repo := newStubCartRepo()
	svc := newCartService(t, repo, &stubProductGetter{products: map[uuid.UUID]*models.Product{product.ID: product}})
	ctx := context.Background()
	userID := uuid.New()

	added, err := svc.Add(ctx, userID, AddItemRequest{ProductID: product.ID.String(), Quantity: 2})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	itemID := uuid.MustParse(added.Items[0].ID)

	_, err = svc.UpdateQuantity(ctx, userID, itemID, 8)
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
	if typed.Message() != "Only 5 items available" {
		t.Fatalf("unexpected message %q", typed.Message())
	}

	result, err := svc.UpdateQuantity(ctx, userID, itemID, 5)
	if err != nil {
		t.Fatalf("UpdateQuantity at stock: %v", err)
	}
	if result.Items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", result.Items[0].Quantity)
	}
}

func TestRemoveUnknownItemReturnsNotFound(t *testing.T) {
	repo := newStubCartRepo()
	product := testProduct(10)
	svc := newCartService(t, repo, &stubProductGetter{products: map[uuid.UUID]*models.Product{product.ID: product}})

	_, err := svc.Remove(context.Background(), uuid.New(), uuid.New())
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestMergeSkipsMissingAndOutOfStockLines(t *testing.T) {
	inStock := testProduct(5)
	soldOut := testProduct(0)
	repo := newStubCartRepo()
	svc := newCartService(t, repo, &stubProductGetter{products: map[uuid.UUID]*models.Product{
		inStock.ID: inStock,
		soldOut.ID: soldOut,
	}})
	ctx := context.Background()
	userID := uuid.New()

	result, err := svc.Merge(ctx, userID, MergeRequest{Items: []GuestItem{
		{ProductID: inStock.ID.String(), Quantity: 9},
		{ProductID: soldOut.ID.String(), Quantity: 1},
		{ProductID: uuid.NewString(), Quantity: 1},
	}})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	if len(result.Cart.Items) != 1 {
		t.Fatalf("expected one surviving line, got %d", len(result.Cart.Items))
	}
	if result.Cart.Items[0].Quantity != 5 {
		t.Fatalf("expected clamp to stock 5, got %d", result.Cart.Items[0].Quantity)
	}
	if len(result.Skipped) != 2 {
		t.Fatalf("expected 2 skipped lines, got %d", len(result.Skipped))
	}
}

func TestCountSumsQuantities(t *testing.T) {
	product := testProduct(10)
	repo := newStubCartRepo()
	svc := newCartService(t, repo, &stubProductGetter{products: map[uuid.UUID]*models.Product{product.ID: product}})
	ctx := context.Background()
	userID := uuid.New()

	sizeM, sizeL := "M", "L"
	if _, err := svc.Add(ctx, userID, AddItemRequest{ProductID: product.ID.String(), Quantity: 2, Size: &sizeM}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.Add(ctx, userID, AddItemRequest{ProductID: product.ID.String(), Quantity: 3, Size: &sizeL}); err != nil {
		t.Fatalf("add: %v", err)
	}

	count, err := svc.Count(ctx, userID)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 5 {
		t.Fatalf("expected 5, got %d", count)
	}
}
