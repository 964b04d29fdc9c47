package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/Kushal-prime/kushalwearback/pkg/db"
	"github.com/Kushal-prime/kushalwearback/pkg/db/models"
	apperrors "github.com/Kushal-prime/kushalwearback/pkg/errors"
	"github.com/Kushal-prime/kushalwearback/pkg/types"
)

// CartRepository is the persistence surface the cart service needs.
type CartRepository interface {
	GetItems(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	AddOrMerge(ctx context.Context, userID uuid.UUID, incoming models.CartItem, maxStock int) ([]models.CartItem, error)
	SetQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) ([]models.CartItem, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) ([]models.CartItem, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

// ProductGetter resolves products for snapshotting and stock checks.
type ProductGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// ServiceParams wires the cart service dependencies.
type ServiceParams struct {
	Carts    CartRepository
	Products ProductGetter
}

// Service implements cart reads and mutations.
type Service struct {
	carts    CartRepository
	products ProductGetter
}

// NewService validates params and builds the service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Carts == nil {
		return nil, fmt.Errorf("cart service requires a cart repository")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("cart service requires a product getter")
	}
	return &Service{carts: params.Carts, products: params.Products}, nil
}

// Get returns the user's cart with derived totals.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	items, err := s.carts.GetItems(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "load cart")
	}
	dto := ToDTO(items)
	return &dto, nil
}

// Count returns the total unit count across all lines.
func (s *Service) Count(ctx context.Context, userID uuid.UUID) (int, error) {
	items, err := s.carts.GetItems(ctx, userID)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeInternal, err, "load cart")
	}
	count := 0
	for i := range items {
		count += items[i].Quantity
	}
	return count, nil
}

// Add puts a product variant in the cart, merging with an existing line
// of the same identity. A single request asking for more than the
// available stock is rejected; the merged total itself is unbounded.
func (s *Service) Add(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartDTO, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeValidation, "productId must be a valid id")
	}
	quantity := req.Quantity
	if quantity < 1 {
		quantity = 1
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "product not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "fetch product")
	}
	if !product.InStock() {
		return nil, apperrors.New(apperrors.CodeConflict, "product is out of stock")
	}
	if quantity > product.Stock {
		return nil, apperrors.New(apperrors.CodeValidation,
			fmt.Sprintf("Only %d items available", product.Stock))
	}
	if req.Size != nil && len(product.Sizes) > 0 && !contains(product.Sizes, *req.Size) {
		return nil, apperrors.New(apperrors.CodeValidation, "size not available for this product")
	}

	incoming := buildLine(product, quantity, req.Size, req.Color)
	items, err := s.carts.AddOrMerge(ctx, userID, incoming, 0)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "add cart item")
	}
	dto := ToDTO(items)
	return &dto, nil
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
// Raising the quantity re-checks the product's current stock.
func (s *Service) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*CartDTO, error) {
	if quantity > 0 {
		current, err := s.carts.GetItems(ctx, userID)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeInternal, err, "load cart")
		}
		var line *models.CartItem
		for i := range current {
			if current[i].ID == itemID {
				line = &current[i]
				break
			}
		}
		if line == nil {
			return nil, apperrors.New(apperrors.CodeNotFound, "cart item not found")
		}

		product, err := s.products.GetByID(ctx, line.ProductID)
		if err != nil {
			if db.IsNotFound(err) {
				return nil, apperrors.New(apperrors.CodeNotFound, "product not found")
			}
			return nil, apperrors.Wrap(apperrors.CodeInternal, err, "fetch product")
		}
		if quantity > product.Stock {
			return nil, apperrors.New(apperrors.CodeValidation,
				fmt.Sprintf("Only %d items available", product.Stock))
		}
	}

	items, err := s.carts.SetQuantity(ctx, userID, itemID, quantity)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "cart item not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "update cart item")
	}
	dto := ToDTO(items)
	return &dto, nil
}

// Remove deletes one line from the cart.
func (s *Service) Remove(ctx context.Context, userID, itemID uuid.UUID) (*CartDTO, error) {
	items, err := s.carts.RemoveItem(ctx, userID, itemID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "cart item not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "remove cart item")
	}
	dto := ToDTO(items)
	return &dto, nil
}

// Clear empties the cart.
func (s *Service) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.carts.Clear(ctx, userID); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "clear cart")
	}
	return nil
}

// Merge folds a guest cart into the account cart. Lines whose product is
// missing, inactive or out of stock are skipped; quantities clamp to
// stock; one bad line never aborts the rest.
func (s *Service) Merge(ctx context.Context, userID uuid.UUID, req MergeRequest) (*MergeResultDTO, error) {
	var skipped []string
	var lineErrs error

	for _, guest := range req.Items {
		productID, err := uuid.Parse(guest.ProductID)
		if err != nil {
			skipped = append(skipped, guest.ProductID)
			continue
		}

		product, err := s.products.GetByID(ctx, productID)
		if err != nil {
			if db.IsNotFound(err) {
				skipped = append(skipped, guest.ProductID)
				continue
			}
			lineErrs = multierr.Append(lineErrs, fmt.Errorf("fetch product %s: %w", guest.ProductID, err))
			skipped = append(skipped, guest.ProductID)
			continue
		}
		if !product.InStock() {
			skipped = append(skipped, guest.ProductID)
			continue
		}

		incoming := buildLine(product, guest.Quantity, guest.Size, guest.Color)
		if _, err := s.carts.AddOrMerge(ctx, userID, incoming, product.Stock); err != nil {
			lineErrs = multierr.Append(lineErrs, fmt.Errorf("merge product %s: %w", guest.ProductID, err))
			skipped = append(skipped, guest.ProductID)
		}
	}

	items, err := s.carts.GetItems(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, multierr.Append(lineErrs, err), "load cart")
	}

	result := &MergeResultDTO{
		Message: "Cart merged successfully",
		Cart:    ToDTO(items),
		Skipped: skipped,
	}
	if lineErrs != nil {
		result.Message = "Cart merged with some items skipped"
	}
	return result, nil
}

func buildLine(product *models.Product, quantity int, size *string, color *types.Color) models.CartItem {
	price := product.Price
	image := product.MainImage
	if image == "" && len(product.Images) > 0 {
		image = product.Images[0]
	}

	item := models.CartItem{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     price,
		Image:     image,
		Size:      size,
		Quantity:  quantity,
	}
	if color != nil && color.Name != "" {
		item.ColorName = &color.Name
		if color.Hex != "" {
			item.ColorHex = &color.Hex
		}
	}
	return item
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
