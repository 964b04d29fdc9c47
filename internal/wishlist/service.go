package wishlist

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Kushal-prime/kushalwearback/internal/cart"
	"github.com/Kushal-prime/kushalwearback/pkg/db"
	"github.com/Kushal-prime/kushalwearback/pkg/db/models"
	apperrors "github.com/Kushal-prime/kushalwearback/pkg/errors"
	"github.com/Kushal-prime/kushalwearback/pkg/types"
)

// WishlistRepository is the persistence surface the wishlist service needs.
type WishlistRepository interface {
	FindOrCreate(ctx context.Context, userID uuid.UUID) (*models.Wishlist, error)
	Items(ctx context.Context, wishlistID uuid.UUID) ([]models.WishlistItem, error)
	FindByProduct(ctx context.Context, wishlistID, productID uuid.UUID) (*models.WishlistItem, error)
	Insert(ctx context.Context, item *models.WishlistItem) error
	UpdateFields(ctx context.Context, itemID uuid.UUID, updates map[string]any) error
	DeleteByProduct(ctx context.Context, wishlistID, productID uuid.UUID) error
	Clear(ctx context.Context, wishlistID uuid.UUID) error
	HasProduct(ctx context.Context, wishlistID, productID uuid.UUID) (bool, error)
}

// CartAdder moves saved products into the cart.
type CartAdder interface {
	Add(ctx context.Context, userID uuid.UUID, req cart.AddItemRequest) (*cart.CartDTO, error)
}

// ProductGetter resolves products for snapshotting.
type ProductGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// ServiceParams wires the wishlist service dependencies. Now is
// optional and defaults to time.Now.
type ServiceParams struct {
	Wishlists WishlistRepository
	Products  ProductGetter
	Carts     CartAdder
	Now       func() time.Time
}

// Service implements wishlist reads and mutations.
type Service struct {
	wishlists WishlistRepository
	products  ProductGetter
	carts     CartAdder
	now       func() time.Time
}

// NewService validates params and builds the service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Wishlists == nil {
		return nil, fmt.Errorf("wishlist service requires a wishlist repository")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("wishlist service requires a product getter")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("wishlist service requires a cart adder")
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &Service{
		wishlists: params.Wishlists,
		products:  params.Products,
		carts:     params.Carts,
		now:       params.Now,
	}, nil
}

// Get returns the user's wishlist.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*WishlistDTO, error) {
	wishlist, err := s.wishlists.FindOrCreate(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "load wishlist")
	}
	items, err := s.wishlists.Items(ctx, wishlist.ID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "load wishlist items")
	}
	dto := ToDTO(items)
	return &dto, nil
}

// Add saves a product. At most one row exists per product; re-adding
// bumps added_at and overwrites only the variant fields the request
// provides.
func (s *Service) Add(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*WishlistDTO, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeValidation, "productId must be a valid id")
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "product not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "fetch product")
	}

	wishlist, err := s.wishlists.FindOrCreate(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "load wishlist")
	}

	existing, err := s.wishlists.FindByProduct(ctx, wishlist.ID, productID)
	switch {
	case err == nil:
		updates := map[string]any{"added_at": s.now().UTC()}
		if req.Size != nil {
			updates["size"] = *req.Size
		}
		if req.Color != nil && req.Color.Name != "" {
			updates["color_name"] = req.Color.Name
			if req.Color.Hex != "" {
				updates["color_hex"] = req.Color.Hex
			}
		}
		if err := s.wishlists.UpdateFields(ctx, existing.ID, updates); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeInternal, err, "update wishlist item")
		}
	case db.IsNotFound(err):
		item := buildItem(wishlist.ID, product, req)
		if err := s.wishlists.Insert(ctx, item); err != nil {
			// A concurrent add of the same product wins; the upsert
			// semantics make this request a no-op.
			if !db.IsUniqueViolation(err) {
				return nil, apperrors.Wrap(apperrors.CodeInternal, err, "insert wishlist item")
			}
		}
	default:
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "lookup wishlist item")
	}

	return s.Get(ctx, userID)
}

// Remove deletes a product from the wishlist. Removing a product that is
// not saved succeeds without change.
func (s *Service) Remove(ctx context.Context, userID, productID uuid.UUID) (*WishlistDTO, error) {
	wishlist, err := s.wishlists.FindOrCreate(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "load wishlist")
	}
	if err := s.wishlists.DeleteByProduct(ctx, wishlist.ID, productID); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "remove wishlist item")
	}
	return s.Get(ctx, userID)
}

// Clear removes every saved product.
func (s *Service) Clear(ctx context.Context, userID uuid.UUID) error {
	wishlist, err := s.wishlists.FindOrCreate(ctx, userID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "load wishlist")
	}
	if err := s.wishlists.Clear(ctx, wishlist.ID); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "clear wishlist")
	}
	return nil
}

// Check reports whether a product is saved.
func (s *Service) Check(ctx context.Context, userID, productID uuid.UUID) (*CheckDTO, error) {
	wishlist, err := s.wishlists.FindOrCreate(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "load wishlist")
	}
	saved, err := s.wishlists.HasProduct(ctx, wishlist.ID, productID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "check wishlist")
	}
	return &CheckDTO{InWishlist: saved}, nil
}

// MoveToCart adds the saved product to the cart with its stored variant
// preferences, then removes it from the wishlist.
func (s *Service) MoveToCart(ctx context.Context, userID, productID uuid.UUID) (*MoveToCartDTO, error) {
	wishlist, err := s.wishlists.FindOrCreate(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "load wishlist")
	}

	item, err := s.wishlists.FindByProduct(ctx, wishlist.ID, productID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "product is not in the wishlist")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "lookup wishlist item")
	}

	addReq := cart.AddItemRequest{
		ProductID: item.ProductID.String(),
		Quantity:  1,
		Size:      item.Size,
	}
	if item.ColorName != nil {
		color := colorOf(item)
		addReq.Color = &color
	}
	if _, err := s.carts.Add(ctx, userID, addReq); err != nil {
		return nil, err
	}

	if err := s.wishlists.DeleteByProduct(ctx, wishlist.ID, productID); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "remove wishlist item")
	}

	dto, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &MoveToCartDTO{
		Message:  "Item moved to cart",
		Wishlist: *dto,
	}, nil
}

func colorOf(item *models.WishlistItem) types.Color {
	color := types.Color{}
	if item.ColorName != nil {
		color.Name = *item.ColorName
	}
	if item.ColorHex != nil {
		color.Hex = *item.ColorHex
	}
	return color
}

func buildItem(wishlistID uuid.UUID, product *models.Product, req AddItemRequest) *models.WishlistItem {
	image := product.MainImage
	if image == "" && len(product.Images) > 0 {
		image = product.Images[0]
	}
	item := &models.WishlistItem{
		WishlistID: wishlistID,
		ProductID:  product.ID,
		Name:       product.Name,
		Price:      product.Price,
		Image:      image,
		Size:       req.Size,
	}
	if req.Color != nil && req.Color.Name != "" {
		item.ColorName = &req.Color.Name
		if req.Color.Hex != "" {
			item.ColorHex = &req.Color.Hex
		}
	}
	return item
}
