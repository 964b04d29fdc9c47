package wishlist

import (
	"context"

	"github.com/google/uuid"

	"github.com/Kushal-prime/kushalwearback/pkg/db"
	"github.com/Kushal-prime/kushalwearback/pkg/db/models"
)

// Repository persists wishlists and their items.
type Repository struct {
	client *db.Client
}

// NewRepository binds the repository to a database handle.
func NewRepository(client *db.Client) *Repository {
	return &Repository{client: client}
}

// FindOrCreate returns the user's wishlist, creating it on first use.
// Insert-then-refetch on unique violation keeps concurrent first requests
// converging on a single row.
func (r *Repository) FindOrCreate(ctx context.Context, userID uuid.UUID) (*models.Wishlist, error) {
	gdb := r.client.Gorm().WithContext(ctx)

	var wishlist models.Wishlist
	err := gdb.First(&wishlist, "user_id = ?", userID).Error
	if err == nil {
		return &wishlist, nil
	}
	if !db.IsNotFound(err) {
		return nil, err
	}

	wishlist = models.Wishlist{UserID: userID}
	if err := gdb.Create(&wishlist).Error; err != nil {
		if !db.IsUniqueViolation(err) {
			return nil, err
		}
		if err := gdb.First(&wishlist, "user_id = ?", userID).Error; err != nil {
			return nil, err
		}
	}
	return &wishlist, nil
}

// Items returns the saved products, newest first.
func (r *Repository) Items(ctx context.Context, wishlistID uuid.UUID) ([]models.WishlistItem, error) {
	var items []models.WishlistItem
	err := r.client.Gorm().WithContext(ctx).
		Where("wishlist_id = ?", wishlistID).
		Order("added_at DESC").
		Find(&items).Error
	return items, err
}

// FindByProduct locates the saved row for a product, if any.
func (r *Repository) FindByProduct(ctx context.Context, wishlistID, productID uuid.UUID) (*models.WishlistItem, error) {
	var item models.WishlistItem
	err := r.client.Gorm().WithContext(ctx).
		First(&item, "wishlist_id = ? AND product_id = ?", wishlistID, productID).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Insert adds a saved product.
func (r *Repository) Insert(ctx context.Context, item *models.WishlistItem) error {
	return r.client.Gorm().WithContext(ctx).Create(item).Error
}

// UpdateFields applies column updates to one saved row.
func (r *Repository) UpdateFields(ctx context.Context, itemID uuid.UUID, updates map[string]any) error {
	return r.client.Gorm().WithContext(ctx).
		Model(&models.WishlistItem{}).
		Where("id = ?", itemID).
		Updates(updates).Error
}

// DeleteByProduct removes a product from the wishlist. Deleting a product
// that is not saved is a no-op.
func (r *Repository) DeleteByProduct(ctx context.Context, wishlistID, productID uuid.UUID) error {
	return r.client.Gorm().WithContext(ctx).
		Where("wishlist_id = ? AND product_id = ?", wishlistID, productID).
		Delete(&models.WishlistItem{}).Error
}

// Clear removes every saved product.
func (r *Repository) Clear(ctx context.Context, wishlistID uuid.UUID) error {
	return r.client.Gorm().WithContext(ctx).
		Where("wishlist_id = ?", wishlistID).
		Delete(&models.WishlistItem{}).Error
}

// HasProduct reports whether the product is saved.
func (r *Repository) HasProduct(ctx context.Context, wishlistID, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.client.Gorm().WithContext(ctx).
		Model(&models.WishlistItem{}).
		Where("wishlist_id = ? AND product_id = ?", wishlistID, productID).
		Count(&count).Error
	return count > 0, err
}
