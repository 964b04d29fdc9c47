package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Kushal-prime/kushalwearback/pkg/db"
	"github.com/Kushal-prime/kushalwearback/pkg/db/models"
)

// Repository persists carts and their lines. Every mutation locks the
// cart row FOR UPDATE first so concurrent requests for the same user
// serialize; the partial unique index on the line identity backs this up
// if two transactions race past the lock.
type Repository struct {
	client *db.Client
}

// NewRepository binds the repository to a database handle.
func NewRepository(client *db.Client) *Repository {
	return &Repository{client: client}
}

// GetItems returns the lines of the user's cart, oldest first. A user
// with no cart yet gets an empty slice.
func (r *Repository) GetItems(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var cart models.Cart
	err := r.client.Gorm().WithContext(ctx).
		First(&cart, "user_id = ?", userID).Error
	if err != nil {
		if db.IsNotFound(err) {
			return []models.CartItem{}, nil
		}
		return nil, err
	}
	return r.itemsOf(r.client.Gorm().WithContext(ctx), cart.ID)
}

// AddOrMerge folds incoming into the user's cart. A line with the same
// (product, size, color name) identity absorbs the full quantity;
// otherwise a new line is inserted. A positive maxStock caps the merged
// result, used by the guest-cart merge. Returns the resulting lines.
func (r *Repository) AddOrMerge(ctx context.Context, userID uuid.UUID, incoming models.CartItem, maxStock int) ([]models.CartItem, error) {
	var result []models.CartItem
	err := r.mutate(ctx, userID, func(tx *gorm.DB, cart *models.Cart) error {
		existing, err := r.findLine(tx, cart.ID, IdentityOf(&incoming))
		switch {
		case err == nil:
			quantity := existing.Quantity + incoming.Quantity
			if maxStock > 0 {
				quantity = ClampQuantity(quantity, maxStock)
			}
			err = tx.Model(existing).Update("quantity", quantity).Error
		case db.IsNotFound(err):
			incoming.CartID = cart.ID
			if maxStock > 0 {
				incoming.Quantity = ClampQuantity(incoming.Quantity, maxStock)
			}
			err = tx.Create(&incoming).Error
		}
		if err != nil {
			return err
		}

		result, err = r.itemsOf(tx, cart.ID)
		return err
	})
	return result, err
}

// SetQuantity updates a line's quantity, deleting it at zero or less.
// Returns gorm.ErrRecordNotFound when the line is not in the user's cart.
func (r *Repository) SetQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) ([]models.CartItem, error) {
	var result []models.CartItem
	err := r.mutate(ctx, userID, func(tx *gorm.DB, cart *models.Cart) error {
		var item models.CartItem
		err := tx.First(&item, "id = ? AND cart_id = ?", itemID, cart.ID).Error
		if err != nil {
			return err
		}

		if quantity <= 0 {
			err = tx.Delete(&item).Error
		} else {
			err = tx.Model(&item).Update("quantity", quantity).Error
		}
		if err != nil {
			return err
		}

		result, err = r.itemsOf(tx, cart.ID)
		return err
	})
	return result, err
}

// RemoveItem deletes one line from the user's cart.
func (r *Repository) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) ([]models.CartItem, error) {
	return r.SetQuantity(ctx, userID, itemID, 0)
}

// Clear deletes every line in the user's cart.
func (r *Repository) Clear(ctx context.Context, userID uuid.UUID) error {
	return r.mutate(ctx, userID, func(tx *gorm.DB, cart *models.Cart) error {
		return tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error
	})
}

// mutate runs fn against the user's locked cart, creating the cart row
// on first use. Every successful mutation stamps the cart's updated_at
// so the last-modified timestamp tracks line changes too.
func (r *Repository) mutate(ctx context.Context, userID uuid.UUID, fn func(tx *gorm.DB, cart *models.Cart) error) error {
	return r.client.WithTx(ctx, func(tx *gorm.DB) error {
		cart, err := lockCart(tx, userID)
		if err != nil {
			return err
		}
		if err := fn(tx, cart); err != nil {
			return err
		}
		return tx.Model(cart).Update("updated_at", time.Now().UTC()).Error
	})
}

func lockCart(tx *gorm.DB, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := forUpdate(tx).First(&cart, "user_id = ?", userID).Error
	if err == nil {
		return &cart, nil
	}
	if !db.IsNotFound(err) {
		return nil, err
	}

	cart = models.Cart{UserID: userID}
	if err := tx.Create(&cart).Error; err != nil {
		if !db.IsUniqueViolation(err) {
			return nil, err
		}
		// Another request created the cart first; lock that one.
		err = forUpdate(tx).First(&cart, "user_id = ?", userID).Error
		if err != nil {
			return nil, err
		}
	}
	return &cart, nil
}

// forUpdate adds the row lock. sqlite has a single writer and no
// FOR UPDATE syntax, so it goes without.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func (r *Repository) itemsOf(tx *gorm.DB, cartID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	err := tx.Where("cart_id = ?", cartID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *Repository) findLine(tx *gorm.DB, cartID uuid.UUID, identity ItemIdentity) (*models.CartItem, error) {
	query := tx.Where("cart_id = ? AND product_id = ?", cartID, identity.ProductID)
	if identity.Size == "" {
		query = query.Where("size IS NULL")
	} else {
		query = query.Where("size = ?", identity.Size)
	}
	if identity.ColorName == "" {
		query = query.Where("color_name IS NULL")
	} else {
		query = query.Where("color_name = ?", identity.ColorName)
	}

	var item models.CartItem
	if err := query.First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}
