package cart

import (
	"github.com/google/uuid"

	"github.com/Kushal-prime/kushalwearback/pkg/db/models"
)

// ItemIdentity is the tuple that makes a cart line unique. Two adds with
// the same product, size and color name land on the same line; a missing
// size or color collapses to the empty string.
type ItemIdentity struct {
	ProductID uuid.UUID
	Size      string
	ColorName string
}

// IdentityOf derives the identity tuple from a cart line.
func IdentityOf(item *models.CartItem) ItemIdentity {
	identity := ItemIdentity{ProductID: item.ProductID}
	if item.Size != nil {
		identity.Size = *item.Size
	}
	if item.ColorName != nil {
		identity.ColorName = *item.ColorName
	}
	return identity
}

// MergeLineItem folds incoming into items. A line with the same identity
// absorbs the incoming quantity; otherwise incoming is appended. The
// returned flag reports whether an existing line was matched.
func MergeLineItem(items []models.CartItem, incoming models.CartItem) ([]models.CartItem, bool) {
	target := IdentityOf(&incoming)
	for i := range items {
		if IdentityOf(&items[i]) == target {
			items[i].Quantity += incoming.Quantity
			return items, true
		}
	}
	return append(items, incoming), false
}

// ClampQuantity caps the requested quantity to available stock. Stock of
// zero or less yields zero.
func ClampQuantity(requested, stock int) int {
	if stock < 0 {
		stock = 0
	}
	if requested > stock {
		return stock
	}
	return requested
}
