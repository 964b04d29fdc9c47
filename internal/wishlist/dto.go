package wishlist

import (
	"time"

	"github.com/Kushal-prime/kushalwearback/pkg/db/models"
	"github.com/Kushal-prime/kushalwearback/pkg/types"
)

// ItemDTO is the public shape of one saved product.
type ItemDTO struct {
	ID        string       `json:"id"`
	ProductID string       `json:"productId"`
	Name      string       `json:"name"`
	Price     float64      `json:"price"`
	Image     string       `json:"image,omitempty"`
	Size      *string      `json:"size,omitempty"`
	Color     *types.Color `json:"color,omitempty"`
	AddedAt   time.Time    `json:"addedAt"`
}

// WishlistDTO is the public wishlist shape.
type WishlistDTO struct {
	Items      []ItemDTO `json:"items"`
	TotalItems int       `json:"totalItems"`
}

// AddItemRequest saves a product, optionally with variant preferences.
// Re-adding an already saved product overwrites only the fields provided.
type AddItemRequest struct {
	ProductID string       `json:"productId" validate:"required,uuid"`
	Size      *string      `json:"size,omitempty" validate:"omitempty,oneof=XS S M L XL XXL XXXL"`
	Color     *types.Color `json:"color,omitempty"`
}

// CheckDTO answers the membership probe for one product.
type CheckDTO struct {
	InWishlist bool `json:"inWishlist"`
}

// MoveToCartDTO reports a successful move.
type MoveToCartDTO struct {
	Message  string      `json:"message"`
	Wishlist WishlistDTO `json:"wishlist"`
}

// ToDTO converts wishlist rows into the public shape.
func ToDTO(items []models.WishlistItem) WishlistDTO {
	dto := WishlistDTO{Items: make([]ItemDTO, 0, len(items))}
	for i := range items {
		item := &items[i]
		price, _ := item.Price.Float64()
		entry := ItemDTO{
			ID:        item.ID.String(),
			ProductID: item.ProductID.String(),
			Name:      item.Name,
			Price:     price,
			Image:     item.Image,
			Size:      item.Size,
			AddedAt:   item.AddedAt,
		}
		if item.ColorName != nil {
			color := types.Color{Name: *item.ColorName}
			if item.ColorHex != nil {
				color.Hex = *item.ColorHex
			}
			entry.Color = &color
		}
		dto.Items = append(dto.Items, entry)
	}
	dto.TotalItems = len(dto.Items)
	return dto
}
