package cart

import (
	"github.com/shopspring/decimal"

	"github.com/Kushal-prime/kushalwearback/pkg/db/models"
	"github.com/Kushal-prime/kushalwearback/pkg/types"
)

// ItemDTO is the public shape of one cart line.
type ItemDTO struct {
	ID        string       `json:"id"`
	ProductID string       `json:"productId"`
	Name      string       `json:"name"`
	Price     float64      `json:"price"`
	Image     string       `json:"image,omitempty"`
	Size      *string      `json:"size,omitempty"`
	Color     *types.Color `json:"color,omitempty"`
	Quantity  int          `json:"quantity"`
	LineTotal float64      `json:"lineTotal"`
}

// CartDTO is the public cart shape with derived totals.
type CartDTO struct {
	Items      []ItemDTO `json:"items"`
	TotalItems int       `json:"totalItems"`
	TotalPrice float64   `json:"totalPrice"`
}

// AddItemRequest puts a product variant in the cart.
type AddItemRequest struct {
	ProductID string       `json:"productId" validate:"required,uuid"`
	Quantity  int          `json:"quantity,omitempty" validate:"omitempty,gte=1"`
	Size      *string      `json:"size,omitempty" validate:"omitempty,oneof=XS S M L XL XXL XXXL"`
	Color     *types.Color `json:"color,omitempty"`
}

// UpdateQuantityRequest sets a line's quantity. Zero or less removes it.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// GuestItem is one line carried over from an anonymous browser cart.
type GuestItem struct {
	ProductID string       `json:"productId" validate:"required,uuid"`
	Quantity  int          `json:"quantity" validate:"required,gte=1"`
	Size      *string      `json:"size,omitempty" validate:"omitempty,oneof=XS S M L XL XXL XXXL"`
	Color     *types.Color `json:"color,omitempty"`
}

// MergeRequest folds a guest cart into the account cart at login.
type MergeRequest struct {
	Items []GuestItem `json:"items" validate:"required,dive"`
}

// MergeResultDTO reports what happened to each guest line.
type MergeResultDTO struct {
	Message string   `json:"message"`
	Cart    CartDTO  `json:"cart"`
	Skipped []string `json:"skipped,omitempty"`
}

// ToDTO converts cart lines into the public cart shape.
func ToDTO(items []models.CartItem) CartDTO {
	dto := CartDTO{Items: make([]ItemDTO, 0, len(items))}
	total := decimal.Zero
	for i := range items {
		item := &items[i]
		price, _ := item.Price.Float64()
		lineTotal := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		lineFloat, _ := lineTotal.Float64()

		entry := ItemDTO{
			ID:        item.ID.String(),
			ProductID: item.ProductID.String(),
			Name:      item.Name,
			Price:     price,
			Image:     item.Image,
			Size:      item.Size,
			Quantity:  item.Quantity,
			LineTotal: lineFloat,
		}
		if item.ColorName != nil {
			color := types.Color{Name: *item.ColorName}
			if item.ColorHex != nil {
				color.Hex = *item.ColorHex
			}
			entry.Color = &color
		}

		dto.Items = append(dto.Items, entry)
		dto.TotalItems += item.Quantity
		total = total.Add(lineTotal)
	}
	dto.TotalPrice, _ = total.Float64()
	return dto
}
