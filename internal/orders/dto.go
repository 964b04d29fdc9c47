package orders

import (
	"time"

	"github.com/Kushal-prime/kushalwearback/pkg/db/models"
	"github.com/Kushal-prime/kushalwearback/pkg/pagination"
	"github.com/Kushal-prime/kushalwearback/pkg/types"
)

// ItemRequest is one purchased line as submitted at checkout.
type ItemRequest struct {
	ProductID string       `json:"productId" validate:"required,uuid"`
	Name      string       `json:"name" validate:"required"`
	Price     float64      `json:"price" validate:"required,gt=0"`
	Image     string       `json:"image,omitempty"`
	Size      *string      `json:"size,omitempty" validate:"omitempty,oneof=XS S M L XL XXL XXXL"`
	Color     *types.Color `json:"color,omitempty"`
	Quantity  int          `json:"quantity" validate:"required,gte=1"`
}

// CreateRequest places an order. Totals are recorded as submitted.
type CreateRequest struct {
	Items           []ItemRequest         `json:"items" validate:"required,min=1,dive"`
	Subtotal        float64               `json:"subtotal" validate:"gte=0"`
	Shipping        float64               `json:"shipping" validate:"gte=0"`
	Tax             float64               `json:"tax" validate:"gte=0"`
	Total           float64               `json:"total" validate:"required,gt=0"`
	ShippingDetails types.ShippingDetails `json:"shippingDetails" validate:"required"`
	PaymentDetails  types.PaymentDetails  `json:"paymentDetails" validate:"required"`
	Backing         types.BackingPrefs    `json:"backing"`
}

// UpdateStatusRequest advances an order through fulfillment. Tracking
// number and notes are operator-settable alongside the status.
type UpdateStatusRequest struct {
	Status         string  `json:"status" validate:"required,oneof=pending processing shipped delivered cancelled"`
	TrackingNumber *string `json:"trackingNumber,omitempty" validate:"omitempty,max=64"`
	Notes          *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// ItemDTO is the public shape of one purchased line.
type ItemDTO struct {
	ID        string       `json:"id"`
	ProductID string       `json:"productId"`
	Name      string       `json:"name"`
	Price     float64      `json:"price"`
	Image     string       `json:"image,omitempty"`
	Size      *string      `json:"size,omitempty"`
	Color     *types.Color `json:"color,omitempty"`
	Quantity  int          `json:"quantity"`
}

// OrderDTO is the public order shape.
type OrderDTO struct {
	ID              string                `json:"id"`
	OrderNumber     string                `json:"orderNumber"`
	UserID          string                `json:"userId"`
	Status          string                `json:"status"`
	TrackingNumber  *string               `json:"trackingNumber,omitempty"`
	Notes           *string               `json:"notes,omitempty"`
	Subtotal        float64               `json:"subtotal"`
	Shipping        float64               `json:"shipping"`
	Tax             float64               `json:"tax"`
	Total           float64               `json:"total"`
	Items           []ItemDTO             `json:"items"`
	ShippingDetails types.ShippingDetails `json:"shippingDetails"`
	Backing         types.BackingPrefs    `json:"backing"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
}

// ListResponse pairs an order page with its paging metadata.
type ListResponse struct {
	Orders     []OrderDTO      `json:"orders"`
	Pagination pagination.Meta `json:"pagination"`
}

// StatsDTO summarizes the ledger for the admin dashboard.
type StatsDTO struct {
	TotalOrders  int64            `json:"totalOrders"`
	TotalRevenue float64          `json:"totalRevenue"`
	ByStatus     map[string]int64 `json:"ordersByStatus"`
	RecentOrders []RecentOrderDTO `json:"recentOrders"`
}

// RecentOrderDTO is one row of the dashboard's latest-orders list.
type RecentOrderDTO struct {
	OrderNumber string    `json:"orderNumber"`
	User        string    `json:"user"`
	Total       float64   `json:"total"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ToDTO converts an order record with its lines to the public shape.
func ToDTO(order *models.Order) OrderDTO {
	subtotal, _ := order.Subtotal.Float64()
	shipping, _ := order.Shipping.Float64()
	tax, _ := order.Tax.Float64()
	total, _ := order.Total.Float64()

	dto := OrderDTO{
		ID:              order.ID.String(),
		OrderNumber:     order.OrderNumber,
		UserID:          order.UserID.String(),
		Status:          order.Status.String(),
		TrackingNumber:  order.TrackingNumber,
		Notes:           order.Notes,
		Subtotal:        subtotal,
		Shipping:        shipping,
		Tax:             tax,
		Total:           total,
		Items:           make([]ItemDTO, 0, len(order.Items)),
		ShippingDetails: order.ShippingDetails,
		Backing:         order.Backing,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
	for i := range order.Items {
		item := &order.Items[i]
		price, _ := item.Price.Float64()
		entry := ItemDTO{
			ID:        item.ID.String(),
			ProductID: item.ProductID.String(),
			Name:      item.Name,
			Price:     price,
			Image:     item.Image,
			Size:      item.Size,
			Quantity:  item.Quantity,
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
	return dto
}
