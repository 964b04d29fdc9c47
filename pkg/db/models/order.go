package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Kushal-prime/kushalwearback/pkg/enums"
	"github.com/Kushal-prime/kushalwearback/pkg/types"
)

// Order is an immutable purchase record. Everything except the status,
// tracking number and notes is a snapshot taken at creation; the order
// number is unique across the table.
type Order struct {
	ID              uuid.UUID             `gorm:"type:uuid;primaryKey"`
	OrderNumber     string                `gorm:"size:32;not null;uniqueIndex"`
	UserID          uuid.UUID             `gorm:"type:uuid;not null;index"`
	Status          enums.OrderStatus     `gorm:"size:16;not null;default:pending"`
	TrackingNumber  *string               `gorm:"size:64"`
	Notes           *string               `gorm:"size:1000"`
	Subtotal        decimal.Decimal       `gorm:"type:numeric(12,2);not null"`
	Shipping        decimal.Decimal       `gorm:"type:numeric(12,2);not null"`
	Tax             decimal.Decimal       `gorm:"type:numeric(12,2);not null"`
	Total           decimal.Decimal       `gorm:"type:numeric(12,2);not null"`
	ShippingDetails types.ShippingDetails `gorm:"type:jsonb"`
	PaymentDetails  types.PaymentDetails  `gorm:"type:jsonb"`
	Backing         types.BackingPrefs    `gorm:"type:jsonb"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Items []OrderItem `gorm:"foreignKey:OrderID"`
}

// TableName overrides gorm's pluralization.
func (Order) TableName() string {
	return "orders"
}

// BeforeCreate assigns the primary key.
func (o *Order) BeforeCreate(_ *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
