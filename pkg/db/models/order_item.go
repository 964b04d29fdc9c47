package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderItem is a frozen line item copied from the cart at checkout.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	Name      string          `gorm:"size:200;not null"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Image     string          `gorm:"size:512"`
	Size      *string         `gorm:"size:8"`
	ColorName *string         `gorm:"size:64"`
	ColorHex  *string         `gorm:"size:16"`
	Quantity  int             `gorm:"not null"`
}

// TableName overrides gorm's pluralization.
func (OrderItem) TableName() string {
	return "order_items"
}

// BeforeCreate assigns the primary key.
func (i *OrderItem) BeforeCreate(_ *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
