package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartItem is one line in a cart, identified by the (product, size,
// color name) tuple. Price and name snapshot the product at add time.
// A partial unique index over (cart_id, product_id, coalesce(size,''),
// coalesce(color_name,'')) backs the identity in the schema.
type CartItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CartID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	Name      string          `gorm:"size:200;not null"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Image     string          `gorm:"size:512"`
	Size      *string         `gorm:"size:8"`
	ColorName *string         `gorm:"size:64"`
	ColorHex  *string         `gorm:"size:16"`
	Quantity  int             `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides gorm's pluralization.
func (CartItem) TableName() string {
	return "cart_items"
}

// BeforeCreate assigns the primary key.
func (i *CartItem) BeforeCreate(_ *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
