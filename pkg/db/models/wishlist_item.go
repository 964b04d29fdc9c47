package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WishlistItem is one saved product. A wishlist holds at most one row per
// product; size and color are optional preferences for a later cart add.
type WishlistItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	WishlistID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:ux_wishlist_product"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:ux_wishlist_product"`
	Name       string          `gorm:"size:200;not null"`
	Price      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Image      string          `gorm:"size:512"`
	Size       *string         `gorm:"size:8"`
	ColorName  *string         `gorm:"size:64"`
	ColorHex   *string         `gorm:"size:16"`
	AddedAt    time.Time       `gorm:"not null"`
}

// TableName overrides gorm's pluralization.
func (WishlistItem) TableName() string {
	return "wishlist_items"
}

// BeforeCreate assigns the primary key and stamps AddedAt.
func (i *WishlistItem) BeforeCreate(_ *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if i.AddedAt.IsZero() {
		i.AddedAt = time.Now().UTC()
	}
	return nil
}
