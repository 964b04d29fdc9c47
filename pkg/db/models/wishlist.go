package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Wishlist is the single wishlist owned by a user.
type Wishlist struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Items []WishlistItem `gorm:"foreignKey:WishlistID"`
}

// TableName overrides gorm's pluralization.
func (Wishlist) TableName() string {
	return "wishlists"
}

// BeforeCreate assigns the primary key.
func (w *Wishlist) BeforeCreate(_ *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
