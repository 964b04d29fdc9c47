package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Kushal-prime/kushalwearback/pkg/enums"
)

// User is an account holder. PasswordHash stores the encoded argon2id
// digest and is never serialized.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Name         string         `gorm:"size:120;not null"`
	Email        string         `gorm:"size:255;not null;uniqueIndex"`
	PasswordHash string         `gorm:"size:512;not null"`
	Role         enums.UserRole `gorm:"size:16;not null;default:user"`
	Phone        string         `gorm:"size:32"`
	Address      string         `gorm:"size:512"`
	Avatar       string         `gorm:"size:512"`
	Active       bool           `gorm:"not null;default:true"`
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName overrides gorm's pluralization.
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns the primary key so inserts behave the same on
// every dialect.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
