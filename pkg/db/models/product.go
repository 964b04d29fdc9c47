package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Kushal-prime/kushalwearback/pkg/enums"
	"github.com/Kushal-prime/kushalwearback/pkg/types"
)

// Product is a catalog entry. Price is stored as numeric(12,2); images,
// sizes and tags are text arrays; colors is a jsonb list of swatches.
type Product struct {
	ID                 uuid.UUID             `gorm:"type:uuid;primaryKey"`
	Name               string                `gorm:"size:200;not null"`
	Description        string                `gorm:"type:text"`
	Price              decimal.Decimal       `gorm:"type:numeric(12,2);not null"`
	OriginalPrice      decimal.NullDecimal   `gorm:"type:numeric(12,2)"`
	DiscountPercent    int                   `gorm:"not null;default:0"`
	DiscountValidUntil *time.Time
	Category           enums.ProductCategory `gorm:"size:32;not null;index"`
	Subcategory        string                `gorm:"size:64"`
	Brand              string                `gorm:"size:100"`
	Material           string                `gorm:"size:200"`
	Care               string                `gorm:"size:500"`
	SKU                string                `gorm:"size:64;not null;uniqueIndex"`
	Images             pq.StringArray        `gorm:"type:text[]"`
	MainImage          string                `gorm:"size:512"`
	Sizes              pq.StringArray        `gorm:"type:text[]"`
	Colors             types.ColorList       `gorm:"type:jsonb"`
	Tags               pq.StringArray        `gorm:"type:text[]"`
	Stock              int                   `gorm:"not null;default:0"`
	RatingAverage      float64               `gorm:"not null;default:0"`
	RatingCount        int                   `gorm:"not null;default:0"`
	Featured           bool                  `gorm:"not null;default:false;index"`
	Active             bool                  `gorm:"not null;default:true;index"`
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Reviews []ProductReview `gorm:"foreignKey:ProductID"`
}

// TableName overrides gorm's pluralization.
func (Product) TableName() string {
	return "products"
}

// BeforeCreate assigns the primary key.
func (p *Product) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// InStock reports whether the product can satisfy at least one unit.
func (p *Product) InStock() bool {
	return p.Stock > 0
}
