package products

import (
	"time"

	"github.com/Kushal-prime/kushalwearback/pkg/db/models"
	"github.com/Kushal-prime/kushalwearback/pkg/pagination"
	"github.com/Kushal-prime/kushalwearback/pkg/types"
)

// ProductDTO is the public catalog shape.
type ProductDTO struct {
	ID                 string        `json:"id"`
	Name               string        `json:"name"`
	Description        string        `json:"description,omitempty"`
	Price              float64       `json:"price"`
	OriginalPrice      *float64      `json:"originalPrice,omitempty"`
	DiscountPercent    int           `json:"discountPercent"`
	DiscountValidUntil *time.Time    `json:"discountValidUntil,omitempty"`
	Category           string        `json:"category"`
	Subcategory        string        `json:"subcategory,omitempty"`
	Brand              string        `json:"brand,omitempty"`
	Material           string        `json:"material,omitempty"`
	Care               string        `json:"care,omitempty"`
	SKU                string        `json:"sku"`
	Images             []string      `json:"images"`
	MainImage          string        `json:"mainImage,omitempty"`
	Sizes              []string      `json:"sizes"`
	Colors             []types.Color `json:"colors"`
	Tags               []string      `json:"tags,omitempty"`
	Stock              int           `json:"stock"`
	InStock            bool          `json:"inStock"`
	RatingAverage      float64       `json:"ratingAverage"`
	RatingCount        int           `json:"ratingCount"`
	Featured           bool          `json:"featured"`
	CreatedAt          time.Time     `json:"createdAt"`
}

// ReviewDTO is the public shape of one review.
type ReviewDTO struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListResponse pairs a product page with its paging metadata.
type ListResponse struct {
	Products   []ProductDTO    `json:"products"`
	Pagination pagination.Meta `json:"pagination"`
}

// ListFilters narrows and orders the catalog listing.
type ListFilters struct {
	Category string
	Search   string
	MinPrice *float64
	MaxPrice *float64
	Featured *bool
	Sort     string
	Page     int
	Limit    int
}

// CreateProductRequest adds a catalog entry. Admin only.
type CreateProductRequest struct {
	Name               string        `json:"name" validate:"required,min=2,max=200"`
	Description        string        `json:"description,omitempty"`
	Price              float64       `json:"price" validate:"required,gt=0"`
	OriginalPrice      *float64      `json:"originalPrice,omitempty" validate:"omitempty,gt=0"`
	DiscountPercent    int           `json:"discountPercent,omitempty" validate:"omitempty,gte=0,lte=100"`
	DiscountValidUntil *time.Time    `json:"discountValidUntil,omitempty"`
	Category           string        `json:"category" validate:"required,oneof=men women unisex accessories"`
	Subcategory        string        `json:"subcategory,omitempty" validate:"omitempty,max=64"`
	Brand              string        `json:"brand,omitempty" validate:"omitempty,max=100"`
	Material           string        `json:"material,omitempty" validate:"omitempty,max=200"`
	Care               string        `json:"care,omitempty" validate:"omitempty,max=500"`
	Images             []string      `json:"images,omitempty"`
	MainImage          string        `json:"mainImage,omitempty" validate:"omitempty,max=512"`
	Sizes              []string      `json:"sizes,omitempty" validate:"dive,oneof=XS S M L XL XXL XXXL"`
	Colors             []types.Color `json:"colors,omitempty"`
	Tags               []string      `json:"tags,omitempty"`
	Stock              int           `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Featured           bool          `json:"featured,omitempty"`
}

// UpdateProductRequest changes catalog fields. Nil fields stay untouched.
type UpdateProductRequest struct {
	Name               *string        `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	Description        *string        `json:"description,omitempty"`
	Price              *float64       `json:"price,omitempty" validate:"omitempty,gt=0"`
	OriginalPrice      *float64       `json:"originalPrice,omitempty" validate:"omitempty,gt=0"`
	DiscountPercent    *int           `json:"discountPercent,omitempty" validate:"omitempty,gte=0,lte=100"`
	DiscountValidUntil *time.Time     `json:"discountValidUntil,omitempty"`
	Subcategory        *string        `json:"subcategory,omitempty" validate:"omitempty,max=64"`
	Brand              *string        `json:"brand,omitempty" validate:"omitempty,max=100"`
	Material           *string        `json:"material,omitempty" validate:"omitempty,max=200"`
	Care               *string        `json:"care,omitempty" validate:"omitempty,max=500"`
	Images             *[]string      `json:"images,omitempty"`
	MainImage          *string        `json:"mainImage,omitempty" validate:"omitempty,max=512"`
	Sizes              *[]string      `json:"sizes,omitempty" validate:"omitempty,dive,oneof=XS S M L XL XXL XXXL"`
	Colors             *[]types.Color `json:"colors,omitempty"`
	Tags               *[]string      `json:"tags,omitempty"`
	Stock              *int           `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Featured           *bool          `json:"featured,omitempty"`
	Active             *bool          `json:"active,omitempty"`
}

// ReviewRequest rates a product. One review per user per product.
type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment,omitempty" validate:"omitempty,max=500"`
}

// ToDTO converts a product record to its public shape.
func ToDTO(p *models.Product) ProductDTO {
	price, _ := p.Price.Float64()
	dto := ProductDTO{
		ID:                 p.ID.String(),
		Name:               p.Name,
		Description:        p.Description,
		Price:              price,
		DiscountPercent:    p.DiscountPercent,
		DiscountValidUntil: p.DiscountValidUntil,
		Category:           p.Category.String(),
		Subcategory:        p.Subcategory,
		Brand:              p.Brand,
		Material:           p.Material,
		Care:               p.Care,
		SKU:                p.SKU,
		Images:             p.Images,
		MainImage:          p.MainImage,
		Sizes:              p.Sizes,
		Colors:             p.Colors,
		Tags:               p.Tags,
		Stock:              p.Stock,
		InStock:            p.InStock(),
		RatingAverage:      p.RatingAverage,
		RatingCount:        p.RatingCount,
		Featured:           p.Featured,
		CreatedAt:          p.CreatedAt,
	}
	if p.OriginalPrice.Valid {
		original, _ := p.OriginalPrice.Decimal.Float64()
		dto.OriginalPrice = &original
	}
	if dto.Images == nil {
		dto.Images = []string{}
	}
	if dto.Sizes == nil {
		dto.Sizes = []string{}
	}
	if dto.Colors == nil {
		dto.Colors = []types.Color{}
	}
	return dto
}

// ReviewToDTO converts a review record to its public shape.
func ReviewToDTO(r *models.ProductReview) ReviewDTO {
	return ReviewDTO{
		ID:        r.ID.String(),
		UserID:    r.UserID.String(),
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}
