package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Kushal-prime/kushalwearback/pkg/db"
	"github.com/Kushal-prime/kushalwearback/pkg/db/models"
	"github.com/Kushal-prime/kushalwearback/pkg/pagination"
)

// Repository persists catalog entries and reviews.
type Repository struct {
	gdb *gorm.DB
}

// NewRepository binds the repository to a database handle.
func NewRepository(client *db.Client) *Repository {
	return &Repository{gdb: client.Gorm()}
}

var sortClauses = map[string]string{
	"price_asc":  "price ASC",
	"price_desc": "price DESC",
	"name_asc":   "name ASC",
	"name_desc":  "name DESC",
	"rating":     "rating_average DESC",
	"newest":     "created_at DESC",
}

// List returns one page of active products matching the filters plus the
// total match count.
func (r *Repository) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Product, int64, error) {
	query := r.gdb.WithContext(ctx).Model(&models.Product{}).Where("active = ?", true)

	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query = query.Where(
			"name ILIKE ? OR description ILIKE ? OR array_to_string(tags, ' ') ILIKE ?",
			pattern, pattern, pattern,
		)
	}
	if filters.MinPrice != nil {
		query = query.Where("price >= ?", *filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		query = query.Where("price <= ?", *filters.MaxPrice)
	}
	if filters.Featured != nil {
		query = query.Where("featured = ?", *filters.Featured)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order, ok := sortClauses[filters.Sort]
	if !ok {
		order = sortClauses["newest"]
	}

	var rows []models.Product
	err := query.
		Order(order).
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Featured returns up to limit featured active products, newest first.
func (r *Repository) Featured(ctx context.Context, limit int) ([]models.Product, error) {
	var rows []models.Product
	err := r.gdb.WithContext(ctx).
		Where("active = ? AND featured = ?", true, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// GetByID fetches one active product.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.gdb.WithContext(ctx).
		Where("active = ?", true).
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Create inserts a catalog entry.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.gdb.WithContext(ctx).Create(product).Error
}

// Update applies column updates to a product.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	result := r.gdb.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Deactivate soft-deletes a product by clearing its active flag.
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.Update(ctx, id, map[string]any{"active": false})
}

// AddReview inserts a review and recomputes the product's rating fields
// in the same transaction.
func (r *Repository) AddReview(ctx context.Context, review *models.ProductReview) error {
	return r.gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return err
		}

		var agg struct {
			Avg   float64
			Count int
		}
		err := tx.Model(&models.ProductReview{}).
			Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
			Where("product_id = ?", review.ProductID).
			Scan(&agg).Error
		if err != nil {
			return err
		}

		return tx.Model(&models.Product{}).
			Where("id = ?", review.ProductID).
			Updates(map[string]any{
				"rating_average": agg.Avg,
				"rating_count":   agg.Count,
			}).Error
	})
}

// Reviews returns all reviews for a product, newest first.
func (r *Repository) Reviews(ctx context.Context, productID uuid.UUID) ([]models.ProductReview, error) {
	var rows []models.ProductReview
	err := r.gdb.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}
