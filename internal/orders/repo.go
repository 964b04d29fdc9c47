package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Kushal-prime/kushalwearback/pkg/db"
	"github.com/Kushal-prime/kushalwearback/pkg/db/models"
	"github.com/Kushal-prime/kushalwearback/pkg/enums"
	"github.com/Kushal-prime/kushalwearback/pkg/pagination"
)

const recentOrdersLimit = 5

// Repository persists the order ledger.
type Repository struct {
	client *db.Client
}

// NewRepository binds the repository to a database handle.
func NewRepository(client *db.Client) *Repository {
	return &Repository{client: client}
}

// Insert writes the order and its lines in one transaction. The unique
// index on order_number is the final arbiter of number collisions.
func (r *Repository) Insert(ctx context.Context, order *models.Order) error {
	return r.client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
}

// GetByID fetches one order with its lines.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.client.Gorm().WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByUser returns one page of a user's orders, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Order, int64, error) {
	query := r.client.Gorm().WithContext(ctx).
		Model(&models.Order{}).
		Where("user_id = ?", userID)
	return r.page(query, params)
}

// List returns one page of all orders, optionally filtered by status
// and by owning user.
func (r *Repository) List(ctx context.Context, status enums.OrderStatus, userID *uuid.UUID, params pagination.Params) ([]models.Order, int64, error) {
	query := r.client.Gorm().WithContext(ctx).Model(&models.Order{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	return r.page(query, params)
}

func (r *Repository) page(query *gorm.DB, params pagination.Params) ([]models.Order, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Order
	err := query.
		Preload("Items").
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// UpdateStatus applies the status plus any operator-settable columns
// (tracking_number, notes).
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	result := r.client.Gorm().WithContext(ctx).
		Model(&models.Order{}).
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

// CountCreatedBetween counts orders created inside the window.
func (r *Repository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.client.Gorm().WithContext(ctx).
		Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&count).Error
	return count, err
}

// NumberExists reports whether an order number is already allocated.
func (r *Repository) NumberExists(ctx context.Context, number string) (bool, error) {
	var count int64
	err := r.client.Gorm().WithContext(ctx).
		Model(&models.Order{}).
		Where("order_number = ?", number).
		Count(&count).Error
	return count > 0, err
}

// Stats aggregates ledger totals for the admin dashboard.
func (r *Repository) Stats(ctx context.Context) (*StatsDTO, error) {
	gdb := r.client.Gorm().WithContext(ctx)

	// Cancelled orders stay in the count but contribute no revenue.
	var totalOrders int64
	if err := gdb.Model(&models.Order{}).Count(&totalOrders).Error; err != nil {
		return nil, err
	}

	var revenue struct {
		Revenue float64
	}
	err := gdb.Model(&models.Order{}).
		Select("COALESCE(SUM(total), 0) AS revenue").
		Where("status <> ?", enums.OrderStatusCancelled).
		Scan(&revenue).Error
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Status string
		Count  int64
	}
	err = gdb.Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	byStatus := make(map[string]int64, len(rows))
	for _, row := range rows {
		byStatus[row.Status] = row.Count
	}

	var recents []struct {
		OrderNumber string
		UserName    string
		Total       float64
		Status      string
		CreatedAt   time.Time
	}
	err = gdb.Model(&models.Order{}).
		Select("orders.order_number, users.name AS user_name, orders.total, orders.status, orders.created_at").
		Joins("LEFT JOIN users ON users.id = orders.user_id").
		Order("orders.created_at DESC").
		Limit(recentOrdersLimit).
		Scan(&recents).Error
	if err != nil {
		return nil, err
	}

	recentDTOs := make([]RecentOrderDTO, 0, len(recents))
	for _, row := range recents {
		recentDTOs = append(recentDTOs, RecentOrderDTO{
			OrderNumber: row.OrderNumber,
			User:        row.UserName,
			Total:       row.Total,
			Status:      row.Status,
			CreatedAt:   row.CreatedAt,
		})
	}

	return &StatsDTO{
		TotalOrders:  totalOrders,
		TotalRevenue: revenue.Revenue,
		ByStatus:     byStatus,
		RecentOrders: recentDTOs,
	}, nil
}
