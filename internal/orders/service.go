package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Kushal-prime/kushalwearback/pkg/db"
	"github.com/Kushal-prime/kushalwearback/pkg/db/models"
	"github.com/Kushal-prime/kushalwearback/pkg/enums"
	apperrors "github.com/Kushal-prime/kushalwearback/pkg/errors"
	"github.com/Kushal-prime/kushalwearback/pkg/pagination"
)

// OrderRepository is the persistence surface the ledger service needs.
type OrderRepository interface {
	Insert(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Order, int64, error)
	List(ctx context.Context, status enums.OrderStatus, userID *uuid.UUID, params pagination.Params) ([]models.Order, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, updates map[string]any) error
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
	NumberExists(ctx context.Context, number string) (bool, error)
	Stats(ctx context.Context) (*StatsDTO, error)
}

// CartClearer empties the cart after a successful checkout.
type CartClearer interface {
	Clear(ctx context.Context, userID uuid.UUID) error
}

// ServiceParams wires the ledger service dependencies.
type ServiceParams struct {
	Orders OrderRepository
	Carts  CartClearer
	Now    func() time.Time
	Sleep  func(time.Duration)
}

// Service implements order placement, listing and status transitions.
type Service struct {
	orders  OrderRepository
	carts   CartClearer
	numbers *NumberGenerator
}

// NewService validates params and builds the service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Orders == nil {
		return nil, fmt.Errorf("order service requires an order repository")
	}
	numbers, err := NewNumberGenerator(params.Orders, params.Now, params.Sleep)
	if err != nil {
		return nil, err
	}
	return &Service{
		orders:  params.Orders,
		carts:   params.Carts,
		numbers: numbers,
	}, nil
}

// Create places an order. The snapshot is immutable once written; only
// the status moves afterward. The account cart is cleared on success.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*OrderDTO, error) {
	if _, err := enums.ParsePaymentMethod(req.PaymentDetails.Method); err != nil {
		return nil, apperrors.New(apperrors.CodeValidation, "unknown payment method")
	}

	order := &models.Order{
		UserID:          userID,
		Status:          enums.OrderStatusPending,
		Subtotal:        decimal.NewFromFloat(req.Subtotal),
		Shipping:        decimal.NewFromFloat(req.Shipping),
		Tax:             decimal.NewFromFloat(req.Tax),
		Total:           decimal.NewFromFloat(req.Total),
		ShippingDetails: req.ShippingDetails,
		PaymentDetails:  req.PaymentDetails,
		Backing:         req.Backing,
		Items:           make([]models.OrderItem, 0, len(req.Items)),
	}
	for _, line := range req.Items {
		productID, err := uuid.Parse(line.ProductID)
		if err != nil {
			return nil, apperrors.New(apperrors.CodeValidation, "items contain an invalid productId")
		}
		item := models.OrderItem{
			ProductID: productID,
			Name:      line.Name,
			Price:     decimal.NewFromFloat(line.Price),
			Image:     line.Image,
			Size:      line.Size,
			Quantity:  line.Quantity,
		}
		if line.Color != nil && line.Color.Name != "" {
			item.ColorName = &line.Color.Name
			if line.Color.Hex != "" {
				item.ColorHex = &line.Color.Hex
			}
		}
		order.Items = append(order.Items, item)
	}

	// The generator pre-checks the number; the unique index catches the
	// rare race between two checkouts in the same instant.
	var insertErr error
	for attempt := 0; attempt < numberMaxAttempts; attempt++ {
		number, err := s.numbers.Generate(ctx)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeInternal, err, "generate order number")
		}
		order.OrderNumber = number

		insertErr = s.orders.Insert(ctx, order)
		if insertErr == nil {
			break
		}
		if !db.IsUniqueViolation(insertErr) {
			return nil, apperrors.Wrap(apperrors.CodeInternal, insertErr, "store order")
		}
	}
	if insertErr != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, insertErr, "store order")
	}

	if s.carts != nil {
		// Checkout already succeeded; a cart that fails to clear is
		// recoverable by the user.
		_ = s.carts.Clear(ctx, userID)
	}

	dto := ToDTO(order)
	return &dto, nil
}

// MyOrders returns one page of the user's own orders.
func (s *Service) MyOrders(ctx context.Context, userID uuid.UUID, page, limit int) (*ListResponse, error) {
	params := pagination.Normalize(page, limit, pagination.DefaultLimit, pagination.MaxLimit)
	rows, total, err := s.orders.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "list orders")
	}
	return listResponse(rows, params, total), nil
}

// List returns one page of all orders, optionally filtered by status
// and user. Admin only.
func (s *Service) List(ctx context.Context, status, userID string, page, limit int) (*ListResponse, error) {
	var parsed enums.OrderStatus
	if status != "" {
		var err error
		parsed, err = enums.ParseOrderStatus(status)
		if err != nil {
			return nil, apperrors.New(apperrors.CodeValidation, "unknown order status")
		}
	}
	var owner *uuid.UUID
	if userID != "" {
		id, err := uuid.Parse(userID)
		if err != nil {
			return nil, apperrors.New(apperrors.CodeValidation, "userId must be a valid id")
		}
		owner = &id
	}

	params := pagination.Normalize(page, limit, pagination.DefaultLimit, pagination.MaxLimit)
	rows, total, err := s.orders.List(ctx, parsed, owner, params)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "list orders")
	}
	return listResponse(rows, params, total), nil
}

// GetByID returns one order. Non-admin callers only see their own.
func (s *Service) GetByID(ctx context.Context, orderID, userID uuid.UUID, role enums.UserRole) (*OrderDTO, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "order not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "fetch order")
	}
	if role != enums.UserRoleAdmin && order.UserID != userID {
		return nil, apperrors.New(apperrors.CodeNotFound, "order not found")
	}
	dto := ToDTO(order)
	return &dto, nil
}

// UpdateStatus advances an order along the fulfillment graph. Backward
// moves and transitions out of terminal states are rejected.
func (s *Service) UpdateStatus(ctx context.Context, orderID uuid.UUID, req UpdateStatusRequest) (*OrderDTO, error) {
	next, err := enums.ParseOrderStatus(req.Status)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeValidation, "unknown order status")
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "order not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "fetch order")
	}

	if !order.Status.CanTransitionTo(next) {
		return nil, apperrors.New(apperrors.CodeStateConflict, "order status cannot move this way").
			WithDetails(map[string]string{
				"from": order.Status.String(),
				"to":   next.String(),
			})
	}

	updates := map[string]any{"status": next}
	if req.TrackingNumber != nil {
		updates["tracking_number"] = *req.TrackingNumber
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if err := s.orders.UpdateStatus(ctx, orderID, updates); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "update order status")
	}

	order.Status = next
	if req.TrackingNumber != nil {
		order.TrackingNumber = req.TrackingNumber
	}
	if req.Notes != nil {
		order.Notes = req.Notes
	}
	dto := ToDTO(order)
	return &dto, nil
}

// Stats summarizes the ledger. Admin only.
func (s *Service) Stats(ctx context.Context) (*StatsDTO, error) {
	stats, err := s.orders.Stats(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "aggregate order stats")
	}
	return stats, nil
}

func listResponse(rows []models.Order, params pagination.Params, total int64) *ListResponse {
	dtos := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, ToDTO(&rows[i]))
	}
	return &ListResponse{
		Orders:     dtos,
		Pagination: pagination.NewMeta(params, total),
	}
}
