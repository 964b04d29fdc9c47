package orders

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Kushal-prime/kushalwearback/pkg/db/models"
	"github.com/Kushal-prime/kushalwearback/pkg/enums"
	apperrors "github.com/Kushal-prime/kushalwearback/pkg/errors"
	"github.com/Kushal-prime/kushalwearback/pkg/pagination"
	"github.com/Kushal-prime/kushalwearback/pkg/types"
)

type stubOrderRepo struct {
	orders      map[uuid.UUID]*models.Order
	insertFails int
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: map[uuid.UUID]*models.Order{}}
}

func (r *stubOrderRepo) Insert(_ context.Context, order *models.Order) error {
	if r.insertFails > 0 {
		r.insertFails--
		return errors.New("duplicate key value violates unique constraint \"ux_orders_number\"")
	}
	for _, existing := range r.orders {
		if existing.OrderNumber == order.OrderNumber {
			return errors.New("duplicate key value violates unique constraint \"ux_orders_number\"")
		}
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	order.CreatedAt = time.Now().UTC()
	stored := *order
	r.orders[order.ID] = &stored
	return nil
}

func (r *stubOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *order
	return &copied, nil
}

func (r *stubOrderRepo) ListByUser(_ context.Context, userID uuid.UUID, _ pagination.Params) ([]models.Order, int64, error) {
	var rows []models.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			rows = append(rows, *order)
		}
	}
	return rows, int64(len(rows)), nil
}

func (r *stubOrderRepo) List(_ context.Context, status enums.OrderStatus, userID *uuid.UUID, _ pagination.Params) ([]models.Order, int64, error) {
	var rows []models.Order
	for _, order := range r.orders {
		if status != "" && order.Status != status {
			continue
		}
		if userID != nil && order.UserID != *userID {
			continue
		}
		rows = append(rows, *order)
	}
	return rows, int64(len(rows)), nil
}

func (r *stubOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, updates map[string]any) error {
	order, ok := r.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if status, ok := updates["status"].(enums.OrderStatus); ok {
		order.Status = status
	}
	if tracking, ok := updates["tracking_number"].(string); ok {
		order.TrackingNumber = &tracking
	}
	if notes, ok := updates["notes"].(string); ok {
		order.Notes = &notes
	}
	return nil
}

func (r *stubOrderRepo) CountCreatedBetween(_ context.Context, from, to time.Time) (int64, error) {
	var count int64
	for _, order := range r.orders {
		if !order.CreatedAt.Before(from) && order.CreatedAt.Before(to) {
			count++
		}
	}
	return count, nil
}

func (r *stubOrderRepo) NumberExists(_ context.Context, number string) (bool, error) {
	for _, order := range r.orders {
		if order.OrderNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubOrderRepo) Stats(_ context.Context) (*StatsDTO, error) {
	stats := &StatsDTO{ByStatus: map[string]int64{}}
	for _, order := range r.orders {
		stats.ByStatus[order.Status.String()]++
		stats.TotalOrders++
		if order.Status != enums.OrderStatusCancelled {
			total, _ := order.Total.Float64()
			stats.TotalRevenue += total
		}
	}
	return stats, nil
}

type recordingCartClearer struct {
	cleared []uuid.UUID
}

func (c *recordingCartClearer) Clear(_ context.Context, userID uuid.UUID) error {
	c.cleared = append(c.cleared, userID)
	return nil
}

func validCreateRequest() CreateRequest {
	return CreateRequest{
		Items: []ItemRequest{{
			ProductID: uuid.NewString(),
			Name:      "Denim Jacket",
			Price:     79.99,
			Quantity:  1,
		}},
		Subtotal: 79.99,
		Shipping: 5,
		Tax:      6.4,
		Total:    91.39,
		ShippingDetails: types.ShippingDetails{
			Name:    "Kushal",
			Email:   "kushal@example.com",
			Address: "12 Market Road",
			City:    "Kathmandu",
			ZipCode: "44600",
			Country: "NP",
		},
		PaymentDetails: types.PaymentDetails{Method: "card"},
	}
}

func newOrderService(t *testing.T, repo OrderRepository, carts CartClearer) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Orders: repo,
		Carts:  carts,
		Sleep:  func(time.Duration) {},
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestCreateAssignsNumberAndPendingStatus(t *testing.T) {
	repo := newStubOrderRepo()
	clearer := &recordingCartClearer{}
	svc := newOrderService(t, repo, clearer)
	userID := uuid.New()

	order, err := svc.Create(context.Background(), userID, validCreateRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if matched := regexp.MustCompile(`^KW\d{6}\d{4,}$`).MatchString(order.OrderNumber); !matched {
		t.Fatalf("unexpected order number %q", order.OrderNumber)
	}
	if order.Status != "pending" {
		t.Fatalf("expected pending, got %q", order.Status)
	}
	if order.Total != 91.39 {
		t.Fatalf("expected total recorded as submitted, got %v", order.Total)
	}
	if len(clearer.cleared) != 1 || clearer.cleared[0] != userID {
		t.Fatalf("expected cart cleared for %s", userID)
	}
}

func TestCreateRecordsBackingPrefs(t *testing.T) {
	repo := newStubOrderRepo()
	svc := newOrderService(t, repo, &recordingCartClearer{})

	req := validCreateRequest()
	req.Backing = types.BackingPrefs{Newsletter: true, Special: true}

	order, err := svc.Create(context.Background(), uuid.New(), req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !order.Backing.Newsletter || !order.Backing.Special {
		t.Fatalf("expected opt-ins preserved, got %+v", order.Backing)
	}
	if order.Backing.Reviews || order.Backing.Updates {
		t.Fatalf("expected unchecked opt-ins to stay false, got %+v", order.Backing)
	}
}

func TestCreateRetriesOnNumberCollision(t *testing.T) {
	repo := newStubOrderRepo()
	repo.insertFails = 2
	svc := newOrderService(t, repo, &recordingCartClearer{})

	order, err := svc.Create(context.Background(), uuid.New(), validCreateRequest())
	if err != nil {
		t.Fatalf("Create after collisions: %v", err)
	}
	if order.OrderNumber == "" {
		t.Fatalf("expected an order number")
	}
}

func TestCreateRejectsUnknownPaymentMethod(t *testing.T) {
	repo := newStubOrderRepo()
	svc := newOrderService(t, repo, &recordingCartClearer{})

	req := validCreateRequest()
	req.PaymentDetails.Method = "crypto"

	_, err := svc.Create(context.Background(), uuid.New(), req)
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestSequentialOrdersGetDistinctNumbers(t *testing.T) {
	repo := newStubOrderRepo()
	svc := newOrderService(t, repo, &recordingCartClearer{})
	ctx := context.Background()

	first, err := svc.Create(ctx, uuid.New(), validCreateRequest())
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	second, err := svc.Create(ctx, uuid.New(), validCreateRequest())
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if first.OrderNumber == second.OrderNumber {
		t.Fatalf("expected distinct numbers, both %q", first.OrderNumber)
	}
}

func TestUpdateStatusFollowsFulfillmentGraph(t *testing.T) {
	repo := newStubOrderRepo()
	svc := newOrderService(t, repo, &recordingCartClearer{})
	ctx := context.Background()

	created, err := svc.Create(ctx, uuid.New(), validCreateRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	orderID := uuid.MustParse(created.ID)

	for _, status := range []string{"processing", "shipped", "delivered"} {
		updated, err := svc.UpdateStatus(ctx, orderID, UpdateStatusRequest{Status: status})
		if err != nil {
			t.Fatalf("transition to %s: %v", status, err)
		}
		if updated.Status != status {
			t.Fatalf("expected %s, got %s", status, updated.Status)
		}
	}
}

func TestUpdateStatusRejectsBackwardAndTerminalMoves(t *testing.T) {
	repo := newStubOrderRepo()
	svc := newOrderService(t, repo, &recordingCartClearer{})
	ctx := context.Background()

	created, err := svc.Create(ctx, uuid.New(), validCreateRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	orderID := uuid.MustParse(created.ID)

	// pending -> delivered skips the graph.
	_, err = svc.UpdateStatus(ctx, orderID, UpdateStatusRequest{Status: "delivered"})
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeStateConflict {
		t.Fatalf("expected STATE_CONFLICT, got %v", err)
	}

	if _, err := svc.UpdateStatus(ctx, orderID, UpdateStatusRequest{Status: "cancelled"}); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	// Terminal state refuses further moves.
	_, err = svc.UpdateStatus(ctx, orderID, UpdateStatusRequest{Status: "processing"})
	typed = apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeStateConflict {
		t.Fatalf("expected STATE_CONFLICT from terminal state, got %v", err)
	}
}

func TestUpdateStatusSetsTrackingAndNotes(t *testing.T) {
	repo := newStubOrderRepo()
	svc := newOrderService(t, repo, &recordingCartClearer{})
	ctx := context.Background()

	created, err := svc.Create(ctx, uuid.New(), validCreateRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	orderID := uuid.MustParse(created.ID)

	tracking := "NP123456789"
	notes := "left at front desk"
	updated, err := svc.UpdateStatus(ctx, orderID, UpdateStatusRequest{
		Status:         "processing",
		TrackingNumber: &tracking,
		Notes:          &notes,
	})
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.TrackingNumber == nil || *updated.TrackingNumber != tracking {
		t.Fatalf("expected tracking number stored, got %v", updated.TrackingNumber)
	}
	if updated.Notes == nil || *updated.Notes != notes {
		t.Fatalf("expected notes stored, got %v", updated.Notes)
	}
}

func TestStatsCountCancelledButExcludeTheirRevenue(t *testing.T) {
	repo := newStubOrderRepo()
	svc := newOrderService(t, repo, &recordingCartClearer{})
	ctx := context.Background()

	kept, err := svc.Create(ctx, uuid.New(), validCreateRequest())
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	doomed, err := svc.Create(ctx, uuid.New(), validCreateRequest())
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, uuid.MustParse(doomed.ID), UpdateStatusRequest{Status: "cancelled"}); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalOrders != 2 {
		t.Fatalf("expected both orders counted, got %d", stats.TotalOrders)
	}
	if stats.TotalRevenue != kept.Total {
		t.Fatalf("expected revenue %v from the live order only, got %v", kept.Total, stats.TotalRevenue)
	}
	if stats.ByStatus["cancelled"] != 1 || stats.ByStatus["pending"] != 1 {
		t.Fatalf("unexpected status breakdown %v", stats.ByStatus)
	}
}

func TestGetByIDHidesOtherUsersOrders(t *testing.T) {
	repo := newStubOrderRepo()
	svc := newOrderService(t, repo, &recordingCartClearer{})
	ctx := context.Background()

	owner := uuid.New()
	created, err := svc.Create(ctx, owner, validCreateRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	orderID := uuid.MustParse(created.ID)

	if _, err := svc.GetByID(ctx, orderID, owner, enums.UserRoleUser); err != nil {
		t.Fatalf("owner fetch: %v", err)
	}

	_, err = svc.GetByID(ctx, orderID, uuid.New(), enums.UserRoleUser)
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND for stranger, got %v", err)
	}

	if _, err := svc.GetByID(ctx, orderID, uuid.New(), enums.UserRoleAdmin); err != nil {
		t.Fatalf("admin fetch: %v", err)
	}
}
