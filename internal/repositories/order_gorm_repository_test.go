package repositories_test

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"pasar/internal/models"
	"pasar/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB opens a fresh in-memory SQLite database for one test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.TrackingEvent{},
		&models.Payment{},
	))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, stock int) *models.Product {
	t.Helper()
	repo := repositories.NewGORMProductRepository(db)
	product := &models.Product{Name: "Denim Jacket", Price: 49.99, Stock: stock}
	require.NoError(t, repo.Create(product))
	return product
}

func seedOrder(t *testing.T, db *gorm.DB, productID string, qty int) *models.Order {
	t.Helper()
	repo := repositories.NewGORMOrderRepository(db)
	order := &models.Order{
		BuyerEmail:    "buyer@example.com",
		ProductID:     productID,
		Quantity:      qty,
		TotalPrice:    49.99 * float64(qty),
		PaymentMethod: models.PaymentMethodPayFast,
		Status:        models.PaymentStatusPending,
		OrderStatus:   models.OrderStatusPending,
	}
	require.NoError(t, repo.Create(order))
	return order
}

func TestOrderRepository_ApproveDecrementsStock(t *testing.T) {
	db := newTestDB(t)
	orderRepo := repositories.NewGORMOrderRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)

	product := seedProduct(t, db, 10)
	order := seedOrder(t, db, product.ID, 3)

	approved, err := orderRepo.Approve(order.ID, time.Now())
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusApproved, approved.OrderStatus)
	assert.NotNil(t, approved.DecidedAt)

	updated, err := productRepo.GetByID(product.ID)
	assert.NoError(t, err)
	assert.Equal(t, 7, updated.Stock)
}

func TestOrderRepository_ApproveRejectsOverselling(t *testing.T) {
	db := newTestDB(t)
	orderRepo := repositories.NewGORMOrderRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)

	// First approval consumes part of the stock, second would oversell.
	product := seedProduct(t, db, 10)
	first := seedOrder(t, db, product.ID, 3)
	second := seedOrder(t, db, product.ID, 20)

	_, err := orderRepo.Approve(first.ID, time.Now())
	require.NoError(t, err)

	_, err = orderRepo.Approve(second.ID, time.Now())
	assert.ErrorIs(t, err, repositories.ErrInsufficientStock)

	// Nothing moved: stock stays at 7 and the order is still Pending.
	updatedProduct, err := productRepo.GetByID(product.ID)
	assert.NoError(t, err)
	assert.Equal(t, 7, updatedProduct.Stock)

	updatedOrder, err := orderRepo.GetByID(second.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, updatedOrder.OrderStatus)
	assert.Nil(t, updatedOrder.DecidedAt)
}

func TestOrderRepository_ApproveAlreadyDecided(t *testing.T) {
	db := newTestDB(t)
	orderRepo := repositories.NewGORMOrderRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)

	product := seedProduct(t, db, 10)
	order := seedOrder(t, db, product.ID, 3)

	_, err := orderRepo.Approve(order.ID, time.Now())
	require.NoError(t, err)

	// A second approval must not decrement again.
	_, err = orderRepo.Approve(order.ID, time.Now())
	assert.ErrorIs(t, err, repositories.ErrOrderNotPending)

	updated, err := productRepo.GetByID(product.ID)
	assert.NoError(t, err)
	assert.Equal(t, 7, updated.Stock)
}

func TestOrderRepository_ApproveNotFoundErrors(t *testing.T) {
	db := newTestDB(t)
	orderRepo := repositories.NewGORMOrderRepository(db)

	_, err := orderRepo.Approve("missing-order", time.Now())
	assert.ErrorIs(t, err, repositories.ErrOrderNotFound)

	order := seedOrder(t, db, "missing-product", 1)
	_, err = orderRepo.Approve(order.ID, time.Now())
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
}

func TestOrderRepository_RejectStampsDecisionTime(t *testing.T) {
	db := newTestDB(t)
	orderRepo := repositories.NewGORMOrderRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)

	product := seedProduct(t, db, 10)
	order := seedOrder(t, db, product.ID, 3)

	rejected, err := orderRepo.Reject(order.ID, time.Now())
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusRejected, rejected.OrderStatus)
	assert.NotNil(t, rejected.DecidedAt)

	// Rejection never touches stock.
	updated, err := productRepo.GetByID(product.ID)
	assert.NoError(t, err)
	assert.Equal(t, 10, updated.Stock)

	// Re-rejection is not guarded; it silently re-applies.
	again, err := orderRepo.Reject(order.ID, time.Now())
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusRejected, again.OrderStatus)

	_, err = orderRepo.Reject("missing-order", time.Now())
	assert.ErrorIs(t, err, repositories.ErrOrderNotFound)
}

func TestOrderRepository_TrackingTimelineIsAppendOrdered(t *testing.T) {
	db := newTestDB(t)
	orderRepo := repositories.NewGORMOrderRepository(db)

	product := seedProduct(t, db, 10)
	order := seedOrder(t, db, product.ID, 1)

	for i := 1; i <= 5; i++ {
		payload := datatypes.JSON(fmt.Sprintf(`{"location":"stop-%d"}`, i))
		_, err := orderRepo.AppendTrackingEvent(order.ID, &models.TrackingEvent{Payload: payload, CreatedAt: time.Now()})
		require.NoError(t, err)
	}

	events, err := orderRepo.GetTrackingEvents(order.ID)
	assert.NoError(t, err)
	assert.Len(t, events, 5)
	for i, event := range events {
		var decoded map[string]string
		require.NoError(t, json.Unmarshal(event.Payload, &decoded))
		assert.Equal(t, fmt.Sprintf("stop-%d", i+1), decoded["location"])
	}

	// Unknown orders yield an empty timeline, not an error.
	events, err = orderRepo.GetTrackingEvents("missing-order")
	assert.NoError(t, err)
	assert.Empty(t, events)

	// Appending to an unknown order fails.
	_, err = orderRepo.AppendTrackingEvent("missing-order", &models.TrackingEvent{Payload: datatypes.JSON(`{}`)})
	assert.ErrorIs(t, err, repositories.ErrOrderNotFound)
}

func TestOrderRepository_GetByBuyerNewestFirst(t *testing.T) {
	db := newTestDB(t)
	orderRepo := repositories.NewGORMOrderRepository(db)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		order := &models.Order{
			BuyerEmail:  "buyer@example.com",
			ProductID:   "prod-1",
			Quantity:    1,
			OrderStatus: models.OrderStatusPending,
			Status:      models.PaymentStatusConfirmed,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, orderRepo.Create(order))
	}
	other := &models.Order{
		BuyerEmail:  "other@example.com",
		ProductID:   "prod-1",
		Quantity:    1,
		OrderStatus: models.OrderStatusPending,
		Status:      models.PaymentStatusConfirmed,
		CreatedAt:   base,
	}
	require.NoError(t, orderRepo.Create(other))

	orders, err := orderRepo.GetByBuyer("buyer@example.com")
	assert.NoError(t, err)
	require.Len(t, orders, 3)
	for i := 1; i < len(orders); i++ {
		assert.True(t, !orders[i-1].CreatedAt.Before(orders[i].CreatedAt),
			"orders must be sorted newest first")
	}
}

func TestOrderRepository_GetByStatus(t *testing.T) {
	db := newTestDB(t)
	orderRepo := repositories.NewGORMOrderRepository(db)

	product := seedProduct(t, db, 10)
	pending := seedOrder(t, db, product.ID, 1)
	approvedSeed := seedOrder(t, db, product.ID, 1)
	_, err := orderRepo.Approve(approvedSeed.ID, time.Now())
	require.NoError(t, err)

	pendingOrders, err := orderRepo.GetByStatus(models.OrderStatusPending)
	assert.NoError(t, err)
	require.Len(t, pendingOrders, 1)
	assert.Equal(t, pending.ID, pendingOrders[0].ID)

	approvedOrders, err := orderRepo.GetByStatus(models.OrderStatusApproved)
	assert.NoError(t, err)
	require.Len(t, approvedOrders, 1)
	assert.Equal(t, approvedSeed.ID, approvedOrders[0].ID)
}

func TestOrderRepository_MarkPaidAndDelete(t *testing.T) {
	db := newTestDB(t)
	orderRepo := repositories.NewGORMOrderRepository(db)

	product := seedProduct(t, db, 10)
	order := seedOrder(t, db, product.ID, 1)

	paid, err := orderRepo.MarkPaid(order.ID, "ORD-20260901-AB12", time.Now())
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, paid.Status)
	assert.Equal(t, "ORD-20260901-AB12", paid.TrackingID)
	assert.NotNil(t, paid.PaidAt)

	_, err = orderRepo.MarkPaid("missing-order", "ORD-20260901-AB12", time.Now())
	assert.ErrorIs(t, err, repositories.ErrOrderNotFound)

	assert.NoError(t, orderRepo.Delete(order.ID))
	_, err = orderRepo.GetByID(order.ID)
	assert.ErrorIs(t, err, repositories.ErrOrderNotFound)
	assert.ErrorIs(t, orderRepo.Delete(order.ID), repositories.ErrOrderNotFound)
}

func TestPaymentRepository_TransactionIDIsUnique(t *testing.T) {
	db := newTestDB(t)
	paymentRepo := repositories.NewGORMPaymentRepository(db)

	payment := &models.Payment{
		OrderID:       "order-1",
		TransactionID: "pi_123",
		Amount:        4999,
		Currency:      "usd",
		Status:        models.PaymentStatusPaid,
		PaidAt:        time.Now(),
	}
	require.NoError(t, paymentRepo.Create(payment))

	// Same transaction ID again must fail on the unique index.
	dup := &models.Payment{
		OrderID:       "order-1",
		TransactionID: "pi_123",
		Amount:        4999,
		Currency:      "usd",
		Status:        models.PaymentStatusPaid,
		PaidAt:        time.Now(),
	}
	assert.Error(t, paymentRepo.Create(dup))

	found, err := paymentRepo.GetByTransactionID("pi_123")
	assert.NoError(t, err)
	assert.Equal(t, payment.ID, found.ID)

	_, err = paymentRepo.GetByTransactionID("pi_missing")
	assert.ErrorIs(t, err, repositories.ErrPaymentNotFound)
}
