package repositories

import (
	"errors"
	"fmt"
	"time"

	"pasar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Create inserts a new order.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetByID retrieves a single order with its tracking timeline.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("TrackingEvents", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", id, ErrOrderNotFound)
		}
		return nil, fmt.Errorf("failed to get order %s: %w", id, err)
	}
	return &order, nil
}

// GetByBuyer retrieves all orders for a buyer email, most recent first.
func (r *GORMOrderRepository) GetByBuyer(email string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Where("buyer_email = ?", email).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get orders for buyer %s: %w", email, err)
	}
	return orders, nil
}

// GetByStatus retrieves all orders with the given lifecycle status.
func (r *GORMOrderRepository) GetByStatus(status string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Where("order_status = ?", status).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get orders with status %s: %w", status, err)
	}
	return orders, nil
}

// Approve flips a Pending order to Approved and decrements the referenced
// product's stock in a single transaction. The decrement is conditional on
// sufficient stock and the flip is conditional on the order still being
// Pending, so concurrent approvals can neither oversell nor double-decrement.
func (r *GORMOrderRepository) Approve(id string, at time.Time) (*models.Order, error) {
	var approved models.Order
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("order %s: %w", id, ErrOrderNotFound)
			}
			return fmt.Errorf("failed to load order %s: %w", id, err)
		}

		var product models.Product
		if err := tx.Select("id").First(&product, "id = ?", order.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("product %s: %w", order.ProductID, ErrProductNotFound)
			}
			return fmt.Errorf("failed to load product %s: %w", order.ProductID, err)
		}

		// Decrement only if enough stock remains. Zero rows affected means the
		// approval would oversell.
		res := tx.Model(&models.Product{}).
			Where("id = ? AND stock >= ?", order.ProductID, order.Quantity).
			UpdateColumn("stock", gorm.Expr("stock - ?", order.Quantity))
		if res.Error != nil {
			return fmt.Errorf("failed to decrement stock for product %s: %w", order.ProductID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("product %s: %w", order.ProductID, ErrInsufficientStock)
		}

		// Flip the order only if it is still Pending. Zero rows affected means
		// a concurrent request decided it first; the rollback undoes the
		// decrement above.
		res = tx.Model(&models.Order{}).
			Where("id = ? AND order_status = ?", id, models.OrderStatusPending).
			Updates(map[string]interface{}{
				"order_status": models.OrderStatusApproved,
				"decided_at":   at,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to approve order %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("order %s: %w", id, ErrOrderNotPending)
		}

		order.OrderStatus = models.OrderStatusApproved
		order.DecidedAt = &at
		approved = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &approved, nil
}

// Reject marks an order Rejected and stamps the decision time. Rejection is
// not guarded against re-application; rejecting an already-decided order
// silently re-applies the update.
func (r *GORMOrderRepository) Reject(id string, at time.Time) (*models.Order, error) {
	res := r.db.Model(&models.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"order_status": models.OrderStatusRejected,
			"decided_at":   at,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to reject order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("order %s: %w", id, ErrOrderNotFound)
	}
	return r.GetByID(id)
}

// MarkPaid sets the payment status to paid and attaches the tracking ID.
func (r *GORMOrderRepository) MarkPaid(id, trackingID string, at time.Time) (*models.Order, error) {
	res := r.db.Model(&models.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      models.PaymentStatusPaid,
			"tracking_id": trackingID,
			"paid_at":     at,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to mark order %s paid: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("order %s: %w", id, ErrOrderNotFound)
	}
	return r.GetByID(id)
}

// AppendTrackingEvent appends one event to the order's timeline. The payload
// is stored as received; only the order's existence is checked.
func (r *GORMOrderRepository) AppendTrackingEvent(id string, event *models.TrackingEvent) (*models.Order, error) {
	var order models.Order
	if err := r.db.Select("id").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", id, ErrOrderNotFound)
		}
		return nil, fmt.Errorf("failed to load order %s: %w", id, err)
	}
	event.OrderID = id
	if err := r.db.Create(event).Error; err != nil {
		return nil, fmt.Errorf("failed to append tracking event to order %s: %w", id, err)
	}
	return r.GetByID(id)
}

// GetTrackingEvents returns the timeline in append order. An unknown order
// yields an empty timeline, not an error.
func (r *GORMOrderRepository) GetTrackingEvents(id string) ([]models.TrackingEvent, error) {
	var events []models.TrackingEvent
	err := r.db.Where("order_id = ?", id).Order("id ASC").Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get tracking events for order %s: %w", id, err)
	}
	return events, nil
}

// Delete removes an order. Administrative use only.
func (r *GORMOrderRepository) Delete(id string) error {
	res := r.db.Delete(&models.Order{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order %s: %w", id, ErrOrderNotFound)
	}
	return nil
}
