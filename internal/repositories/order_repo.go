package repositories

import (
	"time"

	"pasar/internal/models"
)

// OrderRepository defines the interface for order data access. Approve couples
// the order and product tables: the stock decrement and the status flip happen
// in one atomic operation or not at all.
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id string) (*models.Order, error)
	GetByBuyer(email string) ([]models.Order, error)
	GetByStatus(status string) ([]models.Order, error)
	Approve(id string, at time.Time) (*models.Order, error)
	Reject(id string, at time.Time) (*models.Order, error)
	MarkPaid(id, trackingID string, at time.Time) (*models.Order, error)
	AppendTrackingEvent(id string, event *models.TrackingEvent) (*models.Order, error)
	GetTrackingEvents(id string) ([]models.TrackingEvent, error)
	Delete(id string) error
}
