package services

import (
	"fmt"
	"time"

	"pasar/internal/models"
	"pasar/internal/repositories"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// OrderService handles business logic related to orders: placement, the
// approval/rejection lifecycle, and the shipment tracking timeline.
type OrderService struct {
	orderRepo repositories.OrderRepository
	publisher EventPublisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, publisher EventPublisher) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		publisher: publisher,
	}
}

// PlaceOrderResult is returned to the caller after an order is stored.
type PlaceOrderResult struct {
	OrderID         string `json:"orderId"`
	PaymentRequired bool   `json:"paymentRequired"`
}

// PlaceOrder stores a new order. The initial payment status follows from the
// payment method: PayFast orders stay pending until the gateway confirms,
// anything else counts as confirmed up front. Quantity and price pass through
// unchecked; the stock check happens at approval time.
func (s *OrderService) PlaceOrder(order models.Order) (*PlaceOrderResult, error) {
	if order.PaymentMethod == models.PaymentMethodPayFast {
		order.Status = models.PaymentStatusPending
	} else {
		order.Status = models.PaymentStatusConfirmed
	}
	order.OrderStatus = models.OrderStatusPending
	order.ID = uuid.New().String()
	order.CreatedAt = time.Now()
	order.DecidedAt = nil
	order.PaidAt = nil
	order.TrackingID = ""

	if err := s.orderRepo.Create(&order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	publishEvent(s.publisher, "order.created", map[string]interface{}{
		"orderId":    order.ID,
		"buyerEmail": order.BuyerEmail,
		"productId":  order.ProductID,
		"quantity":   order.Quantity,
		"total":      order.TotalPrice,
	})

	return &PlaceOrderResult{
		OrderID:         order.ID,
		PaymentRequired: order.Status == models.PaymentStatusPending,
	}, nil
}

// GetOrderByID retrieves a single order with its tracking timeline.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// GetOrdersByBuyer retrieves a buyer's orders, most recent first.
func (s *OrderService) GetOrdersByBuyer(email string) ([]models.Order, error) {
	return s.orderRepo.GetByBuyer(email)
}

// GetOrdersByStatus retrieves all orders with the given lifecycle status.
func (s *OrderService) GetOrdersByStatus(status string) ([]models.Order, error) {
	return s.orderRepo.GetByStatus(status)
}

// ApproveOrder approves a pending order, decrementing the referenced
// product's stock. The repository performs both writes atomically; an order
// that would oversell fails with ErrInsufficientStock and nothing changes.
func (s *OrderService) ApproveOrder(id string) (*models.Order, error) {
	order, err := s.orderRepo.Approve(id, time.Now())
	if err != nil {
		return nil, err
	}

	publishEvent(s.publisher, "order.approved", map[string]interface{}{
		"orderId":   order.ID,
		"productId": order.ProductID,
		"quantity":  order.Quantity,
	})

	return order, nil
}

// RejectOrder marks an order rejected with a decision timestamp.
func (s *OrderService) RejectOrder(id string) (*models.Order, error) {
	order, err := s.orderRepo.Reject(id, time.Now())
	if err != nil {
		return nil, err
	}

	publishEvent(s.publisher, "order.rejected", map[string]interface{}{
		"orderId": order.ID,
	})

	return order, nil
}

// AppendTrackingEvent appends one raw JSON payload to an order's timeline.
// The payload shape is not validated.
func (s *OrderService) AppendTrackingEvent(id string, payload []byte) (*models.Order, error) {
	event := &models.TrackingEvent{
		Payload:   datatypes.JSON(payload),
		CreatedAt: time.Now(),
	}
	return s.orderRepo.AppendTrackingEvent(id, event)
}

// GetTrackingTimeline returns an order's tracking events in append order. An
// unknown order yields an empty timeline.
func (s *OrderService) GetTrackingTimeline(id string) ([]models.TrackingEvent, error) {
	return s.orderRepo.GetTrackingEvents(id)
}

// DeleteOrder removes an order. Administrative use only.
func (s *OrderService) DeleteOrder(id string) error {
	return s.orderRepo.Delete(id)
}
