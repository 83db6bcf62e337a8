package models

import (
	"time"

	"gorm.io/datatypes"
)

// Order lifecycle statuses. An order starts Pending; approval and rejection
// are both terminal.
const (
	OrderStatusPending  = "Pending"
	OrderStatusApproved = "Approved"
	OrderStatusRejected = "Rejected"
)

// Payment statuses. An order only reaches "paid" through the payment
// confirmation flow.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusConfirmed = "confirmed"
	PaymentStatusPaid      = "paid"
)

// PaymentMethodPayFast marks orders whose payment is captured by the external
// gateway after checkout. All other payment methods are treated as settled at
// order time.
const PaymentMethodPayFast = "PayFast"

// Order represents a buyer's order for a single product.
type Order struct {
	ID            string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	BuyerEmail    string  `json:"buyerEmail" gorm:"index;type:varchar(255)"`
	ProductID     string  `json:"productId" gorm:"type:varchar(36)"`
	Quantity      int     `json:"quantity"`
	TotalPrice    float64 `json:"totalPrice"`
	PaymentMethod string  `json:"paymentMethod" gorm:"type:varchar(50)"`
	// Status is the payment status; OrderStatus is the lifecycle status. The
	// two axes move independently.
	Status      string `json:"status" gorm:"type:varchar(20)"`
	OrderStatus string `json:"orderStatus" gorm:"index;type:varchar(20)"`
	TrackingID  string `json:"trackingId,omitempty" gorm:"type:varchar(20)"`

	CreatedAt time.Time  `json:"createdAt"`
	DecidedAt *time.Time `json:"decidedAt,omitempty"` // approval or rejection time
	PaidAt    *time.Time `json:"paidAt,omitempty"`

	TrackingEvents []TrackingEvent `json:"trackingEvents,omitempty" gorm:"foreignKey:OrderID"`
}

// TrackingEvent is one entry in an order's shipment timeline. The payload is
// stored exactly as the caller sent it; insertion order is the timeline order
// and events are never removed.
type TrackingEvent struct {
	ID        uint           `json:"-" gorm:"primaryKey;autoIncrement"`
	OrderID   string         `json:"-" gorm:"index;type:varchar(36)"`
	Payload   datatypes.JSON `json:"payload"`
	CreatedAt time.Time      `json:"createdAt"`
}
