package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"pasar/internal/models"
	"pasar/internal/repositories"
	"pasar/pkg/checkout"

	"github.com/google/uuid"
)

// ErrPaymentIncomplete is returned when a checkout session is retrieved but
// the gateway does not report it as paid.
var ErrPaymentIncomplete = errors.New("payment not completed")

const trackingAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewTrackingID mints a buyer-facing tracking code such as ORD-20260901-7GK2.
// Uniqueness is probabilistic, not enforced.
func NewTrackingID(now time.Time) string {
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = trackingAlphabet[rand.Intn(len(trackingAlphabet))]
	}
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}

// PaymentService bridges the external checkout gateway and the order store:
// it opens checkout sessions and finalizes orders when a session reports a
// successful capture, exactly once per external transaction.
type PaymentService struct {
	gateway     checkout.Gateway
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	paymentRepo repositories.PaymentRepository
	publisher   EventPublisher
	successURL  string
	cancelURL   string
	currency    string
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	gateway checkout.Gateway,
	orderRepo repositories.OrderRepository,
	productRepo repositories.ProductRepository,
	paymentRepo repositories.PaymentRepository,
	publisher EventPublisher,
	successURL, cancelURL, currency string,
) *PaymentService {
	return &PaymentService{
		gateway:     gateway,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		paymentRepo: paymentRepo,
		publisher:   publisher,
		successURL:  successURL,
		cancelURL:   cancelURL,
		currency:    currency,
	}
}

// BeginCheckout opens a gateway session for an order and returns the redirect
// URL the buyer should be sent to.
func (s *PaymentService) BeginCheckout(ctx context.Context, orderID string) (string, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return "", err
	}
	product, err := s.productRepo.GetByID(order.ProductID)
	if err != nil {
		return "", err
	}

	sess, err := s.gateway.CreateSession(ctx, checkout.SessionRequest{
		CustomerEmail: order.BuyerEmail,
		Item: checkout.LineItem{
			Name:     product.Name,
			Amount:   int64(math.Round(order.TotalPrice * 100)),
			Currency: s.currency,
			Quantity: 1,
		},
		SuccessURL: s.successURL,
		CancelURL:  s.cancelURL,
		Metadata: map[string]string{
			"order_id":      order.ID,
			"product_id":    product.ID,
			"product_title": product.Name,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session for order %s: %w", orderID, err)
	}
	return sess.URL, nil
}

// ConfirmResult describes the outcome of a payment confirmation. Replayed is
// set when the transaction was already recorded and nothing was done.
type ConfirmResult struct {
	Replayed      bool   `json:"replayed,omitempty"`
	OrderID       string `json:"orderId,omitempty"`
	TrackingID    string `json:"trackingId,omitempty"`
	TransactionID string `json:"transactionId"`
	PaymentID     string `json:"paymentId,omitempty"`
}

// ConfirmPayment finalizes the order behind a checkout session: it marks the
// order paid, attaches a freshly minted tracking ID, and records one ledger
// entry. Confirming the same transaction again is a silent no-op.
func (s *PaymentService) ConfirmPayment(ctx context.Context, sessionID string) (*ConfirmResult, error) {
	sess, err := s.gateway.RetrieveSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve checkout session %s: %w", sessionID, err)
	}
	transactionID := sess.PaymentIntentID

	// Fast-path replay check. The unique index on transaction_id remains the
	// authoritative guard below.
	if existing, err := s.paymentRepo.GetByTransactionID(transactionID); err == nil && existing != nil {
		return &ConfirmResult{Replayed: true, TransactionID: transactionID}, nil
	}

	if sess.PaymentStatus != models.PaymentStatusPaid {
		return nil, fmt.Errorf("session %s reported status %q: %w", sessionID, sess.PaymentStatus, ErrPaymentIncomplete)
	}

	now := time.Now()
	trackingID := NewTrackingID(now)
	orderID := sess.Metadata["order_id"]

	order, err := s.orderRepo.MarkPaid(orderID, trackingID, now)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		ID:            uuid.New().String(),
		OrderID:       order.ID,
		ProductTitle:  sess.Metadata["product_title"],
		BuyerEmail:    sess.CustomerEmail,
		BuyerName:     sess.CustomerName,
		Amount:        sess.AmountTotal,
		Currency:      sess.Currency,
		TransactionID: transactionID,
		TrackingID:    trackingID,
		Status:        models.PaymentStatusPaid,
		PaidAt:        now,
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		// Losing the insert race on the unique index means a concurrent
		// confirmation of the same transaction won; treat it as a replay.
		if dup, lookupErr := s.paymentRepo.GetByTransactionID(transactionID); lookupErr == nil && dup != nil {
			return &ConfirmResult{Replayed: true, TransactionID: transactionID}, nil
		}
		return nil, fmt.Errorf("failed to record payment for order %s: %w", orderID, err)
	}

	publishEvent(s.publisher, "order.paid", map[string]interface{}{
		"orderId":       order.ID,
		"trackingId":    trackingID,
		"transactionId": transactionID,
		"amount":        payment.Amount,
		"currency":      payment.Currency,
	})

	return &ConfirmResult{
		OrderID:       order.ID,
		TrackingID:    trackingID,
		TransactionID: transactionID,
		PaymentID:     payment.ID,
	}, nil
}
