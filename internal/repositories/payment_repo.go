package repositories

import (
	"pasar/internal/models"
)

// PaymentRepository defines the interface for the payment ledger. Entries are
// insert-only; the store enforces uniqueness per transaction ID.
type PaymentRepository interface {
	Create(payment *models.Payment) error
	GetByTransactionID(transactionID string) (*models.Payment, error)
}
