package models

import "time"

// Payment is an immutable ledger entry for a completed gateway capture. The
// unique index on TransactionID is the replay guard: at most one entry exists
// per external transaction.
type Payment struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID       string    `json:"orderId" gorm:"index;type:varchar(36)"`
	ProductTitle  string    `json:"productTitle"`
	BuyerEmail    string    `json:"buyerEmail" gorm:"type:varchar(255)"`
	BuyerName     string    `json:"buyerName" gorm:"type:varchar(255)"`
	Amount        int64     `json:"amount"` // minor units, as reported by the gateway
	Currency      string    `json:"currency" gorm:"type:varchar(10)"`
	TransactionID string    `json:"transactionId" gorm:"uniqueIndex;type:varchar(255)"`
	TrackingID    string    `json:"trackingId" gorm:"type:varchar(20)"`
	Status        string    `json:"status" gorm:"type:varchar(20)"`
	PaidAt        time.Time `json:"paidAt"`
}
