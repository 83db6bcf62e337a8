package checkout

import "context"

// Session mirrors the slice of a gateway checkout session this service reads
// back after the buyer completes (or abandons) payment.
type Session struct {
	ID              string
	URL             string
	PaymentStatus   string
	PaymentIntentID string
	AmountTotal     int64
	Currency        string
	CustomerEmail   string
	CustomerName    string
	Metadata        map[string]string
}

// LineItem describes the single purchasable line of a session. Amount is in
// the currency's minor units.
type LineItem struct {
	Name     string
	Amount   int64
	Currency string
	Quantity int64
}

// SessionRequest carries everything needed to open a checkout session.
type SessionRequest struct {
	CustomerEmail string
	Item          LineItem
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

// Gateway abstracts the external payment provider. The rest of the system
// never talks to the provider SDK directly.
type Gateway interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
	RetrieveSession(ctx context.Context, id string) (*Session, error)
}
