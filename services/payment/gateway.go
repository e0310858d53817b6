package payment

import (
	"context"
	"time"
)

// Payment statuses reported by the processor for a checkout session.
const (
	StatusPaid   = "paid"
	StatusUnpaid = "unpaid"
)

// CheckoutParams describes the single line item and the metadata contract for
// a new checkout session. Metadata round-trips through the processor as an
// opaque flat string map and is the only channel the commit step learns the
// intended booking from.
type CheckoutParams struct {
	ItemName    string
	Description string
	Amount      int64 // Minor currency units
	Currency    string
	Metadata    map[string]string
	SuccessURL  string
	CancelURL   string
	ExpiresAt   time.Time
}

// Session is the processor's view of a checkout session.
type Session struct {
	ID            string
	URL           string
	PaymentStatus string
	AmountTotal   int64
	Currency      string
	Metadata      map[string]string
}

// Gateway abstracts the external payment processor. The production
// implementation talks to Stripe Checkout; tests substitute a fake.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*Session, error)
	RetrieveCheckoutSession(ctx context.Context, sessionID string) (*Session, error)
}
