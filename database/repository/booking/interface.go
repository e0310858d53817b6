package bookingRepo

import (
	"context"
	"errors"

	"medibook/models"
)

// Sentinel errors surfaced by every BookingRepository implementation so the
// commit pipeline can react without knowing the backing store.
var (
	// ErrNotFound means no booking matched the lookup.
	ErrNotFound = errors.New("booking not found")
	// ErrDuplicateSession means an insert collided with the unique index on
	// payment_session_id: a booking for this session already exists.
	ErrDuplicateSession = errors.New("booking already exists for payment session")
	// ErrDuplicateSlot means an insert collided with the slot-exclusivity
	// index: another active booking occupies the same doctor/date/start.
	ErrDuplicateSlot = errors.New("slot already booked")
)

// BookingRepository persists bookings. The unique index on payment_session_id
// is the idempotency backstop for the whole commit pipeline.
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByPaymentSessionID(ctx context.Context, sessionID string) (*models.Booking, error)
	ListActiveByDoctor(ctx context.Context, doctorID string) ([]models.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]models.Booking, error)
	UpdateStatus(ctx context.Context, bookingID string, status models.BookingStatus) error
	EnsureIndexes() error
}
