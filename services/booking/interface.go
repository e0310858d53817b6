package booking

import (
	"context"
	"time"

	"github.com/hibiken/asynq"

	availabilityRepo "medibook/database/repository/availability"
	bookingRepo "medibook/database/repository/booking"
	directoryRepo "medibook/database/repository/directory"
	patientRepo "medibook/database/repository/patient"
	userRepo "medibook/database/repository/user"
	"medibook/models"
	"medibook/services/identity"
	"medibook/services/payment"
)

// ReservationService is the booking core: occurrence discovery, checkout
// session creation, and the payment-to-booking commit.
type ReservationService interface {
	ListOccurrences(ctx context.Context, doctorID string, rangeStart time.Time, days int, callerExternalID string) (models.DaySchedule, error)
	ListBookedOccurrences(ctx context.Context, doctorID string) ([]models.Occurrence, error)
	CreateReservation(ctx context.Context, caller identity.Identity, req models.ReservationRequest) (*models.CheckoutSession, error)
	CommitSession(ctx context.Context, sessionID string) (*models.Booking, error)
	ListUserBookings(ctx context.Context, callerExternalID string) ([]models.Booking, error)
}

// DefaultReservationService wires the repositories and the payment gateway.
type DefaultReservationService struct {
	Templates availabilityRepo.TemplateRepository
	Bookings  bookingRepo.BookingRepository
	Users     userRepo.UserRepository
	Patients  patientRepo.PatientRepository
	Directory directoryRepo.DirectoryRepository
	Gateway   payment.Gateway

	// Queue enqueues post-commit notification tasks; nil disables them.
	Queue *asynq.Client

	// Checkout knobs, sourced from config at startup.
	SuccessURL string
	CancelURL  string
	Currency   string
	SessionTTL time.Duration

	// Now is injected so tests can pin the clock; defaults to time.Now.
	Now func() time.Time
}

func (s *DefaultReservationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
