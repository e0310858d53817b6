package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	directoryRepo "medibook/database/repository/directory"
	userRepo "medibook/database/repository/user"
	"medibook/models"
	"medibook/services/identity"
	"medibook/services/payment"
	"medibook/utils"
)

// ListOccurrences expands the doctor's weekly templates over the requested
// range and annotates each occurrence against committed bookings. Advisory
// read: nothing here is authoritative for double-booking prevention.
func (s *DefaultReservationService) ListOccurrences(ctx context.Context, doctorID string, rangeStart time.Time, days int, callerExternalID string) (models.DaySchedule, error) {
	if doctorID == "" {
		return nil, NewValidationError("doctor is required")
	}
	if days <= 0 || days > 90 {
		return nil, NewValidationError("days must be between 1 and 90")
	}

	templates, err := s.Templates.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load availability templates: %w", err)
	}

	occurrences := GenerateOccurrences(templates, rangeStart, days, doctorID)

	bookings, err := s.Bookings.ListActiveByDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}

	var callerUserID string
	if callerExternalID != "" {
		user, err := s.Users.GetByExternalID(ctx, callerExternalID)
		if err == nil {
			callerUserID = user.ID
		} else if !errors.Is(err, userRepo.ErrNotFound) {
			return nil, fmt.Errorf("failed to resolve caller: %w", err)
		}
	}

	return BuildAvailabilityIndex(occurrences, bookings, callerUserID, s.now()), nil
}

// ListBookedOccurrences returns the occupied (date, start) pairs for a doctor.
func (s *DefaultReservationService) ListBookedOccurrences(ctx context.Context, doctorID string) ([]models.Occurrence, error) {
	if doctorID == "" {
		return nil, NewValidationError("doctor is required")
	}

	bookings, err := s.Bookings.ListActiveByDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}

	occurrences := make([]models.Occurrence, 0, len(bookings))
	for _, b := range bookings {
		if b.Status != models.BookingConfirmed || b.Date == "" {
			continue
		}
		occurrences = append(occurrences, models.Occurrence{
			TemplateID: b.TemplateID,
			DoctorID:   b.DoctorID,
			HospitalID: b.HospitalID,
			Date:       b.Date,
			Start:      b.Start,
			Mode:       b.Mode,
			Taken:      true,
		})
	}
	return occurrences, nil
}

// CreateReservation validates the request, resolves the authoritative price
// from the store, and opens a checkout session carrying the metadata
// contract. No durable write happens here: a booking row only ever appears
// after the processor reports the session paid.
func (s *DefaultReservationService) CreateReservation(ctx context.Context, caller identity.Identity, req models.ReservationRequest) (*models.CheckoutSession, error) {
	logger := utils.GetLogger()

	if caller.ExternalID == "" {
		return nil, NewMissingIdentityError("reservation requires an authenticated caller")
	}
	if err := s.validateReservation(&req); err != nil {
		return nil, err
	}

	if _, err := s.Directory.GetHospitalByID(ctx, req.HospitalID); err != nil {
		if errors.Is(err, directoryRepo.ErrNotFound) {
			return nil, NewNotFoundError("hospital %s does not exist", req.HospitalID)
		}
		return nil, fmt.Errorf("failed to load hospital: %w", err)
	}

	// Authoritative price, read fresh from the store. Client-held price state
	// is never consulted.
	var (
		amount   int64
		itemName string
		meta     = SessionMetadata{
			ExternalID:  caller.ExternalID,
			PatientName: req.PatientName,
			PatientAge:  req.PatientAge,
			Gender:      req.Gender,
			Phone:       req.Phone,
			Email:       req.Email,
			HospitalID:  req.HospitalID,
		}
	)

	switch {
	case req.DoctorID != "":
		doctor, err := s.Directory.GetDoctorByID(ctx, req.DoctorID)
		if err != nil {
			if errors.Is(err, directoryRepo.ErrNotFound) {
				return nil, NewNotFoundError("doctor %s does not exist", req.DoctorID)
			}
			return nil, fmt.Errorf("failed to load doctor: %w", err)
		}
		if doctor.Fee <= 0 {
			return nil, NewPricingError("doctor %s has no consultation fee configured", doctor.ID)
		}
		amount = doctor.Fee
		itemName = "Consultation with " + doctor.Name
		meta.ItemType = ItemDoctor
		meta.ItemID = doctor.ID

	case req.PackageID != "":
		pkg, err := s.Directory.GetPackageByID(ctx, req.PackageID)
		if err != nil {
			if errors.Is(err, directoryRepo.ErrNotFound) {
				return nil, NewNotFoundError("package %s does not exist", req.PackageID)
			}
			return nil, fmt.Errorf("failed to load package: %w", err)
		}
		if pkg.Price <= 0 {
			return nil, NewPricingError("package %s has no price configured", pkg.ID)
		}
		amount = pkg.Price
		itemName = pkg.Name
		meta.ItemType = ItemPackage
		meta.ItemID = pkg.ID
	}

	if occ := req.Occurrence; occ != nil {
		meta.TemplateID = occ.TemplateID
		meta.Date = occ.Date
		meta.Start = occ.Start
		meta.Mode = occ.Mode
	}

	metadata, err := meta.Encode()
	if err != nil {
		return nil, NewValidationError("could not build session metadata: %v", err)
	}

	ttl := s.SessionTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	sess, err := s.Gateway.CreateCheckoutSession(ctx, payment.CheckoutParams{
		ItemName:   itemName,
		Amount:     amount,
		Currency:   s.Currency,
		Metadata:   metadata,
		SuccessURL: s.SuccessURL,
		CancelURL:  s.CancelURL,
		ExpiresAt:  s.now().Add(ttl),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open payment session: %w", err)
	}

	logger.Info("checkout session opened",
		zap.String("sessionID", sess.ID),
		zap.String("itemType", meta.ItemType),
		zap.String("itemID", meta.ItemID),
		zap.Int64("amount", amount))

	return &models.CheckoutSession{SessionID: sess.ID, PaymentURL: sess.URL}, nil
}

// ListUserBookings returns the caller's bookings, newest first as stored.
func (s *DefaultReservationService) ListUserBookings(ctx context.Context, callerExternalID string) ([]models.Booking, error) {
	if callerExternalID == "" {
		return nil, NewMissingIdentityError("listing bookings requires an authenticated caller")
	}
	user, err := s.Users.GetByExternalID(ctx, callerExternalID)
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return []models.Booking{}, nil
		}
		return nil, fmt.Errorf("failed to resolve caller: %w", err)
	}
	return s.Bookings.ListByUser(ctx, user.ID)
}
