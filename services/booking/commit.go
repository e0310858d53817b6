package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	bookingRepo "medibook/database/repository/booking"
	directoryRepo "medibook/database/repository/directory"
	patientRepo "medibook/database/repository/patient"
	userRepo "medibook/database/repository/user"
	"medibook/models"
	"medibook/services/payment"
	"medibook/services/tasks"
	"medibook/utils"
)

// CommitSession turns one paid checkout session into exactly one booking.
// Safe to call any number of times for the same session: repeated webhook
// deliveries and client polls all converge on the same booking row. The
// unique index on payment_session_id is the serialization point; everything
// before the insert is best-effort reads.
func (s *DefaultReservationService) CommitSession(ctx context.Context, sessionID string) (*models.Booking, error) {
	logger := utils.GetLogger()

	if sessionID == "" {
		return nil, NewValidationError("session id is required")
	}

	sess, err := s.Gateway.RetrieveCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, NewNotFoundError("payment session %s could not be retrieved: %v", sessionID, err)
	}
	if sess.PaymentStatus != payment.StatusPaid {
		return nil, NewPaymentNotConfirmedError("payment session %s is %q, not paid", sessionID, sess.PaymentStatus)
	}

	// Fast path: a previous commit (webhook, poll, reload) already won.
	existing, err := s.Bookings.GetByPaymentSessionID(ctx, sessionID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, bookingRepo.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up booking for session: %w", err)
	}

	meta, err := DecodeSessionMetadata(sess.Metadata)
	if err != nil {
		return nil, NewMissingIdentityError("session %s metadata is unusable: %v", sessionID, err)
	}

	user, err := s.resolveOrCreateUser(ctx, meta)
	if err != nil {
		return nil, err
	}
	patient, err := s.resolveOrCreatePatient(ctx, user.ID, meta)
	if err != nil {
		return nil, err
	}

	if _, err := s.Directory.GetHospitalByID(ctx, meta.HospitalID); err != nil {
		if errors.Is(err, directoryRepo.ErrNotFound) {
			return nil, NewReferenceNotFoundError("hospital %s referenced by session %s no longer exists", meta.HospitalID, sessionID)
		}
		return nil, fmt.Errorf("failed to verify hospital: %w", err)
	}

	newBooking := &models.Booking{
		UserID:           user.ID,
		PatientID:        patient.ID,
		HospitalID:       meta.HospitalID,
		PaymentSessionID: sessionID,
		Status:           models.BookingConfirmed,
		AmountPaid:       sess.AmountTotal,
		Currency:         sess.Currency,
		CreatedAt:        s.now(),
	}

	switch meta.ItemType {
	case ItemDoctor:
		if _, err := s.Directory.GetDoctorByID(ctx, meta.ItemID); err != nil {
			if errors.Is(err, directoryRepo.ErrNotFound) {
				return nil, NewReferenceNotFoundError("doctor %s referenced by session %s no longer exists", meta.ItemID, sessionID)
			}
			return nil, fmt.Errorf("failed to verify doctor: %w", err)
		}
		newBooking.DoctorID = meta.ItemID
	case ItemPackage:
		newBooking.PackageID = meta.ItemID
	}

	if meta.HasOccurrence() {
		newBooking.TemplateID = meta.TemplateID
		newBooking.Date = meta.Date
		newBooking.Start = meta.Start
		newBooking.Mode = meta.Mode
	}

	err = s.Bookings.Create(ctx, newBooking)
	switch {
	case err == nil:
		logger.Info("booking committed",
			zap.String("bookingID", newBooking.ID),
			zap.String("sessionID", sessionID),
			zap.String("userID", user.ID))
		s.enqueueNotifications(newBooking, meta)
		return newBooking, nil

	case errors.Is(err, bookingRepo.ErrDuplicateSession):
		// A concurrent commit for the same session beat us to the insert.
		// Recover locally: the existing row is the answer, not a failure.
		winner, readErr := s.Bookings.GetByPaymentSessionID(ctx, sessionID)
		if readErr != nil {
			return nil, fmt.Errorf("failed to re-read booking after session conflict: %w", readErr)
		}
		return winner, nil

	case errors.Is(err, bookingRepo.ErrDuplicateSlot):
		// A different paid session claimed the same doctor/date/start first.
		return nil, NewConflictError("slot %s %s at minute %d is already booked", newBooking.DoctorID, newBooking.Date, newBooking.Start)

	default:
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
}

func (s *DefaultReservationService) resolveOrCreateUser(ctx context.Context, meta *SessionMetadata) (*models.User, error) {
	user, err := s.Users.GetByExternalID(ctx, meta.ExternalID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, userRepo.ErrNotFound) {
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	fresh := &models.User{
		ExternalID: meta.ExternalID,
		Name:       meta.PatientName,
		Email:      meta.Email,
		CreatedAt:  s.now(),
	}
	err = s.Users.Create(ctx, fresh)
	if err == nil {
		return fresh, nil
	}
	if errors.Is(err, userRepo.ErrDuplicate) {
		// Lost a race with a concurrent commit; the existing row wins.
		return s.Users.GetByExternalID(ctx, meta.ExternalID)
	}
	return nil, fmt.Errorf("failed to create user: %w", err)
}

func (s *DefaultReservationService) resolveOrCreatePatient(ctx context.Context, userID string, meta *SessionMetadata) (*models.Patient, error) {
	patient, err := s.Patients.GetByUserAndName(ctx, userID, meta.PatientName)
	if err == nil {
		return patient, nil
	}
	if !errors.Is(err, patientRepo.ErrNotFound) {
		return nil, fmt.Errorf("failed to resolve patient: %w", err)
	}

	fresh := &models.Patient{
		UserID:    userID,
		Name:      meta.PatientName,
		Age:       meta.PatientAge,
		Gender:    meta.Gender,
		Phone:     meta.Phone,
		CreatedAt: s.now(),
	}
	if err := s.Patients.Create(ctx, fresh); err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}
	return fresh, nil
}

// enqueueNotifications schedules the confirmation and, when the booking has a
// concrete occurrence, a reminder the day before. Best effort: a queue outage
// never fails a committed booking.
func (s *DefaultReservationService) enqueueNotifications(b *models.Booking, meta *SessionMetadata) {
	if s.Queue == nil {
		return
	}
	logger := utils.GetLogger()

	confirm := models.ReminderPayload{
		BookingID: b.ID,
		UserID:    b.UserID,
		Email:     meta.Email,
		Title:     "Booking confirmed",
		Body:      fmt.Sprintf("Your booking %s is confirmed.", b.ID),
	}
	if task, opts, err := tasks.NewBookingConfirmedTask(confirm); err == nil {
		if _, err := s.Queue.Enqueue(task, opts...); err != nil {
			logger.Warn("failed to enqueue confirmation", zap.String("bookingID", b.ID), zap.Error(err))
		}
	}

	if !meta.HasOccurrence() {
		return
	}
	day, err := time.ParseInLocation(dateLayout, b.Date, s.now().Location())
	if err != nil {
		return
	}
	fireAt := day.Add(time.Duration(b.Start)*time.Minute - 24*time.Hour)
	if fireAt.Before(s.now()) {
		return
	}
	remind := models.ReminderPayload{
		BookingID: b.ID,
		UserID:    b.UserID,
		Email:     meta.Email,
		Title:     "Appointment reminder",
		Body:      fmt.Sprintf("Reminder: your appointment on %s.", b.Date),
		FireDate:  fireAt.Format(time.RFC3339),
	}
	if task, opts, err := tasks.NewBookingReminderTask(remind, fireAt); err == nil {
		if _, err := s.Queue.Enqueue(task, opts...); err != nil {
			logger.Warn("failed to enqueue reminder", zap.String("bookingID", b.ID), zap.Error(err))
		}
	}
}
