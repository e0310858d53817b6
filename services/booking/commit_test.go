package booking

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medibook/models"
)

// openPaidSession runs a reservation through the service and marks the
// resulting session paid, as the processor would after a real checkout.
func openPaidSession(t *testing.T, svc *DefaultReservationService, gateway *fakeGateway, req models.ReservationRequest) string {
	t.Helper()
	session, err := svc.CreateReservation(context.Background(), caller, req)
	require.NoError(t, err)
	gateway.markPaid(session.SessionID)
	return session.SessionID
}

func TestCommitSessionCreatesConfirmedBooking(t *testing.T) {
	svc, bookings, _, gateway := seededService(t)
	sessionID := openPaidSession(t, svc, gateway, validRequest())

	booked, err := svc.CommitSession(context.Background(), sessionID)
	require.NoError(t, err)

	assert.NotEmpty(t, booked.ID)
	assert.Equal(t, models.BookingConfirmed, booked.Status)
	assert.Equal(t, "doc-1", booked.DoctorID)
	assert.Equal(t, "hosp-1", booked.HospitalID)
	assert.Equal(t, "2024-06-10", booked.Date)
	assert.Equal(t, 540, booked.Start)
	assert.Equal(t, sessionID, booked.PaymentSessionID)
	assert.Equal(t, int64(50000), booked.AmountPaid)
	assert.Equal(t, "inr", booked.Currency)
	assert.Equal(t, 1, bookings.count())

	// User and patient were materialized from session metadata alone.
	user, err := svc.Users.GetByExternalID(context.Background(), "ext-1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, booked.UserID)
	patient, err := svc.Patients.GetByUserAndName(context.Background(), user.ID, "Asha Rao")
	require.NoError(t, err)
	assert.Equal(t, patient.ID, booked.PatientID)
}

func TestCommitSessionIsIdempotent(t *testing.T) {
	svc, bookings, _, gateway := seededService(t)
	sessionID := openPaidSession(t, svc, gateway, validRequest())

	first, err := svc.CommitSession(context.Background(), sessionID)
	require.NoError(t, err)

	// Repeat deliveries of the same session all land on the same row.
	for i := 0; i < 3; i++ {
		again, err := svc.CommitSession(context.Background(), sessionID)
		require.NoError(t, err)
		assert.Equal(t, first.ID, again.ID)
	}
	assert.Equal(t, 1, bookings.count())
}

func TestCommitSessionConcurrentCommitsConverge(t *testing.T) {
	svc, bookings, _, gateway := seededService(t)
	sessionID := openPaidSession(t, svc, gateway, validRequest())

	const callers = 8
	ids := make([]string, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer wg.Done()
			b, err := svc.CommitSession(context.Background(), sessionID)
			if err != nil {
				errs[i] = err
				return
			}
			ids[i] = b.ID
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
	assert.Equal(t, 1, bookings.count())
}

func TestCommitSessionRejectsUnpaid(t *testing.T) {
	svc, bookings, _, _ := seededService(t)

	session, err := svc.CreateReservation(context.Background(), caller, validRequest())
	require.NoError(t, err)

	_, err = svc.CommitSession(context.Background(), session.SessionID)
	require.Error(t, err)
	assert.Equal(t, CodePaymentNotConfirmed, CodeOf(err))
	assert.Zero(t, bookings.count())
}

func TestCommitSessionUnknownSession(t *testing.T) {
	svc, _, _, _ := seededService(t)

	_, err := svc.CommitSession(context.Background(), "cs_test_missing")
	assert.Equal(t, CodeNotFound, CodeOf(err))

	_, err = svc.CommitSession(context.Background(), "")
	assert.Equal(t, CodeValidation, CodeOf(err))
}

func TestCommitSessionFailsClosedOnMissingIdentity(t *testing.T) {
	svc, bookings, _, gateway := seededService(t)
	sessionID := openPaidSession(t, svc, gateway, validRequest())

	// A session whose metadata lost the external id must never commit, let
	// alone fall back to some default account.
	gateway.mu.Lock()
	delete(gateway.sessions[sessionID].Metadata, "external_id")
	gateway.mu.Unlock()

	_, err := svc.CommitSession(context.Background(), sessionID)
	require.Error(t, err)
	assert.Equal(t, CodeMissingIdentity, CodeOf(err))
	assert.Zero(t, bookings.count())
}

func TestCommitSessionSlotConflict(t *testing.T) {
	svc, bookings, _, gateway := seededService(t)

	// Two buyers paid for the same doctor, date and start. The store's slot
	// constraint lets exactly one through.
	firstID := openPaidSession(t, svc, gateway, validRequest())
	secondID := openPaidSession(t, svc, gateway, validRequest())
	require.NotEqual(t, firstID, secondID)

	_, err := svc.CommitSession(context.Background(), firstID)
	require.NoError(t, err)

	_, err = svc.CommitSession(context.Background(), secondID)
	require.Error(t, err)
	assert.Equal(t, CodeConflict, CodeOf(err))
	assert.Equal(t, 1, bookings.count())
}

func TestCommitSessionReferenceVanished(t *testing.T) {
	svc, bookings, directory, gateway := seededService(t)
	sessionID := openPaidSession(t, svc, gateway, validRequest())

	// Doctor delisted between checkout and commit.
	delete(directory.doctors, "doc-1")

	_, err := svc.CommitSession(context.Background(), sessionID)
	require.Error(t, err)
	assert.Equal(t, CodeReferenceNotFound, CodeOf(err))
	assert.Zero(t, bookings.count())
}

func TestCommitSessionPackageWithoutOccurrence(t *testing.T) {
	svc, bookings, _, gateway := seededService(t)

	req := validRequest()
	req.DoctorID = ""
	req.PackageID = "pkg-1"
	req.Occurrence = nil
	sessionID := openPaidSession(t, svc, gateway, req)

	booked, err := svc.CommitSession(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, "pkg-1", booked.PackageID)
	assert.Empty(t, booked.DoctorID)
	assert.Empty(t, booked.Date)
	assert.Equal(t, 1, bookings.count())

	// A second package purchase is a new booking, not a slot conflict.
	secondID := openPaidSession(t, svc, gateway, req)
	_, err = svc.CommitSession(context.Background(), secondID)
	require.NoError(t, err)
	assert.Equal(t, 2, bookings.count())
}
