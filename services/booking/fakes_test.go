package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	bookingRepo "medibook/database/repository/booking"
	directoryRepo "medibook/database/repository/directory"
	patientRepo "medibook/database/repository/patient"
	userRepo "medibook/database/repository/user"
	"medibook/models"
	"medibook/services/payment"
)

// In-memory fakes mirroring the store's uniqueness guarantees: the session-id
// and slot indexes are enforced inside a single mutex, which is exactly the
// serialization point the mongo indexes provide.

type fakeTemplateRepo struct {
	templates []models.AvailabilityTemplate
}

func (r *fakeTemplateRepo) ListByDoctor(_ context.Context, doctorID string) ([]models.AvailabilityTemplate, error) {
	var out []models.AvailabilityTemplate
	for _, tpl := range r.templates {
		if tpl.DoctorID == doctorID {
			out = append(out, tpl)
		}
	}
	return out, nil
}

func (r *fakeTemplateRepo) ListByHospital(_ context.Context, hospitalID string) ([]models.AvailabilityTemplate, error) {
	var out []models.AvailabilityTemplate
	for _, tpl := range r.templates {
		if tpl.HospitalID == hospitalID {
			out = append(out, tpl)
		}
	}
	return out, nil
}

func (r *fakeTemplateRepo) Upsert(_ context.Context, tpl *models.AvailabilityTemplate) error {
	r.templates = append(r.templates, *tpl)
	return nil
}

func (r *fakeTemplateRepo) DeleteByID(_ context.Context, _ string) error { return nil }
func (r *fakeTemplateRepo) EnsureIndexes() error                         { return nil }

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings []*models.Booking
	nextID   int
}

func (r *fakeBookingRepo) Create(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.bookings {
		if existing.PaymentSessionID == b.PaymentSessionID {
			return bookingRepo.ErrDuplicateSession
		}
		if b.DoctorID != "" && b.Date != "" && existing.Status.Active() &&
			existing.DoctorID == b.DoctorID && existing.Date == b.Date && existing.Start == b.Start {
			return bookingRepo.ErrDuplicateSlot
		}
	}

	if b.ID == "" {
		r.nextID++
		b.ID = fmt.Sprintf("bk-%d", r.nextID)
	}
	clone := *b
	r.bookings = append(r.bookings, &clone)
	return nil
}

func (r *fakeBookingRepo) GetByPaymentSessionID(_ context.Context, sessionID string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.PaymentSessionID == sessionID {
			clone := *b
			return &clone, nil
		}
	}
	return nil, bookingRepo.ErrNotFound
}

func (r *fakeBookingRepo) ListActiveByDoctor(_ context.Context, doctorID string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.DoctorID == doctorID && b.Status.Active() {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) ListByUser(_ context.Context, userID string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, bookingID string, status models.BookingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.ID == bookingID {
			if !b.Status.CanTransition(status) {
				return errors.New("illegal status transition")
			}
			b.Status = status
			return nil
		}
	}
	return bookingRepo.ErrNotFound
}

func (r *fakeBookingRepo) EnsureIndexes() error { return nil }

func (r *fakeBookingRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bookings)
}

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[string]*models.User // keyed by external id
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) GetByExternalID(_ context.Context, externalID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[externalID]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, userRepo.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, userRepo.ErrNotFound
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ExternalID]; ok {
		return userRepo.ErrDuplicate
	}
	if u.ID == "" {
		r.nextID++
		u.ID = fmt.Sprintf("user-%d", r.nextID)
	}
	clone := *u
	r.users[u.ExternalID] = &clone
	return nil
}

func (r *fakeUserRepo) EnsureIndexes() error { return nil }

type fakePatientRepo struct {
	mu       sync.Mutex
	patients []*models.Patient
	nextID   int
}

func (r *fakePatientRepo) GetByUserAndName(_ context.Context, userID, name string) (*models.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.patients {
		if p.UserID == userID && p.Name == name {
			clone := *p
			return &clone, nil
		}
	}
	return nil, patientRepo.ErrNotFound
}

func (r *fakePatientRepo) ListByUser(_ context.Context, userID string) ([]models.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Patient
	for _, p := range r.patients {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePatientRepo) Create(_ context.Context, p *models.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == "" {
		r.nextID++
		p.ID = fmt.Sprintf("patient-%d", r.nextID)
	}
	clone := *p
	r.patients = append(r.patients, &clone)
	return nil
}

func (r *fakePatientRepo) EnsureIndexes() error { return nil }

type fakeDirectoryRepo struct {
	doctors   map[string]models.Doctor
	hospitals map[string]models.Hospital
	packages  map[string]models.Package
}

func newFakeDirectoryRepo() *fakeDirectoryRepo {
	return &fakeDirectoryRepo{
		doctors:   make(map[string]models.Doctor),
		hospitals: make(map[string]models.Hospital),
		packages:  make(map[string]models.Package),
	}
}

func (r *fakeDirectoryRepo) GetDoctorByID(_ context.Context, id string) (*models.Doctor, error) {
	if d, ok := r.doctors[id]; ok {
		return &d, nil
	}
	return nil, errNotFoundDirectory
}

func (r *fakeDirectoryRepo) GetHospitalByID(_ context.Context, id string) (*models.Hospital, error) {
	if h, ok := r.hospitals[id]; ok {
		return &h, nil
	}
	return nil, errNotFoundDirectory
}

func (r *fakeDirectoryRepo) GetPackageByID(_ context.Context, id string) (*models.Package, error) {
	if p, ok := r.packages[id]; ok {
		return &p, nil
	}
	return nil, errNotFoundDirectory
}

func (r *fakeDirectoryRepo) ListDoctorsByHospital(_ context.Context, hospitalID string) ([]models.Doctor, error) {
	var out []models.Doctor
	for _, d := range r.doctors {
		if d.HospitalID == hospitalID {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakeGateway struct {
	mu       sync.Mutex
	sessions map[string]*payment.Session
	nextID   int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{sessions: make(map[string]*payment.Session)}
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, p payment.CheckoutParams) (*payment.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID++
	sess := &payment.Session{
		ID:            fmt.Sprintf("cs_test_%d", g.nextID),
		URL:           fmt.Sprintf("https://checkout.example/%d", g.nextID),
		PaymentStatus: payment.StatusUnpaid,
		AmountTotal:   p.Amount,
		Currency:      p.Currency,
		Metadata:      p.Metadata,
	}
	g.sessions[sess.ID] = sess
	return sess, nil
}

func (g *fakeGateway) RetrieveCheckoutSession(_ context.Context, sessionID string) (*payment.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if sess, ok := g.sessions[sessionID]; ok {
		clone := *sess
		return &clone, nil
	}
	return nil, errors.New("no such session")
}

func (g *fakeGateway) markPaid(sessionID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sessions[sessionID].PaymentStatus = payment.StatusPaid
}

// Reuse the repo package's sentinel so errors.Is matches in the service.
var errNotFoundDirectory = directoryRepo.ErrNotFound

// newTestService assembles a service over the fakes with a pinned clock.
func newTestService(now time.Time) (*DefaultReservationService, *fakeBookingRepo, *fakeDirectoryRepo, *fakeGateway) {
	bookings := &fakeBookingRepo{}
	directory := newFakeDirectoryRepo()
	gateway := newFakeGateway()

	svc := &DefaultReservationService{
		Templates:  &fakeTemplateRepo{},
		Bookings:   bookings,
		Users:      newFakeUserRepo(),
		Patients:   &fakePatientRepo{},
		Directory:  directory,
		Gateway:    gateway,
		SuccessURL: "https://app.example/success",
		CancelURL:  "https://app.example/cancel",
		Currency:   "inr",
		SessionTTL: 30 * time.Minute,
		Now:        func() time.Time { return now },
	}
	return svc, bookings, directory, gateway
}
