package models

import "time"

// BookingStatus is the closed set of booking lifecycle states.
type BookingStatus string

const (
	BookingDraft     BookingStatus = "draft"
	BookingRequested BookingStatus = "requested"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// bookingTransitions is the allowed-transition table. Statuses move forward
// only; there is no downgrade out of confirmed except explicit cancellation.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingDraft:     {BookingRequested, BookingCancelled},
	BookingRequested: {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
	BookingCompleted: {},
	BookingCancelled: {},
}

// Valid reports whether s is one of the known statuses.
func (s BookingStatus) Valid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

// CanTransition reports whether a booking in status s may move to next.
func (s BookingStatus) CanTransition(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Active reports whether the booking still occupies its slot.
func (s BookingStatus) Active() bool {
	return s == BookingConfirmed || s == BookingCompleted
}

// Booking is a confirmed, paid consultation record. PaymentSessionID is unique
// across all bookings and is the idempotency anchor for the commit pipeline.
type Booking struct {
	ID               string        `bson:"id" json:"id"`
	UserID           string        `bson:"user_id" json:"userId"`
	PatientID        string        `bson:"patient_id" json:"patientId"`
	HospitalID       string        `bson:"hospital_id" json:"hospitalId"`
	DoctorID         string        `bson:"doctor_id,omitempty" json:"doctorId,omitempty"`
	PackageID        string        `bson:"package_id,omitempty" json:"packageId,omitempty"`
	TemplateID       string        `bson:"template_id,omitempty" json:"templateId,omitempty"`
	Date             string        `bson:"date,omitempty" json:"date,omitempty"`   // "YYYY-MM-DD" of the chosen occurrence
	Start            int           `bson:"start,omitempty" json:"start,omitempty"` // Occurrence start (minutes from midnight)
	Mode             string        `bson:"mode,omitempty" json:"mode,omitempty"`
	PaymentSessionID string        `bson:"payment_session_id" json:"paymentSessionId"`
	Status           BookingStatus `bson:"status" json:"status"`
	AmountPaid       int64         `bson:"amount_paid" json:"amountPaid"` // Minor currency units, copied from the settled session
	Currency         string        `bson:"currency" json:"currency"`
	CreatedAt        time.Time     `bson:"created_at" json:"createdAt"`
}
