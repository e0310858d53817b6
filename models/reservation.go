package models

// ChosenOccurrence identifies the occurrence the buyer picked, if any.
// Package purchases may omit it entirely.
type ChosenOccurrence struct {
	TemplateID string `json:"templateId"`
	Date       string `json:"date"` // "YYYY-MM-DD"
	Start      int    `json:"start"`
	Mode       string `json:"mode"`
}

// ReservationRequest is the inbound shape for opening a checkout session.
// Exactly one of DoctorID / PackageID must be set. Any price-like value a
// client might smuggle in is ignored; pricing is resolved server-side.
type ReservationRequest struct {
	DoctorID    string            `json:"doctorId,omitempty"`
	PackageID   string            `json:"packageId,omitempty"`
	HospitalID  string            `json:"hospitalId" binding:"required"`
	PatientName string            `json:"patientName" binding:"required"`
	PatientAge  int               `json:"patientAge" binding:"required"`
	Gender      string            `json:"gender,omitempty"`
	Phone       string            `json:"phone" binding:"required"`
	Email       string            `json:"email" binding:"required"`
	Occurrence  *ChosenOccurrence `json:"occurrence,omitempty"`
}

// CheckoutSession is what the caller needs to complete payment.
type CheckoutSession struct {
	SessionID  string `json:"sessionId"`
	PaymentURL string `json:"paymentUrl"`
}
