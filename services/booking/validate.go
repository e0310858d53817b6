package booking

import (
	"regexp"
	"strings"
	"time"

	"medibook/models"
)

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	namePattern  = regexp.MustCompile(`^[\p{L}][\p{L} .'-]{1,79}$`)
	digitsOnly   = regexp.MustCompile(`\D`)
)

// validateReservation checks every caller-supplied field before any money
// moves. The client never supplies a price, so nothing price-shaped is read
// here.
func (s *DefaultReservationService) validateReservation(req *models.ReservationRequest) error {
	if (req.DoctorID == "") == (req.PackageID == "") {
		return NewValidationError("request must reference exactly one of doctor or package")
	}
	if req.HospitalID == "" {
		return NewValidationError("hospital is required")
	}

	req.PatientName = strings.TrimSpace(req.PatientName)
	if !namePattern.MatchString(req.PatientName) {
		return NewValidationError("patient name must be 2-80 letters, spaces, dots, hyphens or apostrophes")
	}

	req.Email = strings.TrimSpace(req.Email)
	if len(req.Email) > 254 || !emailPattern.MatchString(req.Email) {
		return NewValidationError("email address is malformed")
	}

	phone, err := normalizePhone(req.Phone)
	if err != nil {
		return err
	}
	req.Phone = phone

	if req.PatientAge <= 0 || req.PatientAge > 120 {
		return NewValidationError("patient age must be between 1 and 120")
	}

	if occ := req.Occurrence; occ != nil {
		if occ.TemplateID == "" {
			return NewValidationError("chosen occurrence is missing its template")
		}
		day, err := time.ParseInLocation(dateLayout, occ.Date, s.now().Location())
		if err != nil {
			return NewValidationError("occurrence date must be formatted YYYY-MM-DD")
		}
		now := s.now()
		startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		if day.Before(startOfToday) {
			return NewValidationError("requested date is in the past")
		}
		if occ.Start < 0 || occ.Start >= 24*60 {
			return NewValidationError("occurrence start is out of range")
		}
		if occ.Mode != "" && occ.Mode != models.ModeOnline && occ.Mode != models.ModePhysical {
			return NewValidationError("unknown consultation mode %q", occ.Mode)
		}
	}
	return nil
}

// normalizePhone reduces the input to the fixed 10-digit local format,
// tolerating a leading zero or the 91 country prefix.
func normalizePhone(raw string) (string, error) {
	digits := digitsOnly.ReplaceAllString(raw, "")
	switch {
	case len(digits) == 10:
		return digits, nil
	case len(digits) == 11 && strings.HasPrefix(digits, "0"):
		return digits[1:], nil
	case len(digits) == 12 && strings.HasPrefix(digits, "91"):
		return digits[2:], nil
	default:
		return "", NewValidationError("phone number must resolve to 10 local digits")
	}
}
