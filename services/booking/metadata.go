package booking

import (
	"fmt"
	"strconv"
)

// Metadata keys of the checkout session contract. The flat string map is the
// sole channel between session creation and commit; it must reconstruct the
// booking without re-asking the caller.
const (
	metaExternalID  = "external_id"
	metaPatientName = "patient_name"
	metaPatientAge  = "patient_age"
	metaGender      = "gender"
	metaPhone       = "phone"
	metaEmail       = "email"
	metaHospitalID  = "hospital_id"
	metaItemType    = "item_type"
	metaItemID      = "item_id"
	metaTemplateID  = "template_id"
	metaDate        = "date"
	metaStart       = "start"
	metaMode        = "mode"
)

// Item types carried in session metadata.
const (
	ItemDoctor  = "doctor"
	ItemPackage = "package"
)

// SessionMetadata is the typed form of the checkout session's metadata map.
type SessionMetadata struct {
	ExternalID  string
	PatientName string
	PatientAge  int
	Gender      string
	Phone       string
	Email       string
	HospitalID  string
	ItemType    string // "doctor" or "package"
	ItemID      string

	// Chosen occurrence, present only when the buyer picked a slot.
	TemplateID string
	Date       string
	Start      int
	Mode       string
}

// HasOccurrence reports whether the metadata carries a chosen occurrence.
func (m *SessionMetadata) HasOccurrence() bool {
	return m.TemplateID != ""
}

// Encode validates the contract and flattens it into the processor's string
// map. Called once, right before the session is opened.
func (m *SessionMetadata) Encode() (map[string]string, error) {
	if m.ExternalID == "" {
		return nil, fmt.Errorf("metadata missing %s", metaExternalID)
	}
	if m.PatientName == "" || m.Phone == "" || m.Email == "" || m.HospitalID == "" {
		return nil, fmt.Errorf("metadata missing required patient or hospital fields")
	}
	if m.ItemType != ItemDoctor && m.ItemType != ItemPackage {
		return nil, fmt.Errorf("metadata has unknown item type %q", m.ItemType)
	}
	if m.ItemID == "" {
		return nil, fmt.Errorf("metadata missing %s", metaItemID)
	}

	out := map[string]string{
		metaExternalID:  m.ExternalID,
		metaPatientName: m.PatientName,
		metaPatientAge:  strconv.Itoa(m.PatientAge),
		metaPhone:       m.Phone,
		metaEmail:       m.Email,
		metaHospitalID:  m.HospitalID,
		metaItemType:    m.ItemType,
		metaItemID:      m.ItemID,
	}
	if m.Gender != "" {
		out[metaGender] = m.Gender
	}
	if m.HasOccurrence() {
		out[metaTemplateID] = m.TemplateID
		out[metaDate] = m.Date
		out[metaStart] = strconv.Itoa(m.Start)
		out[metaMode] = m.Mode
	}
	return out, nil
}

// DecodeSessionMetadata parses the raw map back into typed form, failing
// closed on any absent required key. Commit maps these failures to
// MissingIdentityError rather than defaulting silently.
func DecodeSessionMetadata(raw map[string]string) (*SessionMetadata, error) {
	if raw == nil {
		return nil, fmt.Errorf("session carries no metadata")
	}

	required := []string{metaExternalID, metaPatientName, metaPatientAge, metaPhone, metaEmail, metaHospitalID, metaItemType, metaItemID}
	for _, key := range required {
		if raw[key] == "" {
			return nil, fmt.Errorf("session metadata missing required key %q", key)
		}
	}

	age, err := strconv.Atoi(raw[metaPatientAge])
	if err != nil {
		return nil, fmt.Errorf("session metadata has malformed %s: %w", metaPatientAge, err)
	}
	if raw[metaItemType] != ItemDoctor && raw[metaItemType] != ItemPackage {
		return nil, fmt.Errorf("session metadata has unknown item type %q", raw[metaItemType])
	}

	m := &SessionMetadata{
		ExternalID:  raw[metaExternalID],
		PatientName: raw[metaPatientName],
		PatientAge:  age,
		Gender:      raw[metaGender],
		Phone:       raw[metaPhone],
		Email:       raw[metaEmail],
		HospitalID:  raw[metaHospitalID],
		ItemType:    raw[metaItemType],
		ItemID:      raw[metaItemID],
	}

	if tplID := raw[metaTemplateID]; tplID != "" {
		start, err := strconv.Atoi(raw[metaStart])
		if err != nil {
			return nil, fmt.Errorf("session metadata has malformed %s: %w", metaStart, err)
		}
		if raw[metaDate] == "" {
			return nil, fmt.Errorf("session metadata has occurrence without %s", metaDate)
		}
		m.TemplateID = tplID
		m.Date = raw[metaDate]
		m.Start = start
		m.Mode = raw[metaMode]
	}
	return m, nil
}
