package models

// Occurrence is one concrete, dated, bookable time interval derived from an
// availability template. Occurrences are computed per request and never
// persisted; identity is (TemplateID, Date, Start).
type Occurrence struct {
	TemplateID string `json:"templateId"`
	DoctorID   string `json:"doctorId"`
	HospitalID string `json:"hospitalId"`
	Date       string `json:"date"`  // "YYYY-MM-DD"
	Start      int    `json:"start"` // Minutes from midnight
	End        int    `json:"end"`
	Mode       string `json:"mode"`
	Taken      bool   `json:"taken"`
	IsMine     bool   `json:"isMine"` // Set only when the occupying booking belongs to the caller
}

// DaySchedule groups occurrences by date and then by consultation mode.
type DaySchedule map[string]map[string][]Occurrence
