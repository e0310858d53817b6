package models

// Consultation modes supported by an availability template.
const (
	ModeOnline   = "online"
	ModePhysical = "physical"
)

// AvailabilityTemplate is a recurring weekly availability rule owned by a
// doctor/hospital pair. Templates are authored by the operator workflow and
// read-only to the booking core; occurrences are derived from them on demand.
type AvailabilityTemplate struct {
	ID           string `bson:"id" json:"id"`
	DoctorID     string `bson:"doctor_id" json:"doctorId"`
	HospitalID   string `bson:"hospital_id" json:"hospitalId"`
	Mode         string `bson:"mode" json:"mode"`                          // "online" or "physical"
	DayOfWeek    int    `bson:"day_of_week" json:"dayOfWeek"`              // 0 = Sunday .. 6 = Saturday
	Start        int    `bson:"start" json:"start"`                        // Window start (minutes from midnight)
	End          int    `bson:"end" json:"end"`                            // Window end (minutes from midnight), exclusive
	SlotDuration int    `bson:"slot_duration" json:"slotDuration"`         // Length of each bookable step in minutes
	Active       bool   `bson:"active" json:"active"`                      // Inactive templates contribute no occurrences
}
