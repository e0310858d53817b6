package models

// ReminderPayload is the asynq task payload for booking notifications:
// the immediate confirmation and the pre-appointment reminder.
type ReminderPayload struct {
	BookingID string `json:"bookingId"`
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	FireDate  string `json:"fireDate,omitempty"` // RFC3339, empty for immediate sends
}
