package booking

import (
	"time"

	"medibook/models"
)

// GraceWindow is how far into the past a booking's scheduled time may lie and
// still count as occupying its slot. Anything older is history and must not
// block the same weekday/time in later weeks.
const GraceWindow = 30 * time.Minute

type slotKey struct {
	doctorID string
	date     string
	start    int
}

// BuildAvailabilityIndex merges generated occurrences with committed bookings
// and classifies each occurrence as free or taken. Taken occurrences owned by
// the caller are additionally flagged IsMine; anonymous callers always see
// IsMine=false.
//
// The index is advisory, recomputed per request for UI steering only. The
// store's uniqueness constraints, not this read, prevent double-booking.
func BuildAvailabilityIndex(occurrences []models.Occurrence, bookings []models.Booking, callerUserID string, now time.Time) models.DaySchedule {
	cutoff := now.Add(-GraceWindow)

	occupied := make(map[slotKey]string, len(bookings))
	for _, b := range bookings {
		if b.Status != models.BookingConfirmed || b.Date == "" {
			continue
		}
		day, err := time.ParseInLocation(dateLayout, b.Date, now.Location())
		if err != nil {
			continue
		}
		scheduled := day.Add(time.Duration(b.Start) * time.Minute)
		if scheduled.Before(cutoff) {
			continue
		}
		occupied[slotKey{b.DoctorID, b.Date, b.Start}] = b.UserID
	}

	schedule := models.DaySchedule{}
	for _, occ := range occurrences {
		if owner, ok := occupied[slotKey{occ.DoctorID, occ.Date, occ.Start}]; ok {
			occ.Taken = true
			occ.IsMine = callerUserID != "" && owner == callerUserID
		}
		byMode, ok := schedule[occ.Date]
		if !ok {
			byMode = make(map[string][]models.Occurrence)
			schedule[occ.Date] = byMode
		}
		byMode[occ.Mode] = append(byMode[occ.Mode], occ)
	}
	return schedule
}
