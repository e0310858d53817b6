package booking

import (
	"sort"
	"time"

	"medibook/models"
)

const dateLayout = "2006-01-02"

// GenerateOccurrences expands recurring weekly templates into concrete dated
// occurrences for every date in [rangeStart, rangeStart+days). Pure and
// deterministic: same inputs, same output list.
//
// Inactive templates and templates for other doctors (when doctorID is set)
// contribute nothing. Each matching window [Start, End) is sliced into
// consecutive SlotDuration steps; a trailing remainder shorter than one full
// step is dropped, not emitted as a short slot.
func GenerateOccurrences(templates []models.AvailabilityTemplate, rangeStart time.Time, days int, doctorID string) []models.Occurrence {
	eligible := make([]models.AvailabilityTemplate, 0, len(templates))
	for _, tpl := range templates {
		if !tpl.Active {
			continue
		}
		if doctorID != "" && tpl.DoctorID != doctorID {
			continue
		}
		if tpl.Start >= tpl.End || tpl.SlotDuration <= 0 {
			continue
		}
		eligible = append(eligible, tpl)
	}

	dayZero := time.Date(rangeStart.Year(), rangeStart.Month(), rangeStart.Day(), 0, 0, 0, 0, rangeStart.Location())

	var occurrences []models.Occurrence
	for i := 0; i < days; i++ {
		date := dayZero.AddDate(0, 0, i)
		weekday := int(date.Weekday())
		dateStr := date.Format(dateLayout)

		for _, tpl := range eligible {
			if tpl.DayOfWeek != weekday {
				continue
			}
			for start := tpl.Start; start+tpl.SlotDuration <= tpl.End; start += tpl.SlotDuration {
				occurrences = append(occurrences, models.Occurrence{
					TemplateID: tpl.ID,
					DoctorID:   tpl.DoctorID,
					HospitalID: tpl.HospitalID,
					Date:       dateStr,
					Start:      start,
					End:        start + tpl.SlotDuration,
					Mode:       tpl.Mode,
				})
			}
		}
	}

	// Sort the emitted slots, not the templates: overlapping same-day windows
	// must interleave by start time, never appear as per-template blocks.
	sort.SliceStable(occurrences, func(i, j int) bool {
		if occurrences[i].Date != occurrences[j].Date {
			return occurrences[i].Date < occurrences[j].Date
		}
		if occurrences[i].Start != occurrences[j].Start {
			return occurrences[i].Start < occurrences[j].Start
		}
		return occurrences[i].TemplateID < occurrences[j].TemplateID
	})
	return occurrences
}
