package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medibook/models"
)

func tpl(id string, day, start, end, duration int) models.AvailabilityTemplate {
	return models.AvailabilityTemplate{
		ID:           id,
		DoctorID:     "doc-1",
		HospitalID:   "hosp-1",
		Mode:         models.ModePhysical,
		DayOfWeek:    day,
		Start:        start,
		End:          end,
		SlotDuration: duration,
		Active:       true,
	}
}

func TestGenerateOccurrencesSlicesWindowIntoFullSteps(t *testing.T) {
	// Monday 2024-06-10, 08:00-10:00 in 30-minute steps.
	templates := []models.AvailabilityTemplate{tpl("t1", 1, 8*60, 10*60, 30)}
	start := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	occs := GenerateOccurrences(templates, start, 1, "doc-1")
	require.Len(t, occs, 4)

	wantStarts := []int{480, 510, 540, 570}
	for i, occ := range occs {
		assert.Equal(t, "2024-06-10", occ.Date)
		assert.Equal(t, wantStarts[i], occ.Start)
		assert.Equal(t, wantStarts[i]+30, occ.End)
	}
}

func TestGenerateOccurrencesDropsTrailingRemainder(t *testing.T) {
	// 08:00-09:15 in 30-minute steps: the final 15 minutes never become a
	// short slot.
	templates := []models.AvailabilityTemplate{tpl("t1", 1, 8*60, 9*60+15, 30)}
	start := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	occs := GenerateOccurrences(templates, start, 1, "doc-1")
	require.Len(t, occs, 2)
	assert.Equal(t, 480, occs[0].Start)
	assert.Equal(t, 510, occs[0].End)
	assert.Equal(t, 510, occs[1].Start)
	assert.Equal(t, 540, occs[1].End)
}

func TestGenerateOccurrencesMatchesWeekdayOnly(t *testing.T) {
	// Monday template over a Sunday-anchored 8-day range: exactly one Monday
	// inside, so occurrences appear on that date alone.
	templates := []models.AvailabilityTemplate{tpl("t1", 1, 9*60, 11*60, 60)}
	sunday := time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC)
	require.Equal(t, time.Sunday, sunday.Weekday())

	occs := GenerateOccurrences(templates, sunday, 8, "doc-1")
	require.Len(t, occs, 2)
	for _, occ := range occs {
		assert.Equal(t, "2024-06-10", occ.Date)
		assert.Equal(t, models.ModePhysical, occ.Mode)
		assert.False(t, occ.Taken)
	}
	assert.Equal(t, 540, occs[0].Start)
	assert.Equal(t, 600, occs[1].Start)
}

func TestGenerateOccurrencesSkipsInactiveAndForeignDoctors(t *testing.T) {
	inactive := tpl("t1", 1, 8*60, 10*60, 30)
	inactive.Active = false
	foreign := tpl("t2", 1, 8*60, 10*60, 30)
	foreign.DoctorID = "doc-other"

	start := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	occs := GenerateOccurrences([]models.AvailabilityTemplate{inactive, foreign}, start, 7, "doc-1")
	assert.Empty(t, occs)
}

func TestGenerateOccurrencesOrdersOverlappingWindowsByStart(t *testing.T) {
	// Two overlapping Monday windows (one online, one physical): slots must
	// come out interleaved by start time, not as one block per template.
	online := tpl("t-online", 1, 8*60, 10*60, 30)
	online.Mode = models.ModeOnline
	physical := tpl("t-physical", 1, 9*60, 11*60, 30)

	start := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	occs := GenerateOccurrences([]models.AvailabilityTemplate{physical, online}, start, 1, "doc-1")
	require.Len(t, occs, 8)

	for i := 1; i < len(occs); i++ {
		require.LessOrEqual(t, occs[i-1].Start, occs[i].Start,
			"occurrence %d starts before its predecessor", i)
	}

	// Equal starts break ties on template id.
	assert.Equal(t, []int{480, 510, 540, 540, 570, 570, 600, 630}, starts(occs))
	assert.Equal(t, "t-online", occs[2].TemplateID)
	assert.Equal(t, "t-physical", occs[3].TemplateID)
}

func starts(occs []models.Occurrence) []int {
	out := make([]int, len(occs))
	for i, occ := range occs {
		out[i] = occ.Start
	}
	return out
}

func TestGenerateOccurrencesIsDeterministic(t *testing.T) {
	templates := []models.AvailabilityTemplate{
		tpl("t2", 1, 14*60, 16*60, 30),
		tpl("t1", 1, 8*60, 10*60, 20),
		tpl("t3", 3, 9*60, 12*60, 45),
	}
	start := time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC)

	first := GenerateOccurrences(templates, start, 14, "doc-1")
	second := GenerateOccurrences(templates, start, 14, "doc-1")
	assert.Equal(t, first, second)
}

func TestGenerateOccurrencesEmptyTemplates(t *testing.T) {
	start := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	occs := GenerateOccurrences(nil, start, 7, "doc-1")
	assert.Empty(t, occs)
}
