package booking

import (
	"fmt"

	"coolserve/models"
)

// Visit windows offered each day, minutes from midnight. Slots are
// generated once per day and treated as immutable afterwards.
var dayWindows = []struct {
	Start int
	End   int
}{
	{540, 660},  // 09:00–11:00
	{660, 780},  // 11:00–13:00
	{780, 900},  // 13:00–15:00
	{900, 1020}, // 15:00–17:00
	{1020, 1140}, // 17:00–19:00
}

// BuildDaySlots generates the candidate visit slots for a date
// ("2006-01-02").
func BuildDaySlots(date string) []models.TimeSlot {
	slots := make([]models.TimeSlot, 0, len(dayWindows))
	for i, w := range dayWindows {
		slots = append(slots, models.TimeSlot{
			ID:        fmt.Sprintf("%s-%02d", date, i),
			Date:      date,
			Start:     w.Start,
			End:       w.End,
			Available: true,
		})
	}
	return slots
}
