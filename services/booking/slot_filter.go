package booking

import (
	"strconv"

	"coolserve/models"
)

// FilterConfig carries the maximum service radius per customer class.
// AMC customers may be served further out than regular ones.
type FilterConfig struct {
	ServiceRadiusKm    float64
	AMCServiceRadiusKm float64
}

// MaxRadius returns the applicable radius for the customer class.
func (c FilterConfig) MaxRadius(amc bool) float64 {
	if amc {
		return c.AMCServiceRadiusKm
	}
	return c.ServiceRadiusKm
}

// FilterSlots removes candidate slots that conflict with existing
// bookings or fall outside the allowed travel radius. Pure: inputs are
// never mutated and order is preserved.
//
// A slot is excluded when an existing booking occupies the exact same
// date and start time in the same region (a technician cannot cover two
// visits in one travel window), or when the resolved distance exceeds
// the class radius. A nil distance means "unknown" and excludes nothing
// beyond the collision rule.
func FilterSlots(slots []models.TimeSlot, existing []models.BookedWindow, region string, distance *float64, amc bool, cfg FilterConfig) []models.TimeSlot {
	out := make([]models.TimeSlot, 0, len(slots))
	if len(slots) == 0 {
		return out
	}

	if distance != nil && *distance > cfg.MaxRadius(amc) {
		return out
	}

	taken := make(map[string]struct{}, len(existing))
	for _, w := range existing {
		if w.Region == region {
			taken[windowKey(w.Date, w.Start)] = struct{}{}
		}
	}

	for _, s := range slots {
		if s.Blocked || !s.Available {
			continue
		}
		if _, clash := taken[windowKey(s.Date, s.Start)]; clash {
			continue
		}
		out = append(out, s)
	}
	return out
}

func windowKey(date string, start int) string {
	return date + "#" + strconv.Itoa(start)
}
