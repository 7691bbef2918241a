package booking

import (
	"reflect"
	"testing"

	"coolserve/models"
)

func makeSlots(date string, n int) []models.TimeSlot {
	slots := make([]models.TimeSlot, 0, n)
	for i := 0; i < n; i++ {
		slots = append(slots, models.TimeSlot{
			ID:        date + "-slot-" + string(rune('a'+i)),
			Date:      date,
			Start:     540 + i*120,
			End:       660 + i*120,
			Available: true,
		})
	}
	return slots
}

func TestFilterSlots(t *testing.T) {
	t.Parallel()

	cfg := FilterConfig{ServiceRadiusKm: 15, AMCServiceRadiusKm: 25}
	date := "2026-03-14"

	t.Run("excludes slot colliding with booking in same region", func(t *testing.T) {
		slots := makeSlots(date, 8)
		existing := []models.BookedWindow{
			{Date: date, Start: slots[2].Start, Region: "north"},
		}
		distance := 6.2

		got := FilterSlots(slots, existing, "north", &distance, false, cfg)
		if len(got) != 7 {
			t.Fatalf("expected 7 slots, got %d", len(got))
		}
		for _, s := range got {
			if s.ID == slots[2].ID {
				t.Fatalf("colliding slot %s should have been excluded", s.ID)
			}
		}
	})

	t.Run("keeps slot colliding only in a different region", func(t *testing.T) {
		slots := makeSlots(date, 4)
		existing := []models.BookedWindow{
			{Date: date, Start: slots[1].Start, Region: "outer"},
		}
		distance := 3.0

		got := FilterSlots(slots, existing, "north", &distance, false, cfg)
		if len(got) != 4 {
			t.Fatalf("expected 4 slots, got %d", len(got))
		}
	})

	t.Run("excludes everything beyond the service radius", func(t *testing.T) {
		slots := makeSlots(date, 5)
		distance := 16.0

		got := FilterSlots(slots, nil, "outer", &distance, false, cfg)
		if len(got) != 0 {
			t.Fatalf("expected no slots beyond radius, got %d", len(got))
		}
	})

	t.Run("AMC customers get the larger radius", func(t *testing.T) {
		slots := makeSlots(date, 5)
		distance := 16.0

		got := FilterSlots(slots, nil, "outer", &distance, true, cfg)
		if len(got) != 5 {
			t.Fatalf("expected 5 slots within AMC radius, got %d", len(got))
		}
	})

	t.Run("nil distance applies only the collision rule", func(t *testing.T) {
		slots := makeSlots(date, 3)
		existing := []models.BookedWindow{
			{Date: date, Start: slots[0].Start, Region: "north"},
		}

		got := FilterSlots(slots, existing, "north", nil, false, cfg)
		if len(got) != 2 {
			t.Fatalf("expected 2 slots, got %d", len(got))
		}
	})

	t.Run("skips blocked and unavailable slots", func(t *testing.T) {
		slots := makeSlots(date, 3)
		slots[0].Blocked = true
		slots[1].Available = false

		got := FilterSlots(slots, nil, "north", nil, false, cfg)
		if len(got) != 1 || got[0].ID != slots[2].ID {
			t.Fatalf("expected only slot %s, got %+v", slots[2].ID, got)
		}
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		got := FilterSlots(nil, nil, "north", nil, false, cfg)
		if len(got) != 0 {
			t.Fatalf("expected empty result, got %d slots", len(got))
		}
	})

	t.Run("pure and order preserving", func(t *testing.T) {
		slots := makeSlots(date, 6)
		existing := []models.BookedWindow{
			{Date: date, Start: slots[3].Start, Region: "central"},
		}
		distance := 7.0
		before := make([]models.TimeSlot, len(slots))
		copy(before, slots)

		first := FilterSlots(slots, existing, "central", &distance, false, cfg)
		second := FilterSlots(slots, existing, "central", &distance, false, cfg)

		if !reflect.DeepEqual(first, second) {
			t.Fatalf("identical inputs produced different outputs")
		}
		if !reflect.DeepEqual(slots, before) {
			t.Fatalf("input slice was mutated")
		}
		for i := 1; i < len(first); i++ {
			if first[i-1].Start > first[i].Start {
				t.Fatalf("output order not preserved")
			}
		}
	})
}
