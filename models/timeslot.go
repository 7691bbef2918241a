package models

// TimeSlot represents a bookable service window on a given day.
// Slots are generated once per day and never mutated; filtering always
// produces a new slice.
type TimeSlot struct {
	ID          string `json:"id"`
	Date        string `json:"date"`  // e.g., "2026-03-14"
	Start       int    `json:"start"` // minutes from midnight (e.g., 540 for 9:00 AM)
	End         int    `json:"end"`   // minutes from midnight (e.g., 660 for 11:00 AM)
	Available   bool   `json:"available"`
	Blocked     bool   `json:"blocked"`
	BlockReason string `json:"blockReason,omitempty"`
}

// BookedWindow is the minimal view of an existing booking used when
// filtering candidate slots: the travel window it occupies.
type BookedWindow struct {
	Date   string `json:"date"`
	Start  int    `json:"start"`
	Region string `json:"region"`
}
