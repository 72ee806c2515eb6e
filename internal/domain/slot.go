package domain

import "time"

// Slot represents a candidate booking window used by the availability calculator
type Slot struct {
	Interval
}

// NewSlot creates a slot starting at start and lasting durationMinutes
func NewSlot(start time.Time, durationMinutes int) Slot {
	return Slot{Interval: NewInterval(start, durationMinutes)}
}

// IsFree returns true if the slot overlaps none of the given booking intervals
func (s Slot) IsFree(busy []Interval) bool {
	for _, b := range busy {
		if s.Overlaps(b) {
			return false
		}
	}
	return true
}
