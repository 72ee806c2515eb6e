package domain

import "time"

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval builds the interval occupied by something starting at start and
// lasting durationMinutes.
func NewInterval(start time.Time, durationMinutes int) Interval {
	return Interval{
		Start: start,
		End:   start.Add(time.Duration(durationMinutes) * time.Minute),
	}
}

// Overlaps reports whether the two intervals share at least one instant.
// Intervals that only touch (one ends exactly when the other starts) do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// IsEmpty returns true if the interval contains no instants
func (i Interval) IsEmpty() bool {
	return !i.Start.Before(i.End)
}
