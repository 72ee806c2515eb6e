package domain

import (
	"fmt"
	"time"
)

// BookingStatus represents the status of a booking.
// Values are persisted as SMALLINT, so the numbering must not change.
type BookingStatus int

const (
	StatusPending   BookingStatus = 1
	StatusConfirmed BookingStatus = 2
	StatusCanceled  BookingStatus = 3
	StatusDone      BookingStatus = 4
	StatusNoShow    BookingStatus = 5
)

var statusNames = map[BookingStatus]string{
	StatusPending:   "pending",
	StatusConfirmed: "confirmed",
	StatusCanceled:  "canceled",
	StatusDone:      "done",
	StatusNoShow:    "no_show",
}

// transitions is the booking workflow: Pending -> {Confirmed, Canceled},
// Confirmed -> {Done, NoShow, Canceled}; the rest are terminal.
var transitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCanceled},
	StatusConfirmed: {StatusDone, StatusNoShow, StatusCanceled},
}

// String returns the API name of the status
func (s BookingStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(s))
}

// IsValid reports whether s is one of the five known statuses
func (s BookingStatus) IsValid() bool {
	_, ok := statusNames[s]
	return ok
}

// IsActive returns true for statuses that occupy the car's schedule.
// Only Pending and Confirmed bookings take part in overlap checks and availability.
func (s BookingStatus) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

// IsTerminal returns true if no further transitions are allowed
func (s BookingStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// CanTransitionTo reports whether the workflow allows moving from s to next
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ParseBookingStatus converts an API name into a BookingStatus
func ParseBookingStatus(name string) (BookingStatus, error) {
	for status, n := range statusNames {
		if n == name {
			return status, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown booking status %q", ErrValidation, name)
}

// ActiveStatuses statuses counted by overlap checks and slot availability
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

// Booking represents a service booking for a car
type Booking struct {
	ID              int64
	UserID          int64
	CarID           int64
	ServiceID       int64
	StartAt         time.Time
	DurationMinutes int
	Status          BookingStatus
	Note            *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Interval returns the half-open time range [StartAt, EndAt) occupied by the booking
func (b *Booking) Interval() Interval {
	return NewInterval(b.StartAt, b.DurationMinutes)
}

// EndAt returns StartAt + DurationMinutes
func (b *Booking) EndAt() time.Time {
	return b.Interval().End
}

// IsActive returns true if the booking is in an active state
func (b *Booking) IsActive() bool {
	return b.Status.IsActive()
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status.CanTransitionTo(StatusCanceled)
}

// CanBeRescheduled returns true if the booking time can still be changed
func (b *Booking) CanBeRescheduled() bool {
	return b.Status.IsActive()
}

// UserBookingsFilter фильтр для получения бронирований пользователя
type UserBookingsFilter struct {
	UserID int64          // Обязательный параметр
	Status *BookingStatus // Фильтр по статусу (опционально)
}
