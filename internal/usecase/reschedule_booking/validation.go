package reschedule_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-CarBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.RequesterID <= 0 {
		return fmt.Errorf("%w: requesterID must be positive", ErrInvalidInput)
	}

	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingId must be positive", ErrInvalidInput)
	}

	if req.StartAt.IsZero() {
		return fmt.Errorf("%w: startAt is required", ErrInvalidInput)
	}

	if req.DurationMinutes != nil {
		if *req.DurationMinutes <= 0 || *req.DurationMinutes > domain.MaxDurationMinutes {
			return fmt.Errorf("%w: durationMinutes must be in (0, %d]", ErrInvalidInput, domain.MaxDurationMinutes)
		}
	}

	return nil
}

// validateStartInFuture проверяет, что startAt строго позже now
func validateStartInFuture(startAt, now time.Time) error {
	if !startAt.After(now) {
		return fmt.Errorf("%w: startAt=%s", ErrInvalidTime, startAt.Format(time.RFC3339))
	}
	return nil
}
