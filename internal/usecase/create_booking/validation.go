package create_booking

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-CarBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.RequesterID <= 0 {
		return fmt.Errorf("%w: requesterID must be positive", ErrInvalidInput)
	}

	if req.CarID <= 0 {
		return fmt.Errorf("%w: carId must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceId must be positive", ErrInvalidInput)
	}

	if req.StartAt.IsZero() {
		return fmt.Errorf("%w: startAt is required", ErrInvalidInput)
	}

	if req.DurationMinutes != nil {
		if err := validateDuration(*req.DurationMinutes); err != nil {
			return err
		}
	}

	if req.Note != nil && utf8.RuneCountInString(*req.Note) > domain.MaxNoteLength {
		return fmt.Errorf("%w: note must be at most %d characters", ErrInvalidInput, domain.MaxNoteLength)
	}

	return nil
}

func validateDuration(minutes int) error {
	if minutes <= 0 || minutes > domain.MaxDurationMinutes {
		return fmt.Errorf("%w: durationMinutes must be in (0, %d]", ErrInvalidInput, domain.MaxDurationMinutes)
	}
	return nil
}

// validateStartInFuture проверяет, что startAt строго позже now
func validateStartInFuture(startAt, now time.Time) error {
	if !startAt.After(now) {
		return fmt.Errorf("%w: startAt=%s, now=%s", ErrInvalidTime, startAt.Format(time.RFC3339), now.Format(time.RFC3339))
	}
	return nil
}
