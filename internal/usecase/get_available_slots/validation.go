package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-CarBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceId is required", ErrInvalidInput)
	}

	if req.Date == "" {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.SlotMinutes != nil {
		if *req.SlotMinutes < domain.MinSlotDurationMinutes || *req.SlotMinutes > domain.MaxSlotDurationMinutes {
			return fmt.Errorf("%w: slotMinutes must be in [%d, %d]", ErrInvalidInput,
				domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
		}
	}

	if req.CarID != nil && *req.CarID <= 0 {
		return fmt.Errorf("%w: carId must be positive", ErrInvalidInput)
	}

	return nil
}

// parseDate разбирает дату YYYY-MM-DD как календарный день в зоне loc
func parseDate(date string, loc *time.Location) (time.Time, error) {
	parsed, err := time.ParseInLocation(domain.DateFormat, date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be in format YYYY-MM-DD", ErrInvalidInput)
	}
	return parsed, nil
}
