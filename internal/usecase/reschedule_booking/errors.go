package reschedule_booking

import (
	"fmt"

	"github.com/m04kA/SMC-CarBookingService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("reschedule_booking: invalid input data: %w", domain.ErrValidation)

	// ErrInvalidTime возвращается, когда новое время начала не в будущем
	ErrInvalidTime = fmt.Errorf("reschedule_booking: start time must be in the future: %w", domain.ErrInvalidTime)

	// ErrBookingNotFound возвращается, когда бронирование не найдено или принадлежит другому пользователю
	ErrBookingNotFound = fmt.Errorf("reschedule_booking: booking not found: %w", domain.ErrNotFound)

	// ErrNotActive возвращается, когда бронирование уже отменено или завершено
	ErrNotActive = fmt.Errorf("reschedule_booking: only pending or confirmed booking can be rescheduled: %w", domain.ErrConflict)

	// ErrConflict возвращается, когда новое время пересекается с другим бронированием автомобиля
	ErrConflict = fmt.Errorf("reschedule_booking: car already has a booking in the selected window: %w", domain.ErrConflict)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = fmt.Errorf("reschedule_booking: %w", domain.ErrInternal)
)
