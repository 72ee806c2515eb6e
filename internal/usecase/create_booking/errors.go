package create_booking

import (
	"fmt"

	"github.com/m04kA/SMC-CarBookingService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("create_booking: invalid input data: %w", domain.ErrValidation)

	// ErrInvalidTime возвращается, когда время начала не в будущем
	ErrInvalidTime = fmt.Errorf("create_booking: start time must be in the future: %w", domain.ErrInvalidTime)

	// ErrCarNotFound возвращается, когда автомобиль не найден
	ErrCarNotFound = fmt.Errorf("create_booking: car not found: %w", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда автомобиль принадлежит другому пользователю
	ErrAccessDenied = fmt.Errorf("create_booking: can only book for own car: %w", domain.ErrForbidden)

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = fmt.Errorf("create_booking: service not found: %w", domain.ErrNotFound)

	// ErrConflict возвращается, когда у автомобиля уже есть бронирование в выбранном окне
	ErrConflict = fmt.Errorf("create_booking: car already has a booking in the selected window: %w", domain.ErrConflict)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = fmt.Errorf("create_booking: %w", domain.ErrInternal)
)
