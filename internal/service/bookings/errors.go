package bookings

import (
	"fmt"

	"github.com/m04kA/SMC-CarBookingService/internal/domain"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено или недоступно пользователю
	ErrBookingNotFound = fmt.Errorf("booking not found: %w", domain.ErrNotFound)

	// ErrCannotCancel возвращается, когда бронирование не может быть отменено
	ErrCannotCancel = fmt.Errorf("booking cannot be cancelled: %w", domain.ErrConflict)

	// ErrInvalidTransition возвращается, когда переход статуса не разрешён
	ErrInvalidTransition = fmt.Errorf("booking status transition is not allowed: %w", domain.ErrConflict)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("invalid input data: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = fmt.Errorf("service: %w", domain.ErrInternal)
)
