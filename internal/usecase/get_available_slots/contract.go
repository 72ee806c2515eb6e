package get_available_slots

import (
	"context"

	"github.com/m04kA/SMC-CarBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetActiveInWindow получает активные бронирования, пересекающиеся с окном (carID == nil - все автомобили)
	GetActiveInWindow(ctx context.Context, window domain.Interval, carID *int64) ([]*domain.Booking, error)
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
