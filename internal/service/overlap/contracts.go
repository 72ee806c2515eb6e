package overlap

import (
	"context"

	"github.com/m04kA/SMC-CarBookingService/internal/domain"
)

// BookingRepository источник активных бронирований автомобиля
type BookingRepository interface {
	GetActiveByCar(ctx context.Context, carID int64, window domain.Interval, excludeBookingID *int64) ([]*domain.Booking, error)
}
