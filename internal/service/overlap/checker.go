package overlap

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-CarBookingService/internal/domain"
)

// Checker определяет, пересекается ли интервал с активными бронированиями автомобиля
//
// Репозиторий может вернуть лишние строки (префильтр по окну), поэтому каждая строка
// повторно проверяется через domain.Interval.Overlaps и Status.IsActive.
// Внутри транзакции из контекста прочитанные строки блокируются репозиторием.
type Checker struct {
	bookingRepo BookingRepository
}

// NewChecker создает новый экземпляр проверки пересечений
func NewChecker(bookingRepo BookingRepository) *Checker {
	return &Checker{bookingRepo: bookingRepo}
}

// HasConflict возвращает true, если хотя бы одно активное бронирование автомобиля
// пересекается с candidate. excludeBookingID исключает само изменяемое бронирование.
func (c *Checker) HasConflict(ctx context.Context, carID int64, candidate domain.Interval, excludeBookingID *int64) (bool, error) {
	conflicts, err := c.Conflicts(ctx, carID, candidate, excludeBookingID)
	if err != nil {
		return false, err
	}
	return len(conflicts) > 0, nil
}

// Conflicts возвращает активные бронирования автомобиля, пересекающиеся с candidate
func (c *Checker) Conflicts(ctx context.Context, carID int64, candidate domain.Interval, excludeBookingID *int64) ([]*domain.Booking, error) {
	if candidate.IsEmpty() {
		return nil, ErrEmptyInterval
	}

	bookings, err := c.bookingRepo.GetActiveByCar(ctx, carID, candidate, excludeBookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: load active bookings of car=%d: %w", ErrInternal, carID, err)
	}

	conflicts := make([]*domain.Booking, 0)
	for _, booking := range bookings {
		if booking.CarID != carID || !booking.IsActive() {
			continue
		}
		if excludeBookingID != nil && booking.ID == *excludeBookingID {
			continue
		}
		if booking.Interval().Overlaps(candidate) {
			conflicts = append(conflicts, booking)
		}
	}

	return conflicts, nil
}
