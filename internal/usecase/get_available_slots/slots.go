package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-CarBookingService/internal/domain"
	"github.com/m04kA/SMC-CarBookingService/pkg/types"
)

// businessWindow возвращает рабочее окно [start, end) календарного дня date
func businessWindow(date time.Time, start, end types.TimeString, loc *time.Location) domain.Interval {
	return domain.Interval{
		Start: start.On(date, loc),
		End:   end.On(date, loc),
	}
}

// generateSlots делит окно на слоты фиксированного размера, начиная с начала окна
// Слот, не помещающийся в окно целиком, не создаётся
func generateSlots(window domain.Interval, slotMinutes int) []domain.Slot {
	slots := make([]domain.Slot, 0)

	for start := window.Start; ; start = start.Add(time.Duration(slotMinutes) * time.Minute) {
		slot := domain.NewSlot(start, slotMinutes)
		if slot.End.After(window.End) {
			break
		}
		slots = append(slots, slot)
	}

	return slots
}

// freeSlots возвращает начала слотов, не пересекающихся ни с одним активным бронированием
// Бронирования из префильтра повторно проверяются, поэтому лишние строки не влияют на результат
func freeSlots(slots []domain.Slot, bookings []*domain.Booking) []time.Time {
	busy := make([]domain.Interval, 0, len(bookings))
	for _, booking := range bookings {
		if booking.IsActive() {
			busy = append(busy, booking.Interval())
		}
	}

	free := make([]time.Time, 0, len(slots))
	for _, slot := range slots {
		if slot.IsFree(busy) {
			free = append(free, slot.Start)
		}
	}

	return free
}
