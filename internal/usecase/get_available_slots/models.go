package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-CarBookingService/pkg/types"
)

// Settings рабочее окно и размер слота по умолчанию
type Settings struct {
	Location           *time.Location   // Часовой пояс, в котором задан рабочий день
	BusinessStart      types.TimeString // Начало рабочего дня, например "09:00"
	BusinessEnd        types.TimeString // Конец рабочего дня, например "18:00"
	DefaultSlotMinutes int              // Размер слота, если не указан в запросе
}

// Request модель запроса на получение свободных слотов
type Request struct {
	ServiceID   int64  // ID услуги
	Date        string // Дата в формате YYYY-MM-DD
	SlotMinutes *int   // Размер слота (опционально)
	CarID       *int64 // Учитывать только бронирования автомобиля (опционально)
}

// Response модель ответа со свободными слотами
type Response struct {
	Date        string      // Дата в формате YYYY-MM-DD
	ServiceID   int64       // ID услуги
	SlotMinutes int         // Использованный размер слота
	FreeSlots   []time.Time // Начала свободных слотов в хронологическом порядке
}
