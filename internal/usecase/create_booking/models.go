package create_booking

import "time"

// Request модель запроса на создание бронирования
type Request struct {
	RequesterID     int64     // ID аутентифицированного пользователя
	CarID           int64     // ID автомобиля
	ServiceID       int64     // ID услуги
	StartAt         time.Time // Время начала
	DurationMinutes *int      // Длительность (опционально, по умолчанию из услуги)
	Note            *string   // Комментарий (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              int64
	UserID          int64
	CarID           int64
	ServiceID       int64
	StartAt         time.Time
	EndAt           time.Time
	DurationMinutes int
	Status          string
	Note            *string
	CreatedAt       time.Time
}
