package reschedule_booking

import "time"

// Request модель запроса на перенос бронирования
type Request struct {
	RequesterID     int64     // ID аутентифицированного пользователя
	BookingID       int64     // ID бронирования
	StartAt         time.Time // Новое время начала
	DurationMinutes *int      // Новая длительность (опционально, по умолчанию текущая)
}

// Response модель ответа с перенесённым бронированием
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
