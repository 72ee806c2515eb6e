package reschedule_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CarBookingService/internal/domain"
	"github.com/m04kA/SMC-CarBookingService/pkg/keylock"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByIDAndUser(ctx context.Context, id, userID int64) (*domain.Booking, error)
	UpdateSchedule(ctx context.Context, id int64, startAt time.Time, durationMinutes int) error
}

// OverlapChecker ищет активные бронирования автомобиля, пересекающиеся с интервалом
type OverlapChecker interface {
	HasConflict(ctx context.Context, carID int64, candidate domain.Interval, excludeBookingID *int64) (bool, error)
}

// Locker сериализует проверку и запись бронирований одного автомобиля
type Locker interface {
	Lock(ctx context.Context, key string) (keylock.Unlock, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// AdmissionRecorder учитывает исход каждой попытки переноса
type AdmissionRecorder interface {
	RecordAdmission(outcome string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

type nopRecorder struct{}

func (nopRecorder) RecordAdmission(string) {}
