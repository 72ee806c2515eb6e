package booking

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrOverlap возвращается, когда БД отклонила запись по exclusion constraint
	// (активные бронирования одного автомобиля пересекаются)
	ErrOverlap = errors.New("booking.repository: booking overlaps an active booking of the car")

	// ErrSerialization возвращается, когда БД отклонила сериализуемую транзакцию
	ErrSerialization = errors.New("booking.repository: serialization failure")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)

// Коды ошибок PostgreSQL, означающие конфликт записи
const (
	pgExclusionViolation   = pq.ErrorCode("23P01")
	pgSerializationFailure = pq.ErrorCode("40001")
)

// translateExecError превращает ошибку драйвера в ошибку репозитория
func translateExecError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pgExclusionViolation:
			return fmt.Errorf("%w: %s: %s", ErrOverlap, op, pqErr.Constraint)
		case pgSerializationFailure:
			return fmt.Errorf("%w: %s: %v", ErrSerialization, op, err)
		}
	}
	return fmt.Errorf("%w: %s: %v", ErrExecQuery, op, err)
}

// IsConflict сообщает, что запись отклонена хранилищем из-за конкурентного бронирования
// Проверяет как ошибки репозитория, так и ошибки драйвера, пришедшие из COMMIT
func IsConflict(err error) bool {
	if errors.Is(err, ErrOverlap) || errors.Is(err, ErrSerialization) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgExclusionViolation || pqErr.Code == pgSerializationFailure
	}
	return false
}
