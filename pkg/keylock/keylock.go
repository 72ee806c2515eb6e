package keylock

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrLockTimeout возвращается, когда блокировку не удалось получить за отведённое время
	ErrLockTimeout = errors.New("keylock: lock acquisition timed out")

	// ErrLockBackend возвращается при ошибке хранилища блокировок
	ErrLockBackend = errors.New("keylock: backend error")
)

// Unlock освобождает блокировку, повторный вызов ничего не делает
type Unlock func()

// Locker сериализует критические секции по строковому ключу
// Разные ключи не блокируют друг друга
type Locker interface {
	Lock(ctx context.Context, key string) (Unlock, error)
}

// CarKey ключ блокировки для проверки и записи бронирований автомобиля
func CarKey(carID int64) string {
	return fmt.Sprintf("booking:car:%d", carID)
}

func withAcquireTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func timeoutError(key string, err error) error {
	return fmt.Errorf("%w: key=%s: %v", ErrLockTimeout, key, err)
}
