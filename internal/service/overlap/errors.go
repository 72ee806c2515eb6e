package overlap

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CarBookingService/internal/domain"
)

var (
	// ErrInternal возвращается, когда не удалось прочитать бронирования
	ErrInternal = fmt.Errorf("overlap: %w", domain.ErrInternal)

	// ErrEmptyInterval возвращается для интервала нулевой длины
	ErrEmptyInterval = errors.New("overlap: candidate interval is empty")
)
