package catalog

import (
	"fmt"

	"github.com/m04kA/SMC-CarBookingService/internal/domain"
)

var (
	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = fmt.Errorf("catalog: %w", domain.ErrInternal)
)
