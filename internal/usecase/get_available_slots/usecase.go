package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	serviceRepo "github.com/m04kA/SMC-CarBookingService/internal/infra/storage/service"
	"github.com/m04kA/SMC-CarBookingService/pkg/ptr"
)

// UseCase use case для получения свободных слотов на день
// Только читает хранилище и не берёт блокировок: результат - снимок на момент запроса
type UseCase struct {
	bookingRepo BookingRepository
	serviceRepo ServiceRepository
	settings    Settings
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	serviceRepo ServiceRepository,
	settings Settings,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		serviceRepo: serviceRepo,
		settings:    settings,
		logger:      logger,
	}
}

// Execute выполняет use case получения свободных слотов
// Без CarID учитываются бронирования всех автомобилей
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: service=%d, date=%s, slotMinutes=%d, car=%d",
		req.ServiceID, req.Date, ptr.Value(req.SlotMinutes), ptr.Value(req.CarID))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	date, err := parseDate(req.Date, uc.settings.Location)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	slotMinutes := uc.settings.DefaultSlotMinutes
	if req.SlotMinutes != nil {
		slotMinutes = *req.SlotMinutes
	}

	// 2. Услуга существует и активна
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("GetAvailableSlots: service id=%d is inactive", req.ServiceID)
		return nil, fmt.Errorf("%w: service is inactive", ErrServiceNotFound)
	}

	// 3. Рабочее окно и слоты
	window := businessWindow(date, uc.settings.BusinessStart, uc.settings.BusinessEnd, uc.settings.Location)
	slots := generateSlots(window, slotMinutes)

	// 4. Активные бронирования, пересекающиеся с окном
	bookings, err := uc.bookingRepo.GetActiveInWindow(ctx, window, req.CarID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 5. Свободные слоты
	free := freeSlots(slots, bookings)

	uc.logger.Info("GetAvailableSlots: %d of %d slots are free for service=%d, date=%s",
		len(free), len(slots), req.ServiceID, req.Date)

	return &Response{
		Date:        req.Date,
		ServiceID:   req.ServiceID,
		SlotMinutes: slotMinutes,
		FreeSlots:   free,
	}, nil
}
