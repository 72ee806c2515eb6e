package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CarBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-CarBookingService/internal/infra/storage/booking"
	carRepo "github.com/m04kA/SMC-CarBookingService/internal/infra/storage/car"
	serviceRepo "github.com/m04kA/SMC-CarBookingService/internal/infra/storage/service"
	"github.com/m04kA/SMC-CarBookingService/pkg/keylock"
	"github.com/m04kA/SMC-CarBookingService/pkg/metrics"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo    BookingRepository
	carRepo        CarRepository
	serviceRepo    ServiceRepository
	overlapChecker OverlapChecker
	locker         Locker
	txManager      TransactionManager
	recorder       AdmissionRecorder
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
// recorder может быть nil
func NewUseCase(
	bookingRepo BookingRepository,
	carRepo CarRepository,
	serviceRepo ServiceRepository,
	overlapChecker OverlapChecker,
	locker Locker,
	txManager TransactionManager,
	recorder AdmissionRecorder,
	logger Logger,
) *UseCase {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &UseCase{
		bookingRepo:    bookingRepo,
		carRepo:        carRepo,
		serviceRepo:    serviceRepo,
		overlapChecker: overlapChecker,
		locker:         locker,
		txManager:      txManager,
		recorder:       recorder,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// Execute выполняет use case создания бронирования
// Проверки идут строго по порядку, первая неудачная прерывает выполнение.
// До вставки ничего не записывается.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	resp, err := uc.execute(ctx, req)
	uc.recorder.RecordAdmission(admissionOutcome(err))
	return resp, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, car=%d, service=%d, startAt=%s",
		req.RequesterID, req.CarID, req.ServiceID, req.StartAt.Format(time.RFC3339))

	// 0. Структурная валидация
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 1. Время начала строго в будущем
	if err := validateStartInFuture(req.StartAt, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("CreateBooking: %v", err)
		return nil, err
	}

	// 2. Автомобиль существует и принадлежит пользователю
	car, err := uc.carRepo.GetByID(ctx, req.CarID)
	if err != nil {
		if errors.Is(err, carRepo.ErrCarNotFound) {
			uc.logger.Warn("CreateBooking: car id=%d not found", req.CarID)
			return nil, ErrCarNotFound
		}
		uc.logger.Error("CreateBooking: failed to get car id=%d: %v", req.CarID, err)
		return nil, fmt.Errorf("%w: failed to get car: %v", ErrInternal, err)
	}

	if !domain.CanAccess(req.RequesterID, car.OwnerID) {
		uc.logger.Warn("CreateBooking: user=%d is not the owner of car id=%d", req.RequesterID, req.CarID)
		return nil, ErrAccessDenied
	}

	// 3. Услуга существует
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 4. Длительность по умолчанию из услуги
	// Явная длительность уже проверена на шаге 0, некорректная базовая длительность - ошибка каталога
	duration := service.BaseDurationMinutes
	if req.DurationMinutes != nil {
		duration = *req.DurationMinutes
	} else if err := validateDuration(duration); err != nil {
		uc.logger.Error("CreateBooking: service id=%d has unusable base duration %d", service.ID, duration)
		return nil, fmt.Errorf("%w: service id=%d has invalid base duration %d", ErrInternal, service.ID, duration)
	}

	candidate := domain.NewInterval(req.StartAt, duration)

	// 5. Блокировка автомобиля: проверка и вставка не пересекаются с другими запросами
	unlock, err := uc.locker.Lock(ctx, keylock.CarKey(req.CarID))
	if err != nil {
		if errors.Is(err, keylock.ErrLockTimeout) {
			uc.logger.Warn("CreateBooking: car id=%d is locked by another request: %v", req.CarID, err)
			return nil, fmt.Errorf("%w: schedule of the car is being changed, retry later", ErrConflict)
		}
		uc.logger.Error("CreateBooking: failed to lock car id=%d: %v", req.CarID, err)
		return nil, fmt.Errorf("%w: failed to lock car: %v", ErrInternal, err)
	}
	defer unlock()

	var result *domain.Booking

	// 5-6. Проверка пересечений и вставка в одной сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		conflicts, err := uc.overlapChecker.Conflicts(txCtx, req.CarID, candidate, nil)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			uc.logger.Warn("CreateBooking: car id=%d has %d conflicting bookings, first id=%d",
				req.CarID, len(conflicts), conflicts[0].ID)
			return ErrConflict
		}

		created, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
			UserID:          req.RequesterID,
			CarID:           req.CarID,
			ServiceID:       req.ServiceID,
			StartAt:         req.StartAt,
			DurationMinutes: duration,
			Status:          domain.StatusPending,
			Note:            req.Note,
		})
		if err != nil {
			return err
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, uc.translateTxError(req, err)
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	return toResponse(result), nil
}

// translateTxError приводит ошибку транзакции к ошибкам use case
// Отказ хранилища из-за конкурентной записи считается конфликтом
func (uc *UseCase) translateTxError(req *Request, err error) error {
	switch {
	case errors.Is(err, ErrConflict):
		return err
	case bookingRepo.IsConflict(err):
		uc.logger.Warn("CreateBooking: storage rejected booking for car id=%d: %v", req.CarID, err)
		return fmt.Errorf("%w: rejected by storage", ErrConflict)
	default:
		uc.logger.Error("CreateBooking: failed to create booking for car id=%d: %v", req.CarID, err)
		return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
	}
}

func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:              b.ID,
		UserID:          b.UserID,
		CarID:           b.CarID,
		ServiceID:       b.ServiceID,
		StartAt:         b.StartAt,
		EndAt:           b.EndAt(),
		DurationMinutes: b.DurationMinutes,
		Status:          b.Status.String(),
		Note:            b.Note,
		CreatedAt:       b.CreatedAt,
	}
}

func admissionOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.AdmissionAccepted
	case errors.Is(err, domain.ErrConflict):
		return metrics.AdmissionConflict
	case errors.Is(err, domain.ErrInternal):
		return metrics.AdmissionFailed
	default:
		return metrics.AdmissionRejected
	}
}
