package reschedule_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CarBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-CarBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-CarBookingService/pkg/keylock"
	"github.com/m04kA/SMC-CarBookingService/pkg/metrics"
)

// UseCase use case для переноса бронирования на другое время
type UseCase struct {
	bookingRepo    BookingRepository
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
		overlapChecker: overlapChecker,
		locker:         locker,
		txManager:      txManager,
		recorder:       recorder,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// Execute выполняет use case переноса бронирования
// Бронирование само себе не мешает: оно исключается из проверки пересечений
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	resp, err := uc.execute(ctx, req)
	if err == nil {
		uc.recorder.RecordAdmission(metrics.AdmissionRescheduled)
	} else if errors.Is(err, domain.ErrConflict) {
		uc.recorder.RecordAdmission(metrics.AdmissionConflict)
	}
	return resp, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleBooking: user=%d, booking=%d, startAt=%s",
		req.RequesterID, req.BookingID, req.StartAt.Format(time.RFC3339))

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleBooking: validation failed: %v", err)
		return nil, err
	}

	if err := validateStartInFuture(req.StartAt, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("RescheduleBooking: %v", err)
		return nil, err
	}

	// Автомобиль бронирования нужен до блокировки, поэтому читаем дважды: здесь и в транзакции
	current, err := uc.getOwned(ctx, req)
	if err != nil {
		return nil, err
	}

	unlock, err := uc.locker.Lock(ctx, keylock.CarKey(current.CarID))
	if err != nil {
		if errors.Is(err, keylock.ErrLockTimeout) {
			uc.logger.Warn("RescheduleBooking: car id=%d is locked by another request: %v", current.CarID, err)
			return nil, fmt.Errorf("%w: schedule of the car is being changed, retry later", ErrConflict)
		}
		uc.logger.Error("RescheduleBooking: failed to lock car id=%d: %v", current.CarID, err)
		return nil, fmt.Errorf("%w: failed to lock car: %v", ErrInternal, err)
	}
	defer unlock()

	var result *domain.Booking

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := uc.getOwned(txCtx, req)
		if err != nil {
			return err
		}

		if !booking.CanBeRescheduled() {
			uc.logger.Warn("RescheduleBooking: booking id=%d has status=%s", booking.ID, booking.Status)
			return ErrNotActive
		}

		duration := booking.DurationMinutes
		if req.DurationMinutes != nil {
			duration = *req.DurationMinutes
		}
		candidate := domain.NewInterval(req.StartAt, duration)

		conflict, err := uc.overlapChecker.HasConflict(txCtx, booking.CarID, candidate, &booking.ID)
		if err != nil {
			return err
		}
		if conflict {
			uc.logger.Warn("RescheduleBooking: new window of booking id=%d overlaps car id=%d bookings", booking.ID, booking.CarID)
			return ErrConflict
		}

		if err := uc.bookingRepo.UpdateSchedule(txCtx, booking.ID, req.StartAt, duration); err != nil {
			return err
		}

		booking.StartAt = req.StartAt
		booking.DurationMinutes = duration
		result = booking
		return nil
	})

	if err != nil {
		return nil, uc.translateTxError(req, err)
	}

	uc.logger.Info("RescheduleBooking: booking id=%d moved to %s", result.ID, result.StartAt.Format(time.RFC3339))

	return &Response{
		ID:              result.ID,
		UserID:          result.UserID,
		CarID:           result.CarID,
		ServiceID:       result.ServiceID,
		StartAt:         result.StartAt,
		EndAt:           result.EndAt(),
		DurationMinutes: result.DurationMinutes,
		Status:          result.Status.String(),
		Note:            result.Note,
		CreatedAt:       result.CreatedAt,
	}, nil
}

// getOwned возвращает бронирование пользователя; чужое бронирование считается ненайденным
func (uc *UseCase) getOwned(ctx context.Context, req *Request) (*domain.Booking, error) {
	booking, err := uc.bookingRepo.GetByIDAndUser(ctx, req.BookingID, req.RequesterID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("RescheduleBooking: booking id=%d not found for user=%d", req.BookingID, req.RequesterID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("RescheduleBooking: failed to get booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}
	return booking, nil
}

func (uc *UseCase) translateTxError(req *Request, err error) error {
	switch {
	case errors.Is(err, ErrConflict), errors.Is(err, ErrNotActive), errors.Is(err, ErrBookingNotFound), errors.Is(err, ErrInternal):
		return err
	case bookingRepo.IsConflict(err):
		uc.logger.Warn("RescheduleBooking: storage rejected booking id=%d: %v", req.BookingID, err)
		return fmt.Errorf("%w: rejected by storage", ErrConflict)
	default:
		uc.logger.Error("RescheduleBooking: failed to reschedule booking id=%d: %v", req.BookingID, err)
		return fmt.Errorf("%w: failed to reschedule booking: %v", ErrInternal, err)
	}
}
