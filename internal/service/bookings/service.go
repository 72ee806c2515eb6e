package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CarBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-CarBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-CarBookingService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
// Пользователь видит и изменяет только свои бронирования; чужие считаются ненайденными
type Service struct {
	bookingRepo BookingRepository
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// GetByID получает бронирование пользователя по ID
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.getOwned(ctx, "GetByID", id, userID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d", req.UserID)

	filter := domain.UserBookingsFilter{UserID: req.UserID}
	if req.Status != nil {
		status, err := domain.ParseBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, filter)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование пользователя
// Отменить можно только активное бронирование
func (s *Service) Cancel(ctx context.Context, bookingID int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, userID)

	var result *domain.Booking
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.getOwned(txCtx, "Cancel", bookingID, userID)
		if err != nil {
			return err
		}

		if !booking.CanBeCancelled() {
			s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
			return ErrCannotCancel
		}

		if err := s.bookingRepo.UpdateStatus(txCtx, bookingID, domain.StatusCanceled); err != nil {
			s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		booking.Status = domain.StatusCanceled
		result = booking
		return nil
	})
	if err != nil {
		return nil, wrapTxError(err)
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d", bookingID)
	return models.FromDomainBooking(result), nil
}

// UpdateStatus переводит бронирование в новый статус по правилам workflow
// Используется администратором, владелец бронирования не проверяется
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: booking id=%d -> %s", bookingID, req.Status)

	next, err := domain.ParseBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s", req.Status)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	var result *domain.Booking
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByID(txCtx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				s.logger.Warn("UpdateStatus: booking id=%d not found", bookingID)
				return ErrBookingNotFound
			}
			s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}

		if booking.Status.IsTerminal() {
			s.logger.Warn("UpdateStatus: booking id=%d is already in final status %s", bookingID, booking.Status)
			return fmt.Errorf("%w: booking is already %s", ErrInvalidTransition, booking.Status)
		}

		if !booking.Status.CanTransitionTo(next) {
			s.logger.Warn("UpdateStatus: transition %s -> %s is not allowed for booking id=%d",
				booking.Status, next, bookingID)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, next)
		}

		if err := s.bookingRepo.UpdateStatus(txCtx, bookingID, next); err != nil {
			s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}

		booking.Status = next
		result = booking
		return nil
	})
	if err != nil {
		return nil, wrapTxError(err)
	}

	s.logger.Info("UpdateStatus: booking id=%d is now %s", bookingID, next)
	return models.FromDomainBooking(result), nil
}

// getOwned получает бронирование, только если оно принадлежит пользователю
func (s *Service) getOwned(ctx context.Context, op string, id, userID int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByIDAndUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found for user=%d", op, id, userID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// wrapTxError оставляет ошибки сервиса как есть, остальные (BEGIN/COMMIT) считает внутренними
func wrapTxError(err error) error {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrConflict) ||
		errors.Is(err, domain.ErrValidation) || errors.Is(err, ErrInternal) {
		return err
	}
	return fmt.Errorf("%w: transaction error: %v", ErrInternal, err)
}
