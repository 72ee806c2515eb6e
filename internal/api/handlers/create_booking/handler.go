package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CarBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CarBookingService/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-CarBookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStartAt     = "некорректный формат времени начала, ожидается RFC3339"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidInput       = "некорректные данные бронирования"
	msgStartInPast        = "время начала должно быть в будущем"
	msgAccessDenied       = "можно бронировать только свой автомобиль"
	msgCarNotFound        = "автомобиль не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgSlotNotAvailable   = "у автомобиля уже есть бронирование в выбранное время"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Invalid startAt: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStartAt)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrConflict):
			h.logger.Warn("POST /bookings - Slot not available: user_id=%d, car_id=%d, start_at=%s",
				userID, req.CarID, req.StartAt)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createBooking.ErrInvalidTime):
			h.logger.Warn("POST /bookings - Start time not in future: user_id=%d, start_at=%s", userID, req.StartAt)
			handlers.RespondUnprocessable(w, msgStartInPast)

		case errors.Is(err, createBooking.ErrAccessDenied):
			h.logger.Warn("POST /bookings - Access denied: user_id=%d, car_id=%d", userID, req.CarID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, createBooking.ErrCarNotFound):
			h.logger.Warn("POST /bookings - Car not found: user_id=%d, car_id=%d", userID, req.CarID)
			handlers.RespondNotFound(w, msgCarNotFound)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: user_id=%d, service_id=%d", userID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, car_id=%d, error=%v",
				userID, req.CarID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%d, car_id=%d",
		result.ID, userID, req.CarID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
