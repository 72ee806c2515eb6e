package reschedule_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CarBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CarBookingService/internal/api/middleware"
	rescheduleBooking "github.com/m04kA/SMC-CarBookingService/internal/usecase/reschedule_booking"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStartAt     = "некорректный формат времени начала, ожидается RFC3339"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidInput       = "некорректная длительность бронирования"
	msgStartInPast        = "время начала должно быть в будущем"
	msgNotFound           = "бронирование не найдено"
	msgNotActive          = "перенести можно только активное бронирование"
	msgSlotNotAvailable   = "у автомобиля уже есть бронирование в выбранное время"
)

type Handler struct {
	useCase RescheduleBookingUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req RescheduleBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID, bookingID)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id} - Invalid startAt: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStartAt)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, rescheduleBooking.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id} - Invalid input: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, rescheduleBooking.ErrInvalidTime):
			h.logger.Warn("PATCH /bookings/{id} - Start time not in future: booking_id=%d, start_at=%s",
				bookingID, req.StartAt)
			handlers.RespondUnprocessable(w, msgStartInPast)

		case errors.Is(err, rescheduleBooking.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id} - Booking not found: booking_id=%d, user_id=%d", bookingID, userID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, rescheduleBooking.ErrNotActive):
			h.logger.Warn("PATCH /bookings/{id} - Booking not active: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgNotActive)

		case errors.Is(err, rescheduleBooking.ErrConflict):
			h.logger.Warn("PATCH /bookings/{id} - Slot not available: booking_id=%d, start_at=%s",
				bookingID, req.StartAt)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		default:
			h.logger.Error("PATCH /bookings/{id} - Failed to reschedule booking: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id} - Booking rescheduled successfully: booking_id=%d, start_at=%s",
		bookingID, req.StartAt)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
