package reschedule_booking

import (
	"time"

	rescheduleBooking "github.com/m04kA/SMC-CarBookingService/internal/usecase/reschedule_booking"
)

// RescheduleBookingRequest HTTP request model
type RescheduleBookingRequest struct {
	StartAt         string `json:"startAt"` // RFC3339
	DurationMinutes *int   `json:"durationMinutes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              int64   `json:"id"`
	UserID          int64   `json:"userId"`
	CarID           int64   `json:"carId"`
	ServiceID       int64   `json:"serviceId"`
	StartAt         string  `json:"startAt"`
	EndAt           string  `json:"endAt"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	Note            *string `json:"note,omitempty"`
	CreatedAt       string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleBookingRequest) ToUseCaseRequest(requesterID, bookingID int64) (*rescheduleBooking.Request, error) {
	startAt, err := time.Parse(time.RFC3339, r.StartAt)
	if err != nil {
		return nil, err
	}

	return &rescheduleBooking.Request{
		RequesterID:     requesterID,
		BookingID:       bookingID,
		StartAt:         startAt,
		DurationMinutes: r.DurationMinutes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:              resp.ID,
		UserID:          resp.UserID,
		CarID:           resp.CarID,
		ServiceID:       resp.ServiceID,
		StartAt:         resp.StartAt.Format(time.RFC3339),
		EndAt:           resp.EndAt.Format(time.RFC3339),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		Note:            resp.Note,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
	}
}
