package create_booking

import (
	"time"

	createBooking "github.com/m04kA/SMC-CarBookingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	CarID           int64   `json:"carId"`
	ServiceID       int64   `json:"serviceId"`
	StartAt         string  `json:"startAt"` // RFC3339, "2030-01-15T10:00:00Z"
	DurationMinutes *int    `json:"durationMinutes,omitempty"`
	Note            *string `json:"note,omitempty"`
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
func (r *CreateBookingRequest) ToUseCaseRequest(requesterID int64) (*createBooking.Request, error) {
	startAt, err := time.Parse(time.RFC3339, r.StartAt)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		RequesterID:     requesterID,
		CarID:           r.CarID,
		ServiceID:       r.ServiceID,
		StartAt:         startAt,
		DurationMinutes: r.DurationMinutes,
		Note:            r.Note,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
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
