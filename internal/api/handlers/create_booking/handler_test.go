package create_booking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CarBookingService/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-CarBookingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-CarBookingService/pkg/logger"
)

type fakeUseCase struct {
	got  *createBooking.Request
	resp *createBooking.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	f.got = req
	return f.resp, f.err
}

func newRequest(body string, userID int64) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	if userID > 0 {
		r = r.WithContext(middleware.WithUserID(r.Context(), userID))
	}
	return r
}

func TestHandle_Created(t *testing.T) {
	start := time.Date(2030, 1, 15, 10, 0, 0, 0, time.UTC)
	uc := &fakeUseCase{resp: &createBooking.Response{
		ID:              5,
		UserID:          1,
		CarID:           7,
		ServiceID:       3,
		StartAt:         start,
		EndAt:           start.Add(time.Hour),
		DurationMinutes: 60,
		Status:          "pending",
		CreatedAt:       start.Add(-24 * time.Hour),
	}}
	h := NewHandler(uc, logger.NewNop())

	rec := httptest.NewRecorder()
	h.Handle(rec, newRequest(`{"carId":7,"serviceId":3,"startAt":"2030-01-15T10:00:00Z","durationMinutes":60}`, 1))

	require.Equal(t, http.StatusCreated, rec.Code)

	var body BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(5), body.ID)
	assert.Equal(t, "2030-01-15T11:00:00Z", body.EndAt)
	assert.Equal(t, "pending", body.Status)

	require.NotNil(t, uc.got)
	assert.Equal(t, int64(1), uc.got.RequesterID)
	assert.Equal(t, int64(7), uc.got.CarID)
	assert.True(t, start.Equal(uc.got.StartAt))
	require.NotNil(t, uc.got.DurationMinutes)
	assert.Equal(t, 60, *uc.got.DurationMinutes)
}

func TestHandle_RequestErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		userID     int64
		wantStatus int
	}{
		{name: "no identity", body: `{}`, userID: 0, wantStatus: http.StatusUnauthorized},
		{name: "broken json", body: `{"carId":`, userID: 1, wantStatus: http.StatusBadRequest},
		{name: "bad startAt", body: `{"carId":7,"serviceId":3,"startAt":"15.01.2030 10:00"}`, userID: 1, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUseCase{}
			h := NewHandler(uc, logger.NewNop())

			rec := httptest.NewRecorder()
			h.Handle(rec, newRequest(tt.body, tt.userID))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Nil(t, uc.got)
		})
	}
}

func TestHandle_UseCaseErrors(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{createBooking.ErrInvalidInput, http.StatusBadRequest},
		{createBooking.ErrInvalidTime, http.StatusUnprocessableEntity},
		{createBooking.ErrAccessDenied, http.StatusForbidden},
		{createBooking.ErrCarNotFound, http.StatusNotFound},
		{createBooking.ErrServiceNotFound, http.StatusNotFound},
		{createBooking.ErrConflict, http.StatusConflict},
		{fmt.Errorf("%w: database is down", createBooking.ErrInternal), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			h := NewHandler(&fakeUseCase{err: tt.err}, logger.NewNop())

			rec := httptest.NewRecorder()
			h.Handle(rec, newRequest(`{"carId":7,"serviceId":3,"startAt":"2030-01-15T10:00:00Z"}`, 1))

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body struct {
				Code int `json:"code"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body.Code)
		})
	}
}
