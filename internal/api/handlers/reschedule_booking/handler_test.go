package reschedule_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CarBookingService/internal/api/middleware"
	rescheduleBooking "github.com/m04kA/SMC-CarBookingService/internal/usecase/reschedule_booking"
	"github.com/m04kA/SMC-CarBookingService/pkg/logger"
)

type fakeUseCase struct {
	got *rescheduleBooking.Request
	err error
}

func (f *fakeUseCase) Execute(_ context.Context, req *rescheduleBooking.Request) (*rescheduleBooking.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &rescheduleBooking.Response{
		ID:              req.BookingID,
		UserID:          req.RequesterID,
		StartAt:         req.StartAt,
		EndAt:           req.StartAt.Add(30 * time.Minute),
		DurationMinutes: 30,
		Status:          "pending",
	}, nil
}

func newRequest(bookingID, body string, userID int64) *http.Request {
	r := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/"+bookingID, strings.NewReader(body))
	r = mux.SetURLVars(r, map[string]string{"bookingId": bookingID})
	if userID > 0 {
		r = r.WithContext(middleware.WithUserID(r.Context(), userID))
	}
	return r
}

func TestHandle_OK(t *testing.T) {
	uc := &fakeUseCase{}
	h := NewHandler(uc, logger.NewNop())

	rec := httptest.NewRecorder()
	h.Handle(rec, newRequest("8", `{"startAt":"2030-01-15T14:00:00+03:00"}`, 2))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.got)
	assert.Equal(t, int64(8), uc.got.BookingID)
	assert.Equal(t, int64(2), uc.got.RequesterID)
	assert.Nil(t, uc.got.DurationMinutes)
	assert.True(t, time.Date(2030, 1, 15, 11, 0, 0, 0, time.UTC).Equal(uc.got.StartAt))

	var body BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(8), body.ID)
	assert.Equal(t, 30, body.DurationMinutes)
}

func TestHandle_Errors(t *testing.T) {
	const validBody = `{"startAt":"2030-01-15T14:00:00Z","durationMinutes":45}`

	tests := []struct {
		name       string
		bookingID  string
		body       string
		userID     int64
		err        error
		wantStatus int
	}{
		{name: "bad id", bookingID: "x", body: validBody, userID: 2, wantStatus: http.StatusBadRequest},
		{name: "no identity", bookingID: "8", body: validBody, wantStatus: http.StatusUnauthorized},
		{name: "bad body", bookingID: "8", body: `[]`, userID: 2, wantStatus: http.StatusBadRequest},
		{name: "bad startAt", bookingID: "8", body: `{"startAt":"tomorrow"}`, userID: 2, wantStatus: http.StatusBadRequest},
		{name: "invalid duration", bookingID: "8", body: validBody, userID: 2, err: rescheduleBooking.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "in past", bookingID: "8", body: validBody, userID: 2, err: rescheduleBooking.ErrInvalidTime, wantStatus: http.StatusUnprocessableEntity},
		{name: "not found", bookingID: "8", body: validBody, userID: 2, err: rescheduleBooking.ErrBookingNotFound, wantStatus: http.StatusNotFound},
		{name: "not active", bookingID: "8", body: validBody, userID: 2, err: rescheduleBooking.ErrNotActive, wantStatus: http.StatusConflict},
		{name: "overlap", bookingID: "8", body: validBody, userID: 2, err: rescheduleBooking.ErrConflict, wantStatus: http.StatusConflict},
		{name: "internal", bookingID: "8", body: validBody, userID: 2, err: rescheduleBooking.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeUseCase{err: tt.err}, logger.NewNop())

			rec := httptest.NewRecorder()
			h.Handle(rec, newRequest(tt.bookingID, tt.body, tt.userID))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
