package get_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CarBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-CarBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-CarBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-CarBookingService/pkg/logger"
)

type fakeService struct {
	gotID     int64
	gotUserID int64
	resp      *models.BookingResponse
	err       error
}

func (f *fakeService) GetByID(_ context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	f.gotID, f.gotUserID = id, userID
	return f.resp, f.err
}

func newRequest(bookingID string, userID int64) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/"+bookingID, nil)
	r = mux.SetURLVars(r, map[string]string{"bookingId": bookingID})
	if userID > 0 {
		r = r.WithContext(middleware.WithUserID(r.Context(), userID))
	}
	return r
}

func TestHandle_OK(t *testing.T) {
	svc := &fakeService{resp: &models.BookingResponse{ID: 9, UserID: 1, Status: "confirmed"}}
	h := NewHandler(svc, logger.NewNop())

	rec := httptest.NewRecorder()
	h.Handle(rec, newRequest("9", 1))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(9), svc.gotID)
	assert.Equal(t, int64(1), svc.gotUserID)

	var body models.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "confirmed", body.Status)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		bookingID  string
		userID     int64
		err        error
		wantStatus int
	}{
		{name: "bad id", bookingID: "abc", userID: 1, wantStatus: http.StatusBadRequest},
		{name: "no identity", bookingID: "9", userID: 0, wantStatus: http.StatusUnauthorized},
		{name: "not found", bookingID: "9", userID: 1, err: bookings.ErrBookingNotFound, wantStatus: http.StatusNotFound},
		{name: "internal", bookingID: "9", userID: 1, err: bookings.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeService{err: tt.err}, logger.NewNop())

			rec := httptest.NewRecorder()
			h.Handle(rec, newRequest(tt.bookingID, tt.userID))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
