package update_booking_status

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CarBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-CarBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-CarBookingService/pkg/logger"
)

type fakeService struct {
	got *models.UpdateStatusRequest
	err error
}

func (f *fakeService) UpdateStatus(_ context.Context, bookingID int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.BookingResponse{ID: bookingID, Status: req.Status}, nil
}

func newRequest(bookingID, body string) *http.Request {
	r := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/bookings/"+bookingID+"/status", strings.NewReader(body))
	return mux.SetURLVars(r, map[string]string{"bookingId": bookingID})
}

func TestHandle_OK(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(svc, logger.NewNop())

	rec := httptest.NewRecorder()
	h.Handle(rec, newRequest("5", `{"status":"done"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.got)
	assert.Equal(t, "done", svc.got.Status)
	assert.Contains(t, rec.Body.String(), `"status":"done"`)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		bookingID  string
		body       string
		err        error
		wantStatus int
	}{
		{name: "bad id", bookingID: "x", body: `{"status":"done"}`, wantStatus: http.StatusBadRequest},
		{name: "bad body", bookingID: "5", body: `{"state":"done"}`, wantStatus: http.StatusBadRequest},
		{name: "unknown status", bookingID: "5", body: `{"status":"lost"}`, err: bookings.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "not found", bookingID: "5", body: `{"status":"done"}`, err: bookings.ErrBookingNotFound, wantStatus: http.StatusNotFound},
		{
			name:       "terminal booking",
			bookingID:  "5",
			body:       `{"status":"confirmed"}`,
			err:        fmt.Errorf("%w: canceled -> confirmed", bookings.ErrInvalidTransition),
			wantStatus: http.StatusConflict,
		},
		{name: "internal", bookingID: "5", body: `{"status":"done"}`, err: bookings.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeService{err: tt.err}, logger.NewNop())

			rec := httptest.NewRecorder()
			h.Handle(rec, newRequest(tt.bookingID, tt.body))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
