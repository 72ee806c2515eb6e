package bookings

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CarBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-CarBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-CarBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-CarBookingService/pkg/logger"
	"github.com/m04kA/SMC-CarBookingService/pkg/ptr"
)

type fakeRepository struct {
	bookings  map[int64]*domain.Booking
	gotFilter domain.UserBookingsFilter
	listErr   error
	updateErr error
}

func (f *fakeRepository) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeRepository) GetByIDAndUser(ctx context.Context, id, userID int64) (*domain.Booking, error) {
	b, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return b, nil
}

func (f *fakeRepository) GetByUserID(_ context.Context, filter domain.UserBookingsFilter) ([]*domain.Booking, error) {
	f.gotFilter = filter
	if f.listErr != nil {
		return nil, f.listErr
	}
	result := make([]*domain.Booking, 0)
	for _, b := range f.bookings {
		if b.UserID == filter.UserID && (filter.Status == nil || b.Status == *filter.Status) {
			result = append(result, b)
		}
	}
	return result, nil
}

func (f *fakeRepository) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	b, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = status
	return nil
}

type passTx struct{}

func (passTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newService() (*Service, *fakeRepository) {
	repo := &fakeRepository{bookings: map[int64]*domain.Booking{
		1: {ID: 1, UserID: 7, CarID: 3, DurationMinutes: 30, Status: domain.StatusPending},
		2: {ID: 2, UserID: 7, CarID: 3, DurationMinutes: 30, Status: domain.StatusDone},
		3: {ID: 3, UserID: 8, CarID: 4, DurationMinutes: 30, Status: domain.StatusConfirmed},
	}}
	return NewService(repo, passTx{}, logger.NewNop()), repo
}

func TestService_GetByID_ScopedToOwner(t *testing.T) {
	svc, _ := newService()

	resp, err := svc.GetByID(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)

	_, err = svc.GetByID(context.Background(), 3, 7)
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_GetUserBookings(t *testing.T) {
	svc, repo := newService()

	resp, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{UserID: 7})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 2)

	resp, err = svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{UserID: 7, Status: ptr.Ptr("done")})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, int64(2), resp.Bookings[0].ID)
	require.NotNil(t, repo.gotFilter.Status)
	assert.Equal(t, domain.StatusDone, *repo.gotFilter.Status)

	_, err = svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{UserID: 7, Status: ptr.Ptr("archived")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	repo.listErr = errors.New("timeout")
	_, err = svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{UserID: 7})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestService_Cancel(t *testing.T) {
	svc, repo := newService()

	resp, err := svc.Cancel(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Equal(t, "canceled", resp.Status)
	assert.Equal(t, domain.StatusCanceled, repo.bookings[1].Status)

	_, err = svc.Cancel(context.Background(), 1, 7)
	assert.ErrorIs(t, err, ErrCannotCancel)

	_, err = svc.Cancel(context.Background(), 2, 7)
	assert.ErrorIs(t, err, ErrCannotCancel)

	_, err = svc.Cancel(context.Background(), 3, 7)
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.Equal(t, domain.StatusConfirmed, repo.bookings[3].Status)
}

func TestService_UpdateStatus(t *testing.T) {
	svc, repo := newService()

	resp, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "confirmed"})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)

	resp, err = svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "done"})
	require.NoError(t, err)
	assert.Equal(t, "done", resp.Status)

	_, err = svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "pending"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Contains(t, err.Error(), "already done")
	assert.Equal(t, domain.StatusDone, repo.bookings[1].Status)

	_, err = svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "unknown"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.UpdateStatus(context.Background(), 99, &models.UpdateStatusRequest{Status: "confirmed"})
	assert.ErrorIs(t, err, ErrBookingNotFound)

	repo.updateErr = errors.New("connection reset")
	_, err = svc.UpdateStatus(context.Background(), 3, &models.UpdateStatusRequest{Status: "no_show"})
	assert.ErrorIs(t, err, ErrInternal)
}
