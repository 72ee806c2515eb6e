package overlap

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CarBookingService/internal/domain"
	"github.com/m04kA/SMC-CarBookingService/pkg/ptr"
)

// fakeRepository возвращает все бронирования без префильтра,
// чтобы проверка в коде была единственным источником решения
type fakeRepository struct {
	bookings []*domain.Booking
	err      error
}

func (f *fakeRepository) GetActiveByCar(_ context.Context, _ int64, _ domain.Interval, _ *int64) ([]*domain.Booking, error) {
	return f.bookings, f.err
}

func at(hour, minute int) time.Time {
	return time.Date(2030, 1, 15, hour, minute, 0, 0, time.UTC)
}

func booking(id, carID int64, start time.Time, minutes int, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{ID: id, CarID: carID, StartAt: start, DurationMinutes: minutes, Status: status}
}

func TestChecker_HasConflict(t *testing.T) {
	repo := &fakeRepository{bookings: []*domain.Booking{
		booking(1, 1, at(10, 0), 45, domain.StatusConfirmed),
		booking(2, 1, at(12, 0), 60, domain.StatusCanceled),
		booking(3, 2, at(14, 0), 60, domain.StatusPending),
		booking(4, 1, at(16, 0), 60, domain.StatusPending),
	}}
	checker := NewChecker(repo)

	tests := []struct {
		name      string
		candidate domain.Interval
		exclude   *int64
		want      bool
	}{
		{"adjacent after confirmed", domain.NewInterval(at(10, 45), 30), nil, false},
		{"adjacent before confirmed", domain.NewInterval(at(9, 30), 30), nil, false},
		{"overlaps confirmed", domain.NewInterval(at(10, 30), 30), nil, true},
		{"canceled booking ignored", domain.NewInterval(at(12, 0), 60), nil, false},
		{"other car ignored", domain.NewInterval(at(14, 0), 60), nil, false},
		{"overlaps pending", domain.NewInterval(at(16, 30), 60), nil, true},
		{"excluded booking ignored", domain.NewInterval(at(16, 30), 60), ptr.Ptr(int64(4)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := checker.HasConflict(context.Background(), 1, tt.candidate, tt.exclude)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChecker_Conflicts(t *testing.T) {
	repo := &fakeRepository{bookings: []*domain.Booking{
		booking(1, 1, at(9, 0), 60, domain.StatusConfirmed),
		booking(2, 1, at(10, 0), 60, domain.StatusPending),
		booking(3, 1, at(11, 0), 60, domain.StatusPending),
	}}

	conflicts, err := NewChecker(repo).Conflicts(context.Background(), 1, domain.NewInterval(at(9, 30), 90), nil)
	require.NoError(t, err)
	require.Len(t, conflicts, 2)
	assert.Equal(t, int64(1), conflicts[0].ID)
	assert.Equal(t, int64(2), conflicts[1].ID)
}

func TestChecker_Errors(t *testing.T) {
	checker := NewChecker(&fakeRepository{err: errors.New("connection refused")})

	_, err := checker.HasConflict(context.Background(), 1, domain.NewInterval(at(9, 0), 30), nil)
	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, domain.ErrInternal)

	_, err = checker.HasConflict(context.Background(), 1, domain.NewInterval(at(9, 0), 0), nil)
	assert.ErrorIs(t, err, ErrEmptyInterval)
}
