package create_booking

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CarBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-CarBookingService/internal/infra/storage/booking"
	carRepo "github.com/m04kA/SMC-CarBookingService/internal/infra/storage/car"
	serviceRepo "github.com/m04kA/SMC-CarBookingService/internal/infra/storage/service"
	"github.com/m04kA/SMC-CarBookingService/internal/service/overlap"
	"github.com/m04kA/SMC-CarBookingService/pkg/keylock"
	"github.com/m04kA/SMC-CarBookingService/pkg/logger"
	"github.com/m04kA/SMC-CarBookingService/pkg/metrics"
	"github.com/m04kA/SMC-CarBookingService/pkg/ptr"
)

const (
	ownerID    int64 = 1
	strangerID int64 = 2
	carID      int64 = 10
	serviceID  int64 = 20
)

var now = time.Date(2030, 1, 14, 12, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return time.Date(2030, 1, 15, hour, minute, 0, 0, time.UTC)
}

// memoryStore хранилище бронирований в памяти
type memoryStore struct {
	mu        sync.Mutex
	bookings  []*domain.Booking
	nextID    int64
	createErr error
}

func (s *memoryStore) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.createErr != nil {
		return nil, s.createErr
	}
	s.nextID++
	stored := *b
	stored.ID = s.nextID
	stored.CreatedAt = now
	s.bookings = append(s.bookings, &stored)
	return &stored, nil
}

func (s *memoryStore) GetActiveByCar(_ context.Context, carID int64, _ domain.Interval, _ *int64) ([]*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*domain.Booking, 0)
	for _, b := range s.bookings {
		if b.CarID == carID && b.IsActive() {
			copied := *b
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (s *memoryStore) add(b *domain.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	b.ID = s.nextID
	s.bookings = append(s.bookings, b)
}

func (s *memoryStore) snapshot() []*domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*domain.Booking(nil), s.bookings...)
}

type fakeCars map[int64]*domain.Car

func (f fakeCars) GetByID(_ context.Context, id int64) (*domain.Car, error) {
	if car, ok := f[id]; ok {
		return car, nil
	}
	return nil, carRepo.ErrCarNotFound
}

type fakeServices map[int64]*domain.Service

func (f fakeServices) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	if service, ok := f[id]; ok {
		return service, nil
	}
	return nil, serviceRepo.ErrServiceNotFound
}

type fakeTxManager struct {
	commitErr error
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		return err
	}
	return f.commitErr
}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type countingRecorder struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (r *countingRecorder) RecordAdmission(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.outcomes == nil {
		r.outcomes = make(map[string]int)
	}
	r.outcomes[outcome]++
}

type testEnv struct {
	store    *memoryStore
	tx       *fakeTxManager
	recorder *countingRecorder
	uc       *UseCase
}

func newTestEnv() *testEnv {
	store := &memoryStore{}
	tx := &fakeTxManager{}
	recorder := &countingRecorder{}

	cars := fakeCars{
		carID:     {ID: carID, OwnerID: ownerID, Name: "Civic"},
		carID + 1: {ID: carID + 1, OwnerID: ownerID, Name: "Corolla"},
	}
	services := fakeServices{
		serviceID:     {ID: serviceID, Title: "Oil change", IsActive: true, BaseDurationMinutes: 45},
		serviceID + 1: {ID: serviceID + 1, Title: "Archived", IsActive: false, BaseDurationMinutes: 30},
		serviceID + 2: {ID: serviceID + 2, Title: "Broken", IsActive: true, BaseDurationMinutes: 0},
	}

	uc := NewUseCase(store, cars, services, overlap.NewChecker(store), keylock.NewLocal(time.Second), tx, recorder, logger.NewNop())
	uc.timeProvider = fixedTime{t: now}

	return &testEnv{store: store, tx: tx, recorder: recorder, uc: uc}
}

func request(start time.Time, minutes int) *Request {
	return &Request{
		RequesterID:     ownerID,
		CarID:           carID,
		ServiceID:       serviceID,
		StartAt:         start,
		DurationMinutes: ptr.Ptr(minutes),
	}
}

func TestExecute_AdjacentToConfirmedIsAccepted(t *testing.T) {
	env := newTestEnv()
	env.store.add(&domain.Booking{CarID: carID, StartAt: at(10, 0), DurationMinutes: 45, Status: domain.StatusConfirmed})

	resp, err := env.uc.Execute(context.Background(), request(at(10, 45), 30))

	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, ownerID, resp.UserID)
	assert.Equal(t, at(11, 15), resp.EndAt)
	assert.Equal(t, now, resp.CreatedAt)
	assert.Len(t, env.store.snapshot(), 2)
}

func TestExecute_OverlapWithPendingIsConflict(t *testing.T) {
	env := newTestEnv()
	env.store.add(&domain.Booking{CarID: carID, StartAt: at(10, 0), DurationMinutes: 60, Status: domain.StatusPending})

	_, err := env.uc.Execute(context.Background(), request(at(10, 30), 30))

	assert.ErrorIs(t, err, ErrConflict)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Len(t, env.store.snapshot(), 1)
	assert.Equal(t, 1, env.recorder.outcomes[metrics.AdmissionConflict])
}

func TestExecute_InactiveBookingsDoNotBlock(t *testing.T) {
	env := newTestEnv()
	for _, status := range []domain.BookingStatus{domain.StatusCanceled, domain.StatusDone, domain.StatusNoShow} {
		env.store.add(&domain.Booking{CarID: carID, StartAt: at(10, 0), DurationMinutes: 60, Status: status})
	}
	env.store.add(&domain.Booking{CarID: carID + 1, StartAt: at(10, 0), DurationMinutes: 60, Status: domain.StatusConfirmed})

	_, err := env.uc.Execute(context.Background(), request(at(10, 0), 60))
	require.NoError(t, err)
}

func TestExecute_StartNotInFuture(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
	}{
		{"equal to now", now},
		{"in the past", now.Add(-time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			req := request(tt.start, 30)
			// Несуществующие автомобиль и услуга не влияют на результат
			req.CarID = 999
			req.ServiceID = 999

			_, err := env.uc.Execute(context.Background(), req)

			assert.ErrorIs(t, err, ErrInvalidTime)
			assert.ErrorIs(t, err, domain.ErrInvalidTime)
			assert.Empty(t, env.store.snapshot())
		})
	}
}

func TestExecute_OwnershipGate(t *testing.T) {
	env := newTestEnv()

	for _, start := range []time.Time{at(8, 0), at(12, 0), at(23, 30)} {
		req := request(start, 30)
		req.RequesterID = strangerID

		_, err := env.uc.Execute(context.Background(), req)

		assert.ErrorIs(t, err, ErrAccessDenied)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	}
	assert.Empty(t, env.store.snapshot())
}

func TestExecute_DurationDefaultsToService(t *testing.T) {
	env := newTestEnv()
	req := request(at(10, 0), 0)
	req.DurationMinutes = nil

	resp, err := env.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 45, resp.DurationMinutes)
	assert.Equal(t, at(10, 45), resp.EndAt)
}

func TestExecute_InvalidServiceDurationIsInternal(t *testing.T) {
	env := newTestEnv()
	req := request(at(10, 0), 0)
	req.DurationMinutes = nil
	req.ServiceID = serviceID + 2

	_, err := env.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, domain.ErrInternal)
	assert.NotErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, env.store.snapshot())
	assert.Equal(t, 1, env.recorder.outcomes[metrics.AdmissionFailed])

	// Явная длительность не зависит от базовой длительности услуги
	req.DurationMinutes = ptr.Ptr(30)
	_, err = env.uc.Execute(context.Background(), req)
	require.NoError(t, err)
}

func TestExecute_NotFound(t *testing.T) {
	env := newTestEnv()

	req := request(at(10, 0), 30)
	req.CarID = 999
	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrCarNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	req = request(at(10, 0), 30)
	req.ServiceID = 999
	_, err = env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrServiceNotFound)

	req = request(at(10, 0), 30)
	req.ServiceID = serviceID + 1
	_, err = env.uc.Execute(context.Background(), req)
	assert.NoError(t, err, "inactive service can still be booked")
}

func TestExecute_InvalidInput(t *testing.T) {
	env := newTestEnv()

	tests := []struct {
		name   string
		modify func(r *Request)
	}{
		{"zero car", func(r *Request) { r.CarID = 0 }},
		{"zero service", func(r *Request) { r.ServiceID = 0 }},
		{"no start", func(r *Request) { r.StartAt = time.Time{} }},
		{"zero duration", func(r *Request) { r.DurationMinutes = ptr.Ptr(0) }},
		{"too long", func(r *Request) { r.DurationMinutes = ptr.Ptr(domain.MaxDurationMinutes + 1) }},
		{"long note", func(r *Request) { r.Note = ptr.Ptr(string(make([]rune, domain.MaxNoteLength+1))) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := request(at(10, 0), 30)
			tt.modify(req)

			_, err := env.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestExecute_StorageRejectionIsConflict(t *testing.T) {
	t.Run("exclusion constraint on insert", func(t *testing.T) {
		env := newTestEnv()
		env.store.createErr = fmt.Errorf("%w: Create - execute insert: bookings_car_no_overlap", bookingRepo.ErrOverlap)

		_, err := env.uc.Execute(context.Background(), request(at(10, 0), 30))
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("serialization failure on commit", func(t *testing.T) {
		env := newTestEnv()
		env.tx.commitErr = fmt.Errorf("txmanager: commit: %w", &pq.Error{Code: "40001"})

		_, err := env.uc.Execute(context.Background(), request(at(10, 0), 30))
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("other storage error is internal", func(t *testing.T) {
		env := newTestEnv()
		env.store.createErr = errors.New("disk full")

		_, err := env.uc.Execute(context.Background(), request(at(10, 0), 30))
		assert.ErrorIs(t, err, ErrInternal)
		assert.Equal(t, 1, env.recorder.outcomes[metrics.AdmissionFailed])
	})
}

func TestExecute_NonOverlapInvariant(t *testing.T) {
	env := newTestEnv()
	rnd := rand.New(rand.NewSource(42))

	for i := 0; i < 300; i++ {
		start := at(8, 0).Add(time.Duration(rnd.Intn(10*60/5)) * 5 * time.Minute)
		req := request(start, 5+rnd.Intn(24)*5)
		req.CarID = carID + int64(rnd.Intn(2))

		_, err := env.uc.Execute(context.Background(), req)
		if err != nil {
			require.ErrorIs(t, err, ErrConflict)
		}
	}

	bookings := env.store.snapshot()
	require.NotEmpty(t, bookings)
	for i := range bookings {
		for j := i + 1; j < len(bookings); j++ {
			a, b := bookings[i], bookings[j]
			if a.CarID != b.CarID || !a.IsActive() || !b.IsActive() {
				continue
			}
			assert.False(t, a.Interval().Overlaps(b.Interval()), "bookings %d and %d overlap", a.ID, b.ID)
		}
	}
}

func TestExecute_ConcurrentRequestsForSameWindow(t *testing.T) {
	env := newTestEnv()

	var (
		accepted int32
		wg       sync.WaitGroup
	)

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := env.uc.Execute(context.Background(), request(at(10, 0), 60)); err == nil {
				atomic.AddInt32(&accepted, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), accepted)
	assert.Len(t, env.store.snapshot(), 1)
	assert.Equal(t, 15, env.recorder.outcomes[metrics.AdmissionConflict])
}
