package create_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/BTR-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/BTR-BookingService/internal/infra/storage/booking"
	riderRepo "github.com/m04kA/BTR-BookingService/internal/infra/storage/rider"
	"github.com/m04kA/BTR-BookingService/internal/validation"
	"github.com/m04kA/BTR-BookingService/pkg/logger"
	"github.com/m04kA/BTR-BookingService/pkg/ptr"
	"github.com/m04kA/BTR-BookingService/pkg/txmanager"
	"github.com/m04kA/BTR-BookingService/pkg/types"
)

type fakeBookings struct {
	created []*domain.Booking
	err     error
}

func (f *fakeBookings) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	if f.err != nil {
		return nil, f.err
	}
	cp := *b
	cp.ID = int64(len(f.created) + 1)
	cp.CreatedAt = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	cp.UpdatedAt = cp.CreatedAt
	f.created = append(f.created, &cp)
	return &cp, nil
}

type fakeRiders map[int64]*domain.Rider

func (f fakeRiders) GetByID(_ context.Context, id int64) (*domain.Rider, error) {
	if r, ok := f[id]; ok {
		return r, nil
	}
	return nil, riderRepo.ErrRiderNotFound
}

type fakeFree struct {
	free []domain.Interval
	err  error
}

func (f fakeFree) Compute(context.Context, time.Time, *domain.Interval) ([]domain.Interval, error) {
	return f.free, f.err
}

type fakeCache struct{ invalidated []time.Time }

func (f *fakeCache) Invalidate(_ context.Context, dates ...time.Time) error {
	f.invalidated = append(f.invalidated, dates...)
	return nil
}

type fakeNotifier struct{ events []domain.BookingEvent }

func (f *fakeNotifier) Notify(_ context.Context, ev domain.BookingEvent) {
	f.events = append(f.events, ev)
}

type fakeTx struct{ err error }

func (f fakeTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		return err
	}
	return f.err
}

type fixedTime time.Time

func (t fixedTime) Now() time.Time { return time.Time(t) }

func iv(start, end string) domain.Interval {
	return domain.Interval{Start: types.MustParseClock(start), End: types.MustParseClock(end)}
}

var monday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

type fixture struct {
	bookings *fakeBookings
	cache    *fakeCache
	notifier *fakeNotifier
	uc       *UseCase
}

func newFixture(free []domain.Interval, tx fakeTx) *fixture {
	f := &fixture{
		bookings: &fakeBookings{},
		cache:    &fakeCache{},
		notifier: &fakeNotifier{},
	}
	riders := fakeRiders{10: {ID: 10, Name: "Анна", Phone: "+79990000010"}}
	validator := validation.NewValidator(validation.Config{MinBikes: 1, MaxBikes: 4, SlotStep: time.Hour, Location: time.UTC})

	f.uc = NewUseCase(f.bookings, riders, fakeFree{free: free}, validator, f.cache, f.notifier, tx, logger.NewNop()).
		WithTimeProvider(fixedTime(time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)))
	return f
}

func rider(id int64) domain.Actor    { return domain.Actor{ID: id, Role: domain.RoleRider} }
func operator(id int64) domain.Actor { return domain.Actor{ID: id, Role: domain.RoleOperator} }

func TestUseCase_Execute_SelfService(t *testing.T) {
	f := newFixture([]domain.Interval{iv("16:00", "22:00")}, fakeTx{})

	resp, err := f.uc.Execute(context.Background(), &Request{
		Actor:     rider(10),
		Date:      monday,
		StartTime: types.NewClock(18, 0),
		EndTime:   types.NewClock(19, 0),
		BikeCount: 2,
	})
	require.NoError(t, err)

	b := resp.Booking
	assert.Equal(t, int64(1), b.ID)
	assert.Equal(t, int64(10), b.RiderID)
	assert.Equal(t, domain.StatusPending, b.Status)
	assert.Equal(t, iv("18:00", "19:00"), b.Interval())

	assert.Equal(t, []time.Time{monday}, f.cache.invalidated)
	require.Len(t, f.notifier.events, 1)
	ev := f.notifier.events[0]
	assert.Equal(t, domain.EventBookingCreated, ev.Kind)
	assert.True(t, ev.SelfService())
	assert.Equal(t, int64(1), ev.Booking.ID)
}

func TestUseCase_Execute_OperatorCreatesPending(t *testing.T) {
	f := newFixture([]domain.Interval{iv("16:00", "22:00")}, fakeTx{})

	resp, err := f.uc.Execute(context.Background(), &Request{
		Actor:           operator(1),
		Date:            monday,
		StartTime:       types.NewClock(16, 0),
		EndTime:         types.NewClock(18, 0),
		BikeCount:       4,
		OnBehalfOfPhone: ptr.Ptr("+79995554433"),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, resp.Booking.Status)
	assert.Equal(t, int64(1), resp.Booking.RiderID)
	assert.Equal(t, "+79995554433", resp.Booking.ContactPhone("+70000000000"))
	require.Len(t, f.notifier.events, 1)
	assert.False(t, f.notifier.events[0].SelfService())
}

func TestUseCase_Execute_Rejections(t *testing.T) {
	free := []domain.Interval{iv("16:00", "18:00"), iv("19:00", "22:00")}

	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{
			name:    "occupied interval",
			req:     Request{Actor: rider(10), Date: monday, StartTime: types.NewClock(18, 0), EndTime: types.NewClock(19, 0), BikeCount: 1},
			wantErr: validation.ErrSlotUnavailable,
		},
		{
			name:    "too many bikes",
			req:     Request{Actor: rider(10), Date: monday, StartTime: types.NewClock(16, 0), EndTime: types.NewClock(17, 0), BikeCount: 5},
			wantErr: validation.ErrInvalidBikeCount,
		},
		{
			name:    "start in the past",
			req:     Request{Actor: rider(10), Date: monday.AddDate(0, 0, -1), StartTime: types.NewClock(16, 0), EndTime: types.NewClock(17, 0), BikeCount: 1},
			wantErr: validation.ErrPastStartTime,
		},
		{
			name:    "half an hour",
			req:     Request{Actor: rider(10), Date: monday, StartTime: types.NewClock(16, 0), EndTime: types.NewClock(16, 30), BikeCount: 1},
			wantErr: validation.ErrNonIntegralDuration,
		},
		{
			name:    "rider without profile",
			req:     Request{Actor: rider(77), Date: monday, StartTime: types.NewClock(16, 0), EndTime: types.NewClock(17, 0), BikeCount: 1},
			wantErr: ErrRiderNotFound,
		},
		{
			name:    "rider books for another phone",
			req:     Request{Actor: rider(10), Date: monday, StartTime: types.NewClock(16, 0), EndTime: types.NewClock(17, 0), BikeCount: 1, OnBehalfOfPhone: ptr.Ptr("+79995554433")},
			wantErr: ErrAccessDenied,
		},
		{
			name:    "malformed walk-in phone",
			req:     Request{Actor: operator(1), Date: monday, StartTime: types.NewClock(16, 0), EndTime: types.NewClock(17, 0), BikeCount: 1, OnBehalfOfPhone: ptr.Ptr("8999")},
			wantErr: validation.ErrInvalidPhone,
		},
		{
			name:    "missing date",
			req:     Request{Actor: rider(10), StartTime: types.NewClock(16, 0), EndTime: types.NewClock(17, 0), BikeCount: 1},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(free, fakeTx{})

			_, err := f.uc.Execute(context.Background(), &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.bookings.created)
			assert.Empty(t, f.notifier.events)
			assert.Empty(t, f.cache.invalidated)
		})
	}
}

func TestUseCase_Execute_ReportsEveryViolation(t *testing.T) {
	f := newFixture([]domain.Interval{iv("16:00", "18:00")}, fakeTx{})

	_, err := f.uc.Execute(context.Background(), &Request{
		Actor:     rider(10),
		Date:      monday,
		StartTime: types.NewClock(17, 0),
		EndTime:   types.NewClock(18, 30),
		BikeCount: 0,
	})

	errs, ok := validation.AsErrors(err)
	require.True(t, ok)
	assert.Len(t, errs, 3)
}

func TestUseCase_Execute_ConcurrentConflict(t *testing.T) {
	free := []domain.Interval{iv("16:00", "22:00")}
	req := Request{Actor: rider(10), Date: monday, StartTime: types.NewClock(18, 0), EndTime: types.NewClock(19, 0), BikeCount: 1}

	t.Run("exclusion constraint", func(t *testing.T) {
		f := newFixture(free, fakeTx{})
		f.bookings.err = bookingRepo.ErrSlotNotAvailable

		_, err := f.uc.Execute(context.Background(), &req)
		assert.ErrorIs(t, err, validation.ErrSlotUnavailable)
		assert.Empty(t, f.notifier.events)
	})

	t.Run("serialization failure on commit", func(t *testing.T) {
		f := newFixture(free, fakeTx{err: fmtSerialization()})

		_, err := f.uc.Execute(context.Background(), &req)
		assert.ErrorIs(t, err, validation.ErrSlotUnavailable)
		assert.Empty(t, f.notifier.events)
	})

	t.Run("other database errors are internal", func(t *testing.T) {
		f := newFixture(free, fakeTx{})
		f.bookings.err = errors.New("connection reset")

		_, err := f.uc.Execute(context.Background(), &req)
		assert.ErrorIs(t, err, ErrInternal)
	})
}

func fmtSerialization() error {
	return errors.Join(txmanager.ErrSerializationFailure, &pq.Error{Code: "40001"})
}
