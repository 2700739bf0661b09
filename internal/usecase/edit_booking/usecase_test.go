package edit_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/BTR-BookingService/internal/availability"
	"github.com/m04kA/BTR-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/BTR-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/BTR-BookingService/internal/validation"
	"github.com/m04kA/BTR-BookingService/pkg/logger"
	"github.com/m04kA/BTR-BookingService/pkg/types"
)

type fakeBookings struct {
	bookings  map[int64]*domain.Booking
	updateErr error
	updates   int
}

func (f *fakeBookings) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookings) Update(_ context.Context, b *domain.Booking) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates++
	b.UpdatedAt = b.UpdatedAt.Add(time.Minute)
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

// fakeFree считает свободное время по активным броням хранилища
type fakeFree struct {
	repo   *fakeBookings
	window domain.Interval
}

func (f fakeFree) Compute(_ context.Context, date time.Time, exclude *domain.Interval) ([]domain.Interval, error) {
	booked := make([]domain.Interval, 0)
	for _, b := range f.repo.bookings {
		if b.OccupiesSlot() && types.SameDate(b.BookingDate, date) {
			booked = append(booked, b.Interval())
		}
	}
	return availability.FreeIntervals(f.window, booked, exclude), nil
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

type fakeTx struct{}

func (fakeTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime time.Time

func (t fixedTime) Now() time.Time { return time.Time(t) }

var (
	monday  = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	tuesday = monday.AddDate(0, 0, 1)

	owner    = domain.Actor{ID: 10, Role: domain.RoleRider}
	stranger = domain.Actor{ID: 11, Role: domain.RoleRider}
	operator = domain.Actor{ID: 1, Role: domain.RoleOperator}
)

type fixture struct {
	repo     *fakeBookings
	cache    *fakeCache
	notifier *fakeNotifier
	uc       *UseCase
}

func newFixture() *fixture {
	f := &fixture{
		repo: &fakeBookings{bookings: map[int64]*domain.Booking{
			1: {ID: 1, RiderID: 10, BookingDate: monday, StartTime: types.NewClock(18, 0), EndTime: types.NewClock(20, 0), BikeCount: 2, Status: domain.StatusConfirmed},
			2: {ID: 2, RiderID: 12, BookingDate: monday, StartTime: types.NewClock(20, 0), EndTime: types.NewClock(21, 0), BikeCount: 1, Status: domain.StatusPending},
			3: {ID: 3, RiderID: 10, BookingDate: monday, StartTime: types.NewClock(16, 0), EndTime: types.NewClock(17, 0), BikeCount: 1, Status: domain.StatusCanceled},
		}},
		cache:    &fakeCache{},
		notifier: &fakeNotifier{},
	}

	free := fakeFree{repo: f.repo, window: domain.Interval{Start: types.NewClock(16, 0), End: types.NewClock(22, 0)}}
	validator := validation.NewValidator(validation.Config{Location: time.UTC})

	f.uc = NewUseCase(f.repo, free, validator, f.cache, f.notifier, fakeTx{}, logger.NewNop()).
		WithTimeProvider(fixedTime(time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)))
	return f
}

func TestUseCase_Execute_ShiftsInsideOwnInterval(t *testing.T) {
	f := newFixture()

	// 19-20 занято самой бронью, но она исключается из расчета
	resp, err := f.uc.Execute(context.Background(), &Request{
		BookingID: 1,
		Actor:     owner,
		Date:      monday,
		StartTime: types.NewClock(17, 0),
		EndTime:   types.NewClock(20, 0),
		BikeCount: 3,
	})
	require.NoError(t, err)

	assert.True(t, resp.Changed)
	assert.Equal(t, types.NewClock(17, 0), f.repo.bookings[1].StartTime)
	assert.Equal(t, 3, f.repo.bookings[1].BikeCount)
	assert.Equal(t, []time.Time{monday}, f.cache.invalidated)

	require.Len(t, f.notifier.events, 1)
	ev := f.notifier.events[0]
	assert.Equal(t, domain.EventBookingEdited, ev.Kind)
	assert.True(t, ev.SelfService())
}

func TestUseCase_Execute_MovesToAnotherDay(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), &Request{
		BookingID: 1,
		Actor:     operator,
		Date:      tuesday,
		StartTime: types.NewClock(20, 0),
		EndTime:   types.NewClock(22, 0),
		BikeCount: 2,
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []time.Time{monday, tuesday}, f.cache.invalidated)
	require.Len(t, f.notifier.events, 1)
	assert.False(t, f.notifier.events[0].SelfService())
}

func TestUseCase_Execute_UnchangedIsSilent(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), &Request{
		BookingID: 1,
		Actor:     owner,
		Date:      monday,
		StartTime: types.NewClock(18, 0),
		EndTime:   types.NewClock(20, 0),
		BikeCount: 2,
	})
	require.NoError(t, err)

	assert.False(t, resp.Changed)
	assert.Zero(t, f.repo.updates)
	assert.Empty(t, f.notifier.events)
}

func TestUseCase_Execute_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{
			name:    "overlaps another booking",
			req:     Request{BookingID: 1, Actor: owner, Date: monday, StartTime: types.NewClock(18, 0), EndTime: types.NewClock(21, 0), BikeCount: 2},
			wantErr: validation.ErrSlotUnavailable,
		},
		{
			name:    "too many bikes",
			req:     Request{BookingID: 1, Actor: owner, Date: monday, StartTime: types.NewClock(18, 0), EndTime: types.NewClock(20, 0), BikeCount: 5},
			wantErr: validation.ErrInvalidBikeCount,
		},
		{
			name:    "someone else's booking",
			req:     Request{BookingID: 1, Actor: stranger, Date: monday, StartTime: types.NewClock(17, 0), EndTime: types.NewClock(18, 0), BikeCount: 1},
			wantErr: ErrAccessDenied,
		},
		{
			name:    "canceled booking",
			req:     Request{BookingID: 3, Actor: owner, Date: monday, StartTime: types.NewClock(17, 0), EndTime: types.NewClock(18, 0), BikeCount: 1},
			wantErr: ErrNotEditable,
		},
		{
			name:    "missing booking",
			req:     Request{BookingID: 9, Actor: operator, Date: monday, StartTime: types.NewClock(17, 0), EndTime: types.NewClock(18, 0), BikeCount: 1},
			wantErr: ErrBookingNotFound,
		},
		{
			name:    "missing date",
			req:     Request{BookingID: 1, Actor: owner, StartTime: types.NewClock(17, 0), EndTime: types.NewClock(18, 0), BikeCount: 1},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			_, err := f.uc.Execute(context.Background(), &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, f.repo.updates)
			assert.Empty(t, f.notifier.events)
		})
	}
}

func TestUseCase_Execute_ExclusionViolation(t *testing.T) {
	f := newFixture()
	f.repo.updateErr = bookingRepo.ErrSlotNotAvailable

	_, err := f.uc.Execute(context.Background(), &Request{
		BookingID: 1,
		Actor:     owner,
		Date:      monday,
		StartTime: types.NewClock(17, 0),
		EndTime:   types.NewClock(18, 0),
		BikeCount: 1,
	})
	assert.ErrorIs(t, err, validation.ErrSlotUnavailable)
	assert.Empty(t, f.notifier.events)
}
