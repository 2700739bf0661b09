package get_free_intervals

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/BTR-BookingService/internal/availability"
	"github.com/m04kA/BTR-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/BTR-BookingService/internal/infra/storage/booking"
	scheduleRepo "github.com/m04kA/BTR-BookingService/internal/infra/storage/schedule"
	"github.com/m04kA/BTR-BookingService/pkg/logger"
	"github.com/m04kA/BTR-BookingService/pkg/ptr"
	"github.com/m04kA/BTR-BookingService/pkg/types"
)

type mockBookings struct{ mock.Mock }

func (m *mockBookings) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*domain.Booking)
	return b, args.Error(1)
}

func (m *mockBookings) GetWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	args := m.Called(ctx, filter)
	bs, _ := args.Get(0).([]*domain.Booking)
	return bs, args.Error(1)
}

type mockSchedule struct{ mock.Mock }

func (m *mockSchedule) GetPolicies(ctx context.Context) (domain.Schedule, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(domain.Schedule)
	return s, args.Error(1)
}

func (m *mockSchedule) GetOverride(ctx context.Context, date time.Time) (*domain.DayOverride, error) {
	args := m.Called(ctx, date)
	o, _ := args.Get(0).(*domain.DayOverride)
	return o, args.Error(1)
}

type mockCache struct{ mock.Mock }

func (m *mockCache) Get(ctx context.Context, date time.Time) ([]domain.Interval, string, bool, error) {
	args := m.Called(ctx, date)
	free, _ := args.Get(0).([]domain.Interval)
	return free, args.String(1), args.Bool(2), args.Error(3)
}

func (m *mockCache) Set(ctx context.Context, date time.Time, version string, free []domain.Interval) error {
	return m.Called(ctx, date, version, free).Error(0)
}

func iv(start, end string) domain.Interval {
	return domain.Interval{Start: types.MustParseClock(start), End: types.MustParseClock(end)}
}

var (
	monday   = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	saturday = time.Date(2026, 10, 24, 0, 0, 0, 0, time.UTC)

	defaultSchedule = domain.Schedule{
		domain.DayKindWorkday: {Kind: domain.DayKindWorkday, OpenTime: types.NewClock(16, 0), CloseTime: types.NewClock(22, 0)},
		domain.DayKindWeekend: {Kind: domain.DayKindWeekend, OpenTime: types.NewClock(10, 0), CloseTime: types.NewClock(18, 0)},
	}
)

func booking(id int64, date time.Time, start, end string, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:          id,
		RiderID:     10,
		BookingDate: date,
		StartTime:   types.MustParseClock(start),
		EndTime:     types.MustParseClock(end),
		BikeCount:   2,
		Status:      status,
	}
}

func newUseCase(b *mockBookings, s *mockSchedule, c Cache) *UseCase {
	return NewUseCase(b, s, availability.NewResolver(availability.DefaultConfig()), c, logger.NewNop())
}

func TestUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	bookings := &mockBookings{}
	schedule := &mockSchedule{}

	schedule.On("GetPolicies", ctx).Return(defaultSchedule, nil)
	schedule.On("GetOverride", ctx, monday).Return(nil, scheduleRepo.ErrOverrideNotFound)
	bookings.On("GetWithFilter", ctx, mock.MatchedBy(func(f domain.BookingsFilter) bool {
		return f.IsSingleDate() && len(f.Statuses) == 2
	})).Return([]*domain.Booking{booking(1, monday, "18:00", "19:00", domain.StatusConfirmed)}, nil)

	uc := newUseCase(bookings, schedule, nil)
	resp, err := uc.Execute(ctx, &Request{Date: monday, Start: ptr.Ptr(types.NewClock(19, 0))})
	require.NoError(t, err)

	assert.True(t, resp.Open)
	assert.Equal(t, domain.DayKindWorkday, resp.Kind)
	assert.Equal(t, iv("16:00", "22:00"), *resp.Window)
	assert.Equal(t, []domain.Interval{iv("16:00", "18:00"), iv("19:00", "22:00")}, resp.Free)
	assert.Equal(t, []types.Clock{
		types.NewClock(16, 0), types.NewClock(17, 0),
		types.NewClock(19, 0), types.NewClock(20, 0), types.NewClock(21, 0),
	}, resp.StartTimes)
	assert.Equal(t, []int{1, 2, 3}, resp.Durations)
	assert.Equal(t, 60, resp.StepMinutes)
}

func TestUseCase_Execute_ClosedOverride(t *testing.T) {
	ctx := context.Background()
	bookings := &mockBookings{}
	schedule := &mockSchedule{}

	schedule.On("GetPolicies", ctx).Return(defaultSchedule, nil)
	schedule.On("GetOverride", ctx, saturday).Return(&domain.DayOverride{Date: saturday, IsClosed: true}, nil)
	bookings.On("GetWithFilter", ctx, mock.Anything).Return([]*domain.Booking{}, nil)

	resp, err := newUseCase(bookings, schedule, nil).Execute(ctx, &Request{Date: saturday})
	require.NoError(t, err)

	assert.False(t, resp.Open)
	assert.Nil(t, resp.Window)
	assert.Empty(t, resp.Free)
	assert.Empty(t, resp.StartTimes)
	assert.Equal(t, domain.DayKindWeekend, resp.Kind)
}

func TestUseCase_Execute_ExcludesEditedBooking(t *testing.T) {
	ctx := context.Background()
	bookings := &mockBookings{}
	schedule := &mockSchedule{}
	cache := &mockCache{}

	own := booking(7, monday, "18:00", "20:00", domain.StatusPending)
	schedule.On("GetPolicies", ctx).Return(defaultSchedule, nil)
	schedule.On("GetOverride", ctx, monday).Return(nil, scheduleRepo.ErrOverrideNotFound)
	bookings.On("GetByID", ctx, int64(7)).Return(own, nil)
	bookings.On("GetWithFilter", ctx, mock.Anything).Return([]*domain.Booking{
		own,
		booking(8, monday, "20:00", "21:00", domain.StatusConfirmed),
	}, nil)

	resp, err := newUseCase(bookings, schedule, cache).Execute(ctx, &Request{Date: monday, ExcludeBookingID: ptr.Ptr(int64(7))})
	require.NoError(t, err)

	assert.Equal(t, []domain.Interval{iv("16:00", "20:00"), iv("21:00", "22:00")}, resp.Free)
	cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUseCase_Execute_ExcludedBookingNotFound(t *testing.T) {
	ctx := context.Background()
	bookings := &mockBookings{}
	schedule := &mockSchedule{}

	schedule.On("GetPolicies", ctx).Return(defaultSchedule, nil)
	schedule.On("GetOverride", ctx, monday).Return(nil, scheduleRepo.ErrOverrideNotFound)
	bookings.On("GetByID", ctx, int64(404)).Return(nil, bookingRepo.ErrBookingNotFound)

	_, err := newUseCase(bookings, schedule, nil).Execute(ctx, &Request{Date: monday, ExcludeBookingID: ptr.Ptr(int64(404))})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestUseCase_Execute_Cache(t *testing.T) {
	ctx := context.Background()

	t.Run("hit skips bookings query", func(t *testing.T) {
		bookings := &mockBookings{}
		schedule := &mockSchedule{}
		cache := &mockCache{}

		schedule.On("GetPolicies", ctx).Return(defaultSchedule, nil)
		schedule.On("GetOverride", ctx, monday).Return(nil, scheduleRepo.ErrOverrideNotFound)
		cache.On("Get", ctx, monday).Return([]domain.Interval{iv("20:00", "22:00")}, "0.3", true, nil)

		resp, err := newUseCase(bookings, schedule, cache).Execute(ctx, &Request{Date: monday})
		require.NoError(t, err)

		assert.Equal(t, []domain.Interval{iv("20:00", "22:00")}, resp.Free)
		bookings.AssertNotCalled(t, "GetWithFilter", mock.Anything, mock.Anything)
	})

	t.Run("miss fills cache", func(t *testing.T) {
		bookings := &mockBookings{}
		schedule := &mockSchedule{}
		cache := &mockCache{}

		schedule.On("GetPolicies", ctx).Return(defaultSchedule, nil)
		schedule.On("GetOverride", ctx, monday).Return(nil, scheduleRepo.ErrOverrideNotFound)
		bookings.On("GetWithFilter", ctx, mock.Anything).Return([]*domain.Booking{}, nil)
		cache.On("Get", ctx, monday).Return(nil, "0.3", false, nil)
		cache.On("Set", ctx, monday, "0.3", []domain.Interval{iv("16:00", "22:00")}).Return(nil)

		_, err := newUseCase(bookings, schedule, cache).Execute(ctx, &Request{Date: monday})
		require.NoError(t, err)
		cache.AssertExpectations(t)
	})

	t.Run("broken cache falls back to database", func(t *testing.T) {
		bookings := &mockBookings{}
		schedule := &mockSchedule{}
		cache := &mockCache{}

		schedule.On("GetPolicies", ctx).Return(defaultSchedule, nil)
		schedule.On("GetOverride", ctx, monday).Return(nil, scheduleRepo.ErrOverrideNotFound)
		bookings.On("GetWithFilter", ctx, mock.Anything).Return([]*domain.Booking{}, nil)
		cache.On("Get", ctx, monday).Return(nil, "", false, errors.New("redis down"))

		resp, err := newUseCase(bookings, schedule, cache).Execute(ctx, &Request{Date: monday})
		require.NoError(t, err)
		assert.Equal(t, []domain.Interval{iv("16:00", "22:00")}, resp.Free)
		cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("failed write is ignored", func(t *testing.T) {
		bookings := &mockBookings{}
		schedule := &mockSchedule{}
		cache := &mockCache{}

		schedule.On("GetPolicies", ctx).Return(defaultSchedule, nil)
		schedule.On("GetOverride", ctx, monday).Return(nil, scheduleRepo.ErrOverrideNotFound)
		bookings.On("GetWithFilter", ctx, mock.Anything).Return([]*domain.Booking{}, nil)
		cache.On("Get", ctx, monday).Return(nil, "0.0", false, nil)
		cache.On("Set", ctx, monday, "0.0", mock.Anything).Return(errors.New("redis down"))

		resp, err := newUseCase(bookings, schedule, cache).Execute(ctx, &Request{Date: monday})
		require.NoError(t, err)
		assert.Equal(t, []domain.Interval{iv("16:00", "22:00")}, resp.Free)
	})
}

func TestUseCase_Execute_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := newUseCase(&mockBookings{}, &mockSchedule{}, nil).Execute(ctx, &Request{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	schedule := &mockSchedule{}
	schedule.On("GetPolicies", ctx).Return(nil, errors.New("db down"))
	_, err = newUseCase(&mockBookings{}, schedule, nil).Execute(ctx, &Request{Date: monday})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestUseCase_Compute(t *testing.T) {
	ctx := context.Background()
	bookings := &mockBookings{}
	schedule := &mockSchedule{}

	schedule.On("GetPolicies", ctx).Return(defaultSchedule, nil)
	schedule.On("GetOverride", ctx, monday).Return(&domain.DayOverride{
		Date:      monday,
		OpenTime:  ptr.Ptr(types.NewClock(12, 0)),
		CloseTime: ptr.Ptr(types.NewClock(15, 0)),
	}, nil)
	bookings.On("GetWithFilter", ctx, mock.Anything).Return([]*domain.Booking{
		booking(1, monday, "13:00", "14:00", domain.StatusPending),
	}, nil)

	exclude := iv("13:00", "14:00")
	free, err := newUseCase(bookings, schedule, nil).Compute(ctx, monday, &exclude)
	require.NoError(t, err)
	assert.Equal(t, []domain.Interval{iv("12:00", "15:00")}, free)

	free, err = newUseCase(bookings, schedule, nil).Compute(ctx, monday, nil)
	require.NoError(t, err)
	assert.Equal(t, []domain.Interval{iv("12:00", "13:00"), iv("14:00", "15:00")}, free)
}
