package get_month_load

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/BTR-BookingService/internal/availability"
	"github.com/m04kA/BTR-BookingService/internal/domain"
	"github.com/m04kA/BTR-BookingService/pkg/logger"
	"github.com/m04kA/BTR-BookingService/pkg/ptr"
	"github.com/m04kA/BTR-BookingService/pkg/types"
)

type fakeBookings struct {
	bookings []*domain.Booking
	filter   domain.BookingsFilter
}

func (f *fakeBookings) GetWithFilter(_ context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	f.filter = filter
	return f.bookings, nil
}

type fakeSchedule struct {
	overrides []*domain.DayOverride
	err       error
}

func (f fakeSchedule) GetPolicies(context.Context) (domain.Schedule, error) {
	if f.err != nil {
		return nil, f.err
	}
	return domain.Schedule{
		domain.DayKindWorkday: {Kind: domain.DayKindWorkday, OpenTime: types.NewClock(16, 0), CloseTime: types.NewClock(22, 0)},
		domain.DayKindWeekend: {Kind: domain.DayKindWeekend, OpenTime: types.NewClock(10, 0), CloseTime: types.NewClock(18, 0)},
	}, nil
}

func (f fakeSchedule) GetOverrides(context.Context, time.Time, time.Time) ([]*domain.DayOverride, error) {
	return f.overrides, nil
}

type fixedTime time.Time

func (t fixedTime) Now() time.Time { return time.Time(t) }

func date(day int) time.Time {
	return time.Date(2026, 10, day, 0, 0, 0, 0, time.UTC)
}

func booking(day int, start, end string) *domain.Booking {
	return &domain.Booking{
		BookingDate: date(day),
		StartTime:   types.MustParseClock(start),
		EndTime:     types.MustParseClock(end),
		Status:      domain.StatusConfirmed,
	}
}

func TestUseCase_Execute(t *testing.T) {
	bookings := &fakeBookings{bookings: []*domain.Booking{
		// понедельник занят частично
		booking(19, "18:00", "19:00"),
		// вторник занят целиком
		booking(20, "16:00", "19:00"),
		booking(20, "19:00", "22:00"),
		// в среду осталось 30 минут, меньше шага
		booking(21, "16:00", "21:30"),
	}}
	schedule := fakeSchedule{overrides: []*domain.DayOverride{
		{Date: date(22), IsClosed: true},
		{Date: date(26), OpenTime: ptr.Ptr(types.NewClock(12, 0)), CloseTime: ptr.Ptr(types.NewClock(14, 0))},
	}}

	uc := NewUseCase(bookings, schedule, availability.NewResolver(availability.DefaultConfig()), time.UTC, logger.NewNop()).
		WithTimeProvider(fixedTime(time.Date(2026, 10, 16, 15, 0, 0, 0, time.UTC)))

	resp, err := uc.Execute(context.Background(), &Request{Year: 2026, Month: time.October})
	require.NoError(t, err)
	require.Len(t, resp.Days, 31)

	assert.Equal(t, date(1), *bookings.filter.StartDate)
	assert.Equal(t, date(31), *bookings.filter.EndDate)

	byDay := func(day int) DayLoad { return resp.Days[day-1] }

	assert.Equal(t, StatePast, byDay(15).State)
	assert.Equal(t, StateFree, byDay(16).State, "today is not past")
	assert.Equal(t, domain.DayKindWeekend, byDay(16).Kind)

	mon := byDay(19)
	assert.Equal(t, StatePartial, mon.State)
	assert.Equal(t, 360, mon.OpenMinutes)
	assert.Equal(t, 60, mon.BookedMinutes)
	assert.Equal(t, 300, mon.FreeMinutes)

	assert.Equal(t, StateFull, byDay(20).State)
	assert.Equal(t, StateFull, byDay(21).State, "less than one step left")
	assert.Equal(t, 30, byDay(21).FreeMinutes)

	assert.Equal(t, StateClosed, byDay(22).State)
	assert.Nil(t, byDay(22).Window)

	special := byDay(26)
	assert.Equal(t, StateFree, special.State)
	assert.Equal(t, 120, special.OpenMinutes)
}

func TestUseCase_Execute_InvalidInput(t *testing.T) {
	uc := NewUseCase(&fakeBookings{}, fakeSchedule{}, availability.NewResolver(availability.DefaultConfig()), nil, logger.NewNop())

	_, err := uc.Execute(context.Background(), &Request{Year: 2026, Month: 13})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{Year: 0, Month: time.May})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUseCase_Execute_RepositoryError(t *testing.T) {
	uc := NewUseCase(&fakeBookings{}, fakeSchedule{err: errors.New("db down")}, availability.NewResolver(availability.DefaultConfig()), nil, logger.NewNop())

	_, err := uc.Execute(context.Background(), &Request{Year: 2026, Month: time.October})
	assert.ErrorIs(t, err, ErrInternal)
}
