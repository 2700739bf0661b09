package get_month_load

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/BTR-BookingService/internal/availability"
	"github.com/m04kA/BTR-BookingService/internal/domain"
	"github.com/m04kA/BTR-BookingService/pkg/types"
)

// UseCase календарь загруженности на месяц
type UseCase struct {
	bookingRepo  BookingRepository
	scheduleRepo ScheduleRepository
	resolver     *availability.Resolver
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	resolver *availability.Resolver,
	location *time.Location,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		scheduleRepo: scheduleRepo,
		resolver:     resolver,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute рассчитывает загруженность каждого дня месяца тремя запросами:
// политики, исключения месяца и активные брони месяца
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.Year < 2000 || req.Year > 9999 {
		return nil, fmt.Errorf("%w: year %d is out of range", ErrInvalidInput, req.Year)
	}
	if req.Month < time.January || req.Month > time.December {
		return nil, fmt.Errorf("%w: month %d is out of range", ErrInvalidInput, req.Month)
	}

	uc.logger.Info("GetMonthLoad: %04d-%02d", req.Year, req.Month)

	first := time.Date(req.Year, req.Month, 1, 0, 0, 0, 0, uc.location)
	last := first.AddDate(0, 1, -1)

	schedule, err := uc.scheduleRepo.GetPolicies(ctx)
	if err != nil {
		uc.logger.Error("GetMonthLoad: failed to get day policies: %v", err)
		return nil, fmt.Errorf("%w: failed to get day policies: %v", ErrInternal, err)
	}

	overrides, err := uc.scheduleRepo.GetOverrides(ctx, first, last)
	if err != nil {
		uc.logger.Error("GetMonthLoad: failed to get overrides: %v", err)
		return nil, fmt.Errorf("%w: failed to get overrides: %v", ErrInternal, err)
	}
	overrideByDate := make(map[string]*domain.DayOverride, len(overrides))
	for _, o := range overrides {
		overrideByDate[o.Date.Format(domain.DateFormat)] = o
	}

	bookings, err := uc.bookingRepo.GetWithFilter(ctx, domain.BookingsFilter{
		StartDate: &first,
		EndDate:   &last,
		Statuses:  domain.ActiveStatuses,
	})
	if err != nil {
		uc.logger.Error("GetMonthLoad: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}
	bookedByDate := make(map[string][]domain.Interval)
	for _, b := range bookings {
		if !b.OccupiesSlot() {
			continue
		}
		key := b.BookingDate.Format(domain.DateFormat)
		bookedByDate[key] = append(bookedByDate[key], b.Interval())
	}

	today := types.DateIn(uc.timeProvider.Now().In(uc.location), uc.location)

	resp := &Response{Year: req.Year, Month: req.Month, Days: make([]DayLoad, 0, last.Day())}
	for date := first; !date.After(last); date = date.AddDate(0, 0, 1) {
		key := date.Format(domain.DateFormat)
		resp.Days = append(resp.Days, uc.dayLoad(availability.Day{
			Date:     date,
			Schedule: schedule,
			Override: overrideByDate[key],
			Booked:   bookedByDate[key],
		}, today))
	}

	return resp, nil
}

func (uc *UseCase) dayLoad(day availability.Day, today time.Time) DayLoad {
	load := DayLoad{
		Date: day.Date,
		Kind: uc.resolver.Classify(day.Date),
		Free: []domain.Interval{},
	}

	window, open := uc.resolver.Window(day.Date, day.Schedule, day.Override)
	if open {
		load.Window = &window
		load.OpenMinutes = minutes(window.Duration())
		load.Free = uc.resolver.Resolve(day, nil)
		for _, f := range load.Free {
			load.FreeMinutes += minutes(f.Duration())
		}
		load.BookedMinutes = load.OpenMinutes - load.FreeMinutes
	}

	switch {
	case day.Date.Before(today):
		load.State = StatePast
	case !open:
		load.State = StateClosed
	case load.BookedMinutes == 0:
		load.State = StateFree
	case len(uc.resolver.ValidStartTimes(load.Free)) == 0:
		load.State = StateFull
	default:
		load.State = StatePartial
	}

	return load
}

func minutes(d time.Duration) int {
	return int(d / time.Minute)
}
