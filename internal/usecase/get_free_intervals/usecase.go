package get_free_intervals

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/BTR-BookingService/internal/availability"
	"github.com/m04kA/BTR-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/BTR-BookingService/internal/infra/storage/booking"
	scheduleRepo "github.com/m04kA/BTR-BookingService/internal/infra/storage/schedule"
	"github.com/m04kA/BTR-BookingService/pkg/types"
)

// UseCase use case для получения свободного времени на дату
type UseCase struct {
	bookingRepo  BookingRepository
	scheduleRepo ScheduleRepository
	resolver     *availability.Resolver
	cache        Cache
	logger       Logger
}

// NewUseCase создает новый экземпляр use case. cache может быть nil.
func NewUseCase(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	resolver *availability.Resolver,
	cache Cache,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		scheduleRepo: scheduleRepo,
		resolver:     resolver,
		cache:        cache,
		logger:       logger,
	}
}

// Execute возвращает свободные интервалы, допустимые начала и, если задано
// начало, допустимые длительности
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if req.Start != nil && !req.Start.Valid() {
		return nil, fmt.Errorf("%w: invalid start %s", ErrInvalidInput, req.Start)
	}

	uc.logger.Info("GetFreeIntervals: date=%s", req.Date.Format(domain.DateFormat))

	schedule, override, err := uc.loadSchedule(ctx, req.Date)
	if err != nil {
		uc.logger.Error("GetFreeIntervals: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	var exclude *domain.Interval
	if req.ExcludeBookingID != nil {
		exclude, err = uc.excludedInterval(ctx, *req.ExcludeBookingID, req.Date)
		if err != nil {
			return nil, err
		}
	}

	free, err := uc.freeIntervals(ctx, req.Date, schedule, override, exclude)
	if err != nil {
		uc.logger.Error("GetFreeIntervals: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	resp := &Response{
		Date:        req.Date,
		Kind:        uc.resolver.Classify(req.Date),
		Free:        free,
		StartTimes:  uc.resolver.ValidStartTimes(free),
		StepMinutes: int(uc.resolver.SlotStep() / time.Minute),
	}
	if window, open := uc.resolver.Window(req.Date, schedule, override); open {
		resp.Open = true
		resp.Window = &window
	}
	if req.Start != nil {
		resp.Durations = uc.resolver.ValidDurations(free, *req.Start)
	}

	return resp, nil
}

// Compute рассчитывает свободные интервалы без кеша. Внутри транзакции
// брони даты читаются с блокировкой.
func (uc *UseCase) Compute(ctx context.Context, date time.Time, exclude *domain.Interval) ([]domain.Interval, error) {
	schedule, override, err := uc.loadSchedule(ctx, date)
	if err != nil {
		return nil, err
	}

	booked, err := uc.bookedIntervals(ctx, date)
	if err != nil {
		return nil, err
	}

	return uc.resolver.Resolve(availability.Day{
		Date:     date,
		Schedule: schedule,
		Override: override,
		Booked:   booked,
	}, exclude), nil
}

func (uc *UseCase) freeIntervals(
	ctx context.Context,
	date time.Time,
	schedule domain.Schedule,
	override *domain.DayOverride,
	exclude *domain.Interval,
) ([]domain.Interval, error) {
	useCache := uc.cache != nil && exclude == nil

	// версию читаем до выборки броней
	var version string
	if useCache {
		free, v, ok, err := uc.cache.Get(ctx, date)
		if err != nil {
			uc.logger.Warn("GetFreeIntervals: cache read for %s failed: %v", date.Format(domain.DateFormat), err)
		}
		if ok {
			return free, nil
		}
		version = v
	}

	booked, err := uc.bookedIntervals(ctx, date)
	if err != nil {
		return nil, err
	}

	free := uc.resolver.Resolve(availability.Day{
		Date:     date,
		Schedule: schedule,
		Override: override,
		Booked:   booked,
	}, exclude)

	if useCache && version != "" {
		if err := uc.cache.Set(ctx, date, version, free); err != nil {
			uc.logger.Warn("GetFreeIntervals: cache write for %s failed: %v", date.Format(domain.DateFormat), err)
		}
	}

	return free, nil
}

func (uc *UseCase) loadSchedule(ctx context.Context, date time.Time) (domain.Schedule, *domain.DayOverride, error) {
	schedule, err := uc.scheduleRepo.GetPolicies(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("get day policies: %w", err)
	}

	override, err := uc.scheduleRepo.GetOverride(ctx, date)
	if errors.Is(err, scheduleRepo.ErrOverrideNotFound) {
		return schedule, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("get override for %s: %w", date.Format(domain.DateFormat), err)
	}

	return schedule, override, nil
}

func (uc *UseCase) bookedIntervals(ctx context.Context, date time.Time) ([]domain.Interval, error) {
	bookings, err := uc.bookingRepo.GetWithFilter(ctx, domain.BookingsFilter{
		StartDate: &date,
		EndDate:   &date,
		Statuses:  domain.ActiveStatuses,
	})
	if err != nil {
		return nil, fmt.Errorf("get bookings for %s: %w", date.Format(domain.DateFormat), err)
	}

	booked := make([]domain.Interval, 0, len(bookings))
	for _, b := range bookings {
		if b.OccupiesSlot() {
			booked = append(booked, b.Interval())
		}
	}
	return booked, nil
}

// excludedInterval интервал брони, если она активна и приходится на date
func (uc *UseCase) excludedInterval(ctx context.Context, bookingID int64, date time.Time) (*domain.Interval, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, bookingID)
	if errors.Is(err, bookingRepo.ErrBookingNotFound) {
		uc.logger.Warn("GetFreeIntervals: excluded booking id=%d not found", bookingID)
		return nil, ErrBookingNotFound
	}
	if err != nil {
		uc.logger.Error("GetFreeIntervals: failed to get booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	if !booking.OccupiesSlot() || !types.SameDate(booking.BookingDate, date) {
		return nil, nil
	}

	iv := booking.Interval()
	return &iv, nil
}
