package edit_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/BTR-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/BTR-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/BTR-BookingService/internal/validation"
	"github.com/m04kA/BTR-BookingService/pkg/txmanager"
	"github.com/m04kA/BTR-BookingService/pkg/types"
)

// UseCase use case для изменения даты, времени и количества велосипедов брони
type UseCase struct {
	bookingRepo  BookingRepository
	freeProvider FreeIntervalsProvider
	validator    Validator
	cache        Cache
	notifier     Notifier
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case. cache может быть nil.
func NewUseCase(
	bookingRepo BookingRepository,
	freeProvider FreeIntervalsProvider,
	validator Validator,
	cache Cache,
	notifier Notifier,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		freeProvider: freeProvider,
		validator:    validator,
		cache:        cache,
		notifier:     notifier,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute изменяет бронь. Свободное время считается без учета самой брони,
// поэтому её можно сдвинуть внутри собственного интервала.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("EditBooking: booking=%d, actor=%d(%s), date=%s, %s-%s, bikes=%d",
		req.BookingID, req.Actor.ID, req.Actor.Role, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime, req.BikeCount)

	if req.BookingID <= 0 {
		return nil, fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	now := uc.timeProvider.Now()

	var (
		result  *domain.Booking
		oldDate time.Time
		changed bool
	)

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Бронь читается с блокировкой строки
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		if err != nil {
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		// 2. Права и статус
		if !req.Actor.IsOperator() && !req.Actor.Owns(booking) {
			return ErrAccessDenied
		}
		if !booking.CanBeEdited() {
			return fmt.Errorf("%w: status %s", ErrNotEditable, booking.Status)
		}

		oldDate = booking.BookingDate
		if isSameBooking(booking, req) {
			result = booking
			return nil
		}

		// 3. Свободное время новой даты без собственного интервала
		var exclude *domain.Interval
		if types.SameDate(booking.BookingDate, req.Date) {
			own := booking.Interval()
			exclude = &own
		}

		free, err := uc.freeProvider.Compute(txCtx, req.Date, exclude)
		if err != nil {
			return fmt.Errorf("%w: failed to compute free intervals: %v", ErrInternal, err)
		}

		candidate := validation.Candidate{
			Date:      req.Date,
			Interval:  domain.Interval{Start: req.StartTime, End: req.EndTime},
			BikeCount: req.BikeCount,
		}
		if err := uc.validator.Validate(candidate, free, now); err != nil {
			return err
		}

		// 4. Сохранение
		booking.BookingDate = req.Date
		booking.StartTime = req.StartTime
		booking.EndTime = req.EndTime
		booking.BikeCount = req.BikeCount
		if err := uc.bookingRepo.Update(txCtx, booking); err != nil {
			return err
		}

		result = booking
		changed = true
		return nil
	})

	if err != nil {
		return nil, uc.mapError(req.BookingID, err)
	}

	if !changed {
		uc.logger.Info("EditBooking: booking=%d unchanged", req.BookingID)
		return &Response{Booking: result}, nil
	}

	uc.logger.Info("EditBooking: booking=%d updated", req.BookingID)
	uc.afterCommit(ctx, req.Actor, result, oldDate, now)

	return &Response{Booking: result, Changed: true}, nil
}

func (uc *UseCase) mapError(bookingID int64, err error) error {
	switch {
	case errors.Is(err, ErrBookingNotFound), errors.Is(err, bookingRepo.ErrBookingNotFound):
		uc.logger.Warn("EditBooking: booking id=%d not found", bookingID)
		return ErrBookingNotFound
	case errors.Is(err, ErrAccessDenied), errors.Is(err, ErrNotEditable):
		uc.logger.Warn("EditBooking: booking id=%d: %v", bookingID, err)
		return err
	case errors.Is(err, bookingRepo.ErrSlotNotAvailable),
		errors.Is(err, bookingRepo.ErrConcurrentAccess),
		errors.Is(err, txmanager.ErrSerializationFailure):
		uc.logger.Warn("EditBooking: slot taken concurrently: %v", err)
		return fmt.Errorf("%w: %v", validation.ErrSlotUnavailable, err)
	}

	if _, ok := validation.AsErrors(err); ok {
		uc.logger.Warn("EditBooking: validation failed: %v", err)
		return err
	}

	uc.logger.Error("EditBooking: failed to edit booking id=%d: %v", bookingID, err)
	if errors.Is(err, ErrInternal) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrInternal, err)
}

func (uc *UseCase) afterCommit(ctx context.Context, actor domain.Actor, b *domain.Booking, oldDate, now time.Time) {
	ctx = context.WithoutCancel(ctx)

	if uc.cache != nil {
		dates := []time.Time{b.BookingDate}
		if !types.SameDate(oldDate, b.BookingDate) {
			dates = append(dates, oldDate)
		}
		if err := uc.cache.Invalidate(ctx, dates...); err != nil {
			uc.logger.Warn("EditBooking: cache invalidation for booking id=%d failed: %v", b.ID, err)
		}
	}

	uc.notifier.Notify(ctx, domain.NewBookingEvent(domain.EventBookingEdited, b, actor, nil, now))
}

func isSameBooking(b *domain.Booking, req *Request) bool {
	return types.SameDate(b.BookingDate, req.Date) &&
		b.StartTime == req.StartTime &&
		b.EndTime == req.EndTime &&
		b.BikeCount == req.BikeCount
}
