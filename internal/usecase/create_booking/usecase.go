package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/BTR-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/BTR-BookingService/internal/infra/storage/booking"
	riderRepo "github.com/m04kA/BTR-BookingService/internal/infra/storage/rider"
	"github.com/m04kA/BTR-BookingService/internal/validation"
	"github.com/m04kA/BTR-BookingService/pkg/txmanager"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	riderRepo    RiderRepository
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
	riderRepo RiderRepository,
	freeProvider FreeIntervalsProvider,
	validator Validator,
	cache Cache,
	notifier Notifier,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		riderRepo:    riderRepo,
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

// Execute выполняет use case создания бронирования.
// Новая бронь всегда в статусе pending. Проверка свободного времени и
// вставка выполняются в одной сериализуемой транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: actor=%d(%s), date=%s, %s-%s, bikes=%d",
		req.Actor.ID, req.Actor.Role, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime, req.BikeCount)

	// 1. Валидация входных данных и прав
	if err := uc.validateRequest(ctx, req); err != nil {
		uc.logger.Warn("CreateBooking: request rejected: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	candidate := validation.Candidate{
		Date:      req.Date,
		Interval:  domain.Interval{Start: req.StartTime, End: req.EndTime},
		BikeCount: req.BikeCount,
	}

	var result *domain.Booking

	// 2. Проверка и вставка в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		free, err := uc.freeProvider.Compute(txCtx, req.Date, nil)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to compute free intervals: %v", err)
			return fmt.Errorf("%w: failed to compute free intervals: %v", ErrInternal, err)
		}

		if err := uc.validator.Validate(candidate, free, now); err != nil {
			uc.logger.Warn("CreateBooking: validation failed: %v", err)
			return err
		}

		created, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
			RiderID:         req.Actor.ID,
			OnBehalfOfPhone: req.OnBehalfOfPhone,
			BookingDate:     req.Date,
			StartTime:       req.StartTime,
			EndTime:         req.EndTime,
			BikeCount:       req.BikeCount,
			Status:          domain.StatusPending,
		})
		if err != nil {
			return err
		}

		result = created
		return nil
	})

	if err != nil {
		if isSlotConflict(err) {
			uc.logger.Warn("CreateBooking: slot taken concurrently: %v", err)
			return nil, fmt.Errorf("%w: %v", validation.ErrSlotUnavailable, err)
		}
		if _, ok := validation.AsErrors(err); ok || errors.Is(err, ErrInternal) {
			return nil, err
		}
		uc.logger.Error("CreateBooking: failed to create booking: %v", err)
		return nil, fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	// 3. После фиксации: кеш и уведомления
	uc.afterCommit(ctx, req.Actor, result, now)

	return &Response{Booking: result}, nil
}

func (uc *UseCase) validateRequest(ctx context.Context, req *Request) error {
	if req.Actor.ID <= 0 {
		return fmt.Errorf("%w: actor id must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.OnBehalfOfPhone != nil {
		if !req.Actor.IsOperator() {
			return fmt.Errorf("%w: only operators can book for another phone", ErrAccessDenied)
		}
		if err := validation.ValidatePhone(*req.OnBehalfOfPhone); err != nil {
			return err
		}
		return nil
	}

	if req.Actor.IsOperator() {
		return nil
	}

	// Для самостоятельной брони нужен профиль: телефон и почта для уведомлений
	_, err := uc.riderRepo.GetByID(ctx, req.Actor.ID)
	if errors.Is(err, riderRepo.ErrRiderNotFound) {
		return ErrRiderNotFound
	}
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get rider id=%d: %v", req.Actor.ID, err)
		return fmt.Errorf("%w: failed to get rider: %v", ErrInternal, err)
	}
	return nil
}

func (uc *UseCase) afterCommit(ctx context.Context, actor domain.Actor, b *domain.Booking, now time.Time) {
	ctx = context.WithoutCancel(ctx)

	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx, b.BookingDate); err != nil {
			uc.logger.Warn("CreateBooking: cache invalidation for booking id=%d failed: %v", b.ID, err)
		}
	}

	uc.notifier.Notify(ctx, domain.NewBookingEvent(domain.EventBookingCreated, b, actor, nil, now))
}

// isSlotConflict параллельная транзакция заняла интервал
func isSlotConflict(err error) bool {
	return errors.Is(err, bookingRepo.ErrSlotNotAvailable) ||
		errors.Is(err, bookingRepo.ErrConcurrentAccess) ||
		errors.Is(err, txmanager.ErrSerializationFailure)
}
