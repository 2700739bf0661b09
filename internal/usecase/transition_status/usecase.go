package transition_status

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/BTR-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/BTR-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/BTR-BookingService/pkg/metrics"
)

// UseCase use case смены статуса брони
type UseCase struct {
	bookingRepo  BookingRepository
	cache        Cache
	notifier     Notifier
	txManager    TransactionManager
	metrics      *metrics.Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case. cache и m могут быть nil.
func NewUseCase(
	bookingRepo BookingRepository,
	cache Cache,
	notifier Notifier,
	txManager TransactionManager,
	m *metrics.Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		cache:        cache,
		notifier:     notifier,
		txManager:    txManager,
		metrics:      m,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute переводит бронь в новый статус.
// Запись выполняется через compare-and-set по прежнему статусу; проигравший
// гонку получает ErrNoOpTransition (если цель совпала) или ErrStatusConflict.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("TransitionStatus: booking=%d, status=%s, actor=%d(%s)",
		req.BookingID, req.Status, req.Actor.ID, req.Actor.Role)

	if req.BookingID <= 0 {
		return nil, fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}
	if !req.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.Status)
	}

	// 1. Текущее состояние
	booking, err := uc.getBooking(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	previous := booking.Status

	// 2. Права и машина состояний
	if err := checkAccess(req.Actor, booking, req.Status); err != nil {
		uc.logger.Warn("TransitionStatus: booking=%d: %v", req.BookingID, err)
		return nil, err
	}
	if err := checkTransition(previous, req.Status); err != nil {
		uc.logger.Warn("TransitionStatus: booking=%d: %v", req.BookingID, err)
		return nil, err
	}

	// 3. Compare-and-set и чтение результата
	var updated *domain.Booking
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := uc.bookingRepo.UpdateStatus(txCtx, req.BookingID, previous, req.Status); err != nil {
			return err
		}
		b, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			return err
		}
		updated = b
		return nil
	})

	if errors.Is(err, bookingRepo.ErrStatusMismatch) {
		return nil, uc.resolveLostRace(ctx, req)
	}
	if errors.Is(err, bookingRepo.ErrBookingNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		uc.logger.Error("TransitionStatus: failed to update booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to update status: %v", ErrInternal, err)
	}

	uc.logger.Info("TransitionStatus: booking=%d %s -> %s", req.BookingID, previous, req.Status)
	if uc.metrics != nil {
		uc.metrics.StatusChangesTotal.WithLabelValues(string(previous), string(req.Status)).Inc()
	}

	// 4. После фиксации: кеш и уведомления
	uc.afterCommit(ctx, req.Actor, updated, previous)

	return &Response{Booking: updated, Previous: previous}, nil
}

func (uc *UseCase) getBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, id)
	if errors.Is(err, bookingRepo.ErrBookingNotFound) {
		uc.logger.Warn("TransitionStatus: booking id=%d not found", id)
		return nil, ErrBookingNotFound
	}
	if err != nil {
		uc.logger.Error("TransitionStatus: failed to get booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}
	return booking, nil
}

// resolveLostRace перечитывает бронь после неудачного compare-and-set
func (uc *UseCase) resolveLostRace(ctx context.Context, req *Request) error {
	current, err := uc.getBooking(ctx, req.BookingID)
	if err != nil {
		return err
	}
	if current.Status == req.Status {
		uc.logger.Info("TransitionStatus: booking=%d already %s", req.BookingID, req.Status)
		return ErrNoOpTransition
	}
	uc.logger.Warn("TransitionStatus: booking=%d changed concurrently to %s", req.BookingID, current.Status)
	return fmt.Errorf("%w: current status %s", ErrStatusConflict, current.Status)
}

func (uc *UseCase) afterCommit(ctx context.Context, actor domain.Actor, b *domain.Booking, previous domain.BookingStatus) {
	ctx = context.WithoutCancel(ctx)

	if uc.cache != nil && previous.IsTerminal() != b.Status.IsTerminal() {
		if err := uc.cache.Invalidate(ctx, b.BookingDate); err != nil {
			uc.logger.Warn("TransitionStatus: cache invalidation for booking id=%d failed: %v", b.ID, err)
		}
	}

	kind, ok := domain.EventKindForStatus(b.Status)
	if !ok {
		return
	}
	uc.notifier.Notify(ctx, domain.NewBookingEvent(kind, b, actor, &previous, uc.timeProvider.Now()))
}

// checkAccess райдер может только отменить свою бронь; оператор и система - всё
func checkAccess(actor domain.Actor, b *domain.Booking, target domain.BookingStatus) error {
	if actor.IsOperator() || actor.IsSystem() {
		return nil
	}
	if !actor.Owns(b) {
		return fmt.Errorf("%w: booking belongs to another rider", ErrAccessDenied)
	}
	if target != domain.StatusCanceled {
		return fmt.Errorf("%w: riders can only cancel bookings", ErrAccessDenied)
	}
	return nil
}

func checkTransition(from, to domain.BookingStatus) error {
	if from == to {
		return ErrNoOpTransition
	}
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
