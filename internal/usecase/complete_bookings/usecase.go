package complete_bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/BTR-BookingService/internal/domain"
	"github.com/m04kA/BTR-BookingService/internal/usecase/transition_status"
	"github.com/m04kA/BTR-BookingService/pkg/metrics"
)

// DefaultBatchSize сколько броней завершается за один проход
const DefaultBatchSize = 100

// UseCase завершает подтвержденные брони, время которых прошло
type UseCase struct {
	bookingRepo  BookingRepository
	transitioner StatusTransitioner
	location     *time.Location
	batchSize    int
	metrics      *metrics.Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case. m может быть nil.
func NewUseCase(
	bookingRepo BookingRepository,
	transitioner StatusTransitioner,
	location *time.Location,
	batchSize int,
	m *metrics.Metrics,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		transitioner: transitioner,
		location:     location,
		batchSize:    batchSize,
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

// Execute один проход. Ошибка отдельной брони не прерывает проход.
func (uc *UseCase) Execute(ctx context.Context) (*Response, error) {
	now := uc.timeProvider.Now()

	due, err := uc.bookingRepo.GetDueForCompletion(ctx, now, uc.location, uc.batchSize)
	if err != nil {
		uc.logger.Error("CompleteBookings: failed to get due bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get due bookings: %v", ErrInternal, err)
	}

	resp := &Response{Due: len(due)}
	for _, b := range due {
		if err := ctx.Err(); err != nil {
			return resp, err
		}

		_, err := uc.transitioner.Execute(ctx, &transition_status.Request{
			BookingID: b.ID,
			Status:    domain.StatusCompleted,
			Actor:     domain.SystemActor,
		})

		switch {
		case err == nil:
			resp.Completed++
			uc.count("completed")
		case errors.Is(err, transition_status.ErrNoOpTransition),
			errors.Is(err, transition_status.ErrStatusConflict),
			errors.Is(err, transition_status.ErrInvalidTransition),
			errors.Is(err, transition_status.ErrBookingNotFound):
			resp.Skipped++
			uc.count("skipped")
		default:
			resp.Failed++
			uc.count("failed")
			uc.logger.Error("CompleteBookings: booking id=%d: %v", b.ID, err)
		}
	}

	if resp.Due > 0 {
		uc.logger.Info("CompleteBookings: due=%d completed=%d skipped=%d failed=%d",
			resp.Due, resp.Completed, resp.Skipped, resp.Failed)
	}

	return resp, nil
}

func (uc *UseCase) count(result string) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.SweepCompletedTotal.WithLabelValues(result).Inc()
}
