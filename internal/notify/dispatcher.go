package notify

import (
	"context"

	"github.com/m04kA/BTR-BookingService/internal/domain"
	"github.com/m04kA/BTR-BookingService/pkg/metrics"
)

// TaskQueue постановка фоновых задач
type TaskQueue interface {
	EnqueueDelivery(ctx context.Context, d Delivery, ev domain.BookingEvent) error
	EnqueueRankRecalculation(ctx context.Context, riderID int64, ev domain.BookingEvent) error
}

// EventPublisher внешняя шина событий
type EventPublisher interface {
	Publish(ctx context.Context, ev domain.BookingEvent) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Dispatcher рассылает последствия события: задачи уведомлений, пересчет
// ранга и публикация в шину. Ошибки только логируются: операция над бронью
// к этому моменту уже зафиксирована.
type Dispatcher struct {
	queue     TaskQueue
	publisher EventPublisher
	metrics   *metrics.Metrics
	log       Logger
}

// NewDispatcher publisher и m могут быть nil
func NewDispatcher(queue TaskQueue, publisher EventPublisher, m *metrics.Metrics, log Logger) *Dispatcher {
	return &Dispatcher{
		queue:     queue,
		publisher: publisher,
		metrics:   m,
		log:       log,
	}
}

// Notify обрабатывает событие брони
func (d *Dispatcher) Notify(ctx context.Context, ev domain.BookingEvent) {
	for _, delivery := range Plan(ev) {
		if err := d.queue.EnqueueDelivery(ctx, delivery, ev); err != nil {
			d.log.Error("Notify - enqueue %s/%s for booking %d failed: %v", delivery.Channel, delivery.Template, ev.Booking.ID, err)
			d.count(delivery, "enqueue_failed")
			continue
		}
		d.count(delivery, "enqueued")
	}

	if ev.Kind == domain.EventBookingCompleted && !ev.Booking.IsOnBehalf() {
		if err := d.queue.EnqueueRankRecalculation(ctx, ev.Booking.RiderID, ev); err != nil {
			d.log.Error("Notify - enqueue rank recalculation for rider %d failed: %v", ev.Booking.RiderID, err)
		}
	}

	if d.publisher != nil {
		if err := d.publisher.Publish(ctx, ev); err != nil {
			d.log.Warn("Notify - publish %s for booking %d failed: %v", ev.Kind, ev.Booking.ID, err)
		}
	}
}

func (d *Dispatcher) count(delivery Delivery, result string) {
	if d.metrics == nil {
		return
	}
	d.metrics.NotificationsTotal.WithLabelValues(string(delivery.Template), string(delivery.Channel), result).Inc()
}
