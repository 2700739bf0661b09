package notifications

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/m04kA/BTR-BookingService/internal/domain"
	"github.com/m04kA/BTR-BookingService/internal/infra/queue"
	riderRepo "github.com/m04kA/BTR-BookingService/internal/infra/storage/rider"
	"github.com/m04kA/BTR-BookingService/internal/notify"
	"github.com/m04kA/BTR-BookingService/pkg/metrics"
)

// Handler обработчики фоновых задач уведомлений
type Handler struct {
	riders      RiderRepository
	bookings    BookingCounter
	mailer      Mailer
	operators   OperatorChannel
	directory   OperatorDirectory
	bookingsURL string
	metrics     *metrics.Metrics
	log         Logger
}

// Config зависимости обработчика. Metrics может быть nil.
type Config struct {
	Riders      RiderRepository
	Bookings    BookingCounter
	Mailer      Mailer
	Operators   OperatorChannel
	Directory   OperatorDirectory
	BookingsURL string
	Metrics     *metrics.Metrics
	Log         Logger
}

func NewHandler(cfg Config) *Handler {
	return &Handler{
		riders:      cfg.Riders,
		bookings:    cfg.Bookings,
		mailer:      cfg.Mailer,
		operators:   cfg.Operators,
		directory:   cfg.Directory,
		bookingsURL: cfg.BookingsURL,
		metrics:     cfg.Metrics,
		log:         cfg.Log,
	}
}

// Register регистрирует обработчики в mux
func (h *Handler) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(queue.TypeDeliverNotification, h.HandleDelivery)
	mux.HandleFunc(queue.TypeRecalculateRank, h.HandleRankRecalculation)
}

// Mux отдельный mux только с этими обработчиками
func (h *Handler) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	h.Register(mux)
	return mux
}

// HandleDelivery отправляет одно уведомление. Возврат ошибки означает
// повторную попытку средствами очереди.
func (h *Handler) HandleDelivery(ctx context.Context, task *asynq.Task) error {
	p, err := queue.ParseDeliveryPayload(task)
	if err != nil {
		h.log.Error("HandleDelivery: invalid payload: %v", err)
		return err
	}

	ev := p.Event
	rider, err := h.lookupRider(ctx, ev.Booking)
	if err != nil {
		h.count(p.Delivery, "failed")
		return err
	}

	data := messageData{
		Booking:     ev.Booking,
		BookingsURL: h.bookingsURL,
	}
	if rider != nil {
		data.RiderName = rider.Name
		data.Phone = rider.Phone
	}
	if ev.Booking.IsOnBehalf() {
		data.Phone = *ev.Booking.OnBehalfOfPhone
	}

	subject, body, err := render(p.Delivery.Template, data)
	if err != nil {
		h.log.Error("HandleDelivery: booking %d: %v", ev.Booking.ID, err)
		h.count(p.Delivery, "failed")
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	switch p.Delivery.Channel {
	case notify.ChannelRiderEmail:
		if ev.Booking.IsOnBehalf() || rider == nil || rider.Email == "" {
			h.log.Info("HandleDelivery: booking %d has no rider email, %s skipped", ev.Booking.ID, p.Delivery.Template)
			h.count(p.Delivery, "skipped")
			return nil
		}
		err = h.mailer.Send(ctx, rider.Email, subject, body)

	case notify.ChannelOperatorMessage:
		err = h.operators.Send(ctx, body)

	default:
		h.log.Warn("HandleDelivery: unknown channel %q", p.Delivery.Channel)
		h.count(p.Delivery, "skipped")
		return nil
	}

	if err != nil {
		h.log.Error("HandleDelivery: %s/%s for booking %d failed: %v",
			p.Delivery.Channel, p.Delivery.Template, ev.Booking.ID, err)
		h.count(p.Delivery, "failed")
		return err
	}

	h.log.Info("HandleDelivery: %s/%s for booking %d sent", p.Delivery.Channel, p.Delivery.Template, ev.Booking.ID)
	h.count(p.Delivery, "sent")
	return nil
}

// HandleRankRecalculation пересчитывает ранг по числу завершенных броней
func (h *Handler) HandleRankRecalculation(ctx context.Context, task *asynq.Task) error {
	p, err := queue.ParseRankPayload(task)
	if err != nil {
		h.log.Error("HandleRankRecalculation: invalid payload: %v", err)
		return err
	}

	if h.directory != nil && h.directory.IsOperator(p.RiderID) {
		return nil
	}

	rider, err := h.riders.GetByID(ctx, p.RiderID)
	if errors.Is(err, riderRepo.ErrRiderNotFound) {
		h.log.Info("HandleRankRecalculation: rider %d has no profile, skipped", p.RiderID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get rider %d: %w", p.RiderID, err)
	}

	completed, err := h.bookings.CountCompletedByRider(ctx, p.RiderID)
	if err != nil {
		return fmt.Errorf("count completed bookings of rider %d: %w", p.RiderID, err)
	}

	rank := domain.RankFor(completed)
	if rank == rider.Rank {
		return nil
	}

	if err := h.riders.UpdateRank(ctx, p.RiderID, rank); err != nil {
		return fmt.Errorf("update rank of rider %d: %w", p.RiderID, err)
	}

	h.log.Info("HandleRankRecalculation: rider %d rank %s -> %s (%d completed)", p.RiderID, rider.Rank, rank, completed)
	return nil
}

// lookupRider профиль владельца брони; nil, если профиля нет или бронь
// оформлена на клиента без аккаунта
func (h *Handler) lookupRider(ctx context.Context, b domain.BookingSnapshot) (*domain.Rider, error) {
	if b.IsOnBehalf() {
		return nil, nil
	}

	rider, err := h.riders.GetByID(ctx, b.RiderID)
	if errors.Is(err, riderRepo.ErrRiderNotFound) {
		return nil, nil
	}
	if err != nil {
		h.log.Error("HandleDelivery: get rider %d: %v", b.RiderID, err)
		return nil, fmt.Errorf("get rider %d: %w", b.RiderID, err)
	}
	return rider, nil
}

func (h *Handler) count(d notify.Delivery, result string) {
	if h.metrics == nil {
		return
	}
	h.metrics.NotificationsTotal.WithLabelValues(string(d.Template), string(d.Channel), result).Inc()
}
