package queue

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/m04kA/BTR-BookingService/internal/domain"
	"github.com/m04kA/BTR-BookingService/internal/notify"
)

const (
	// TypeDeliverNotification письмо райдеру или сообщение операторам
	TypeDeliverNotification = "notify:deliver"

	// TypeRecalculateRank пересчет ранга райдера после завершения брони
	TypeRecalculateRank = "rider:recalculate_rank"
)

// DeliveryPayload полезная нагрузка TypeDeliverNotification
type DeliveryPayload struct {
	Delivery notify.Delivery     `json:"delivery"`
	Event    domain.BookingEvent `json:"event"`
}

// RankPayload полезная нагрузка TypeRecalculateRank
type RankPayload struct {
	RiderID int64     `json:"rider_id"`
	EventID uuid.UUID `json:"event_id"`
}

// NewDeliveryTask задача доставки. TaskID детерминирован: повторная
// постановка того же уведомления отбрасывается очередью.
func NewDeliveryTask(d notify.Delivery, ev domain.BookingEvent) (*asynq.Task, error) {
	b, err := json.Marshal(DeliveryPayload{Delivery: d, Event: ev})
	if err != nil {
		return nil, fmt.Errorf("marshal delivery payload: %w", err)
	}
	id := uuid.NewSHA1(ev.ID, []byte(string(d.Channel)+":"+string(d.Template)))
	return asynq.NewTask(TypeDeliverNotification, b, asynq.TaskID(id.String())), nil
}

// NewRankTask задача пересчета ранга
func NewRankTask(riderID int64, ev domain.BookingEvent) (*asynq.Task, error) {
	b, err := json.Marshal(RankPayload{RiderID: riderID, EventID: ev.ID})
	if err != nil {
		return nil, fmt.Errorf("marshal rank payload: %w", err)
	}
	id := uuid.NewSHA1(ev.ID, []byte(TypeRecalculateRank))
	return asynq.NewTask(TypeRecalculateRank, b, asynq.TaskID(id.String())), nil
}

// ParseDeliveryPayload разбирает полезную нагрузку задачи доставки
func ParseDeliveryPayload(task *asynq.Task) (DeliveryPayload, error) {
	var p DeliveryPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	return p, nil
}

// ParseRankPayload разбирает полезную нагрузку задачи пересчета ранга
func ParseRankPayload(task *asynq.Task) (RankPayload, error) {
	var p RankPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	return p, nil
}
