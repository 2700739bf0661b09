package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventKind событие жизненного цикла брони. Значение совпадает с routing key.
type EventKind string

const (
	EventBookingCreated   EventKind = "booking.created"
	EventBookingConfirmed EventKind = "booking.confirmed"
	EventBookingCanceled  EventKind = "booking.canceled"
	EventBookingCompleted EventKind = "booking.completed"
	EventBookingEdited    EventKind = "booking.edited"
)

// EventKindForStatus событие перехода в статус
func EventKindForStatus(s BookingStatus) (EventKind, bool) {
	switch s {
	case StatusConfirmed:
		return EventBookingConfirmed, true
	case StatusCanceled:
		return EventBookingCanceled, true
	case StatusCompleted:
		return EventBookingCompleted, true
	}
	return "", false
}

// eventNamespace пространство имен для детерминированных id событий
var eventNamespace = uuid.MustParse("8f5a3c52-6d1e-4d8b-9a57-3f0c2b1e9d44")

// BookingSnapshot состояние брони на момент события
type BookingSnapshot struct {
	ID              int64         `json:"id"`
	RiderID         int64         `json:"rider_id"`
	OnBehalfOfPhone *string       `json:"on_behalf_of_phone,omitempty"`
	Date            string        `json:"date"`
	StartTime       string        `json:"start_time"`
	EndTime         string        `json:"end_time"`
	BikeCount       int           `json:"bike_count"`
	Status          BookingStatus `json:"status"`
}

// SnapshotOf снимок брони для уведомлений
func SnapshotOf(b *Booking) BookingSnapshot {
	return BookingSnapshot{
		ID:              b.ID,
		RiderID:         b.RiderID,
		OnBehalfOfPhone: b.OnBehalfOfPhone,
		Date:            b.BookingDate.Format(DateFormat),
		StartTime:       b.StartTime.String(),
		EndTime:         b.EndTime.String(),
		BikeCount:       b.BikeCount,
		Status:          b.Status,
	}
}

// IsOnBehalf бронь оформлена оператором для клиента без аккаунта
func (s BookingSnapshot) IsOnBehalf() bool {
	return s.OnBehalfOfPhone != nil && *s.OnBehalfOfPhone != ""
}

// BookingEvent событие, которое рассылается после фиксации транзакции
type BookingEvent struct {
	ID         uuid.UUID       `json:"id"`
	Kind       EventKind       `json:"kind"`
	Booking    BookingSnapshot `json:"booking"`
	Previous   *BookingStatus  `json:"previous,omitempty"`
	ActorID    int64           `json:"actor_id"`
	ActorRole  ActorRole       `json:"actor_role"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewBookingEvent создает событие. ID зависит от брони, вида события и
// момента изменения брони, поэтому повторная отправка того же события
// дедуплицируется очередью.
func NewBookingEvent(kind EventKind, b *Booking, actor Actor, previous *BookingStatus, at time.Time) BookingEvent {
	changedAt := b.UpdatedAt
	if changedAt.IsZero() {
		changedAt = at
	}
	key := fmt.Sprintf("%d:%s:%s:%d", b.ID, kind, b.Status, changedAt.UnixNano())

	return BookingEvent{
		ID:         uuid.NewSHA1(eventNamespace, []byte(key)),
		Kind:       kind,
		Booking:    SnapshotOf(b),
		Previous:   previous,
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		OccurredAt: at,
	}
}

// SelfService true, если событие инициировал сам владелец брони
func (e BookingEvent) SelfService() bool {
	return e.ActorRole == RoleRider && e.ActorID == e.Booking.RiderID
}
