package domain

import (
	"time"

	"github.com/m04kA/BTR-BookingService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCanceled  BookingStatus = "canceled"
)

// Valid returns true for a known status
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCanceled:
		return true
	}
	return false
}

// IsTerminal returns true if nothing can follow the status
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCanceled
}

// CanTransitionTo reports whether the state machine has an edge s -> next.
// Same-state moves are not edges.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCanceled
	case StatusConfirmed:
		return next == StatusCanceled || next == StatusCompleted
	}
	return false
}

// Booking represents a bike rental reservation
type Booking struct {
	ID      int64
	RiderID int64

	// OnBehalfOfPhone телефон клиента без аккаунта, если бронь оформил оператор
	OnBehalfOfPhone *string

	BookingDate time.Time
	StartTime   types.Clock
	EndTime     types.Clock
	BikeCount   int
	Status      BookingStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Interval returns the booked time range
func (b *Booking) Interval() Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}

// OccupiesSlot returns true if the booking blocks its interval for others
func (b *Booking) OccupiesSlot() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeEdited returns true if date, time or bikes can still be changed
func (b *Booking) CanBeEdited() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsOnBehalf returns true for walk-in bookings made by an operator
func (b *Booking) IsOnBehalf() bool {
	return b.OnBehalfOfPhone != nil && *b.OnBehalfOfPhone != ""
}

// ContactPhone returns the walk-in phone when present, otherwise the owner's phone
func (b *Booking) ContactPhone(ownerPhone string) string {
	if b.IsOnBehalf() {
		return *b.OnBehalfOfPhone
	}
	return ownerPhone
}

// StartsAt returns the booking start as an instant in loc
func (b *Booking) StartsAt(loc *time.Location) time.Time {
	return b.StartTime.On(types.DateIn(b.BookingDate, loc))
}

// EndsAt returns the booking end as an instant in loc
func (b *Booking) EndsAt(loc *time.Location) time.Time {
	return b.EndTime.On(types.DateIn(b.BookingDate, loc))
}

// BookingsFilter фильтр выборки бронирований
type BookingsFilter struct {
	RiderID   *int64
	StartDate *time.Time
	EndDate   *time.Time
	Statuses  []BookingStatus // пусто = любые
}

// IsSingleDate returns true if the filter targets exactly one date
func (f BookingsFilter) IsSingleDate() bool {
	return f.StartDate != nil && f.EndDate != nil && types.SameDate(*f.StartDate, *f.EndDate)
}
