package domain

import "time"

// Default business rules
const (
	DefaultMinBikes       = 1
	DefaultMaxBikes       = 4
	DefaultSlotStep       = time.Hour
	DefaultWeekendStart   = time.Friday
	DefaultFacilityTZName = "Europe/Moscow"
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы бронирований, занимающих слот
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

// InactiveStatuses статусы бронирований, которые слот не занимают
var InactiveStatuses = []BookingStatus{
	StatusCompleted,
	StatusCanceled,
}
