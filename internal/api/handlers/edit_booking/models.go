package edit_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/BTR-BookingService/internal/domain"
	editBooking "github.com/m04kA/BTR-BookingService/internal/usecase/edit_booking"
	"github.com/m04kA/BTR-BookingService/internal/validation"
)

// EditBookingRequest HTTP request model. Передаются все поля, даже неизменные.
type EditBookingRequest struct {
	BookingDate string `json:"bookingDate"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	BikeCount   int    `json:"bikeCount"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *EditBookingRequest) ToUseCaseRequest(bookingID int64, actor domain.Actor, loc *time.Location) (*editBooking.Request, error) {
	date, err := validation.ParseDate(r.BookingDate, loc)
	if err != nil {
		return nil, err
	}

	start, err := validation.ParseClock(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("startTime: %w", err)
	}

	end, err := validation.ParseEndClock(r.EndTime)
	if err != nil {
		return nil, fmt.Errorf("endTime: %w", err)
	}

	return &editBooking.Request{
		BookingID: bookingID,
		Actor:     actor,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		BikeCount: r.BikeCount,
	}, nil
}
