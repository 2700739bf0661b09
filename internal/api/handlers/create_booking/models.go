package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/BTR-BookingService/internal/domain"
	createBooking "github.com/m04kA/BTR-BookingService/internal/usecase/create_booking"
	"github.com/m04kA/BTR-BookingService/internal/validation"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	BookingDate     string  `json:"bookingDate"` // "2026-10-19"
	StartTime       string  `json:"startTime"`   // "18:00"
	EndTime         string  `json:"endTime"`     // "20:00"
	BikeCount       int     `json:"bikeCount"`
	OnBehalfOfPhone *string `json:"onBehalfOfPhone,omitempty"` // только для операторов
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// Ошибки разбора - ошибки пакета validation.
func (r *CreateBookingRequest) ToUseCaseRequest(actor domain.Actor, loc *time.Location) (*createBooking.Request, error) {
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

	req := &createBooking.Request{
		Actor:     actor,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		BikeCount: r.BikeCount,
	}
	if r.OnBehalfOfPhone != nil {
		phone := strings.TrimSpace(*r.OnBehalfOfPhone)
		req.OnBehalfOfPhone = &phone
	}

	return req, nil
}
