package edit_booking

import (
	"time"

	"github.com/m04kA/BTR-BookingService/internal/domain"
	"github.com/m04kA/BTR-BookingService/pkg/types"
)

// Request модель запроса на изменение брони
type Request struct {
	BookingID int64
	Actor     domain.Actor
	Date      time.Time
	StartTime types.Clock
	EndTime   types.Clock
	BikeCount int
}

// Response бронь после изменения
type Response struct {
	Booking *domain.Booking
	Changed bool // false, если параметры совпали с текущими
}
