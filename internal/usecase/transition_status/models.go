package transition_status

import "github.com/m04kA/BTR-BookingService/internal/domain"

// Request модель запроса на смену статуса
type Request struct {
	BookingID int64
	Status    domain.BookingStatus
	Actor     domain.Actor
}

// Response бронь после перехода
type Response struct {
	Booking  *domain.Booking
	Previous domain.BookingStatus
}
