package change_booking_status

import "github.com/m04kA/BTR-BookingService/internal/service/bookings/models"

// ChangeStatusRequest HTTP request model
type ChangeStatusRequest struct {
	Status string `json:"status"` // confirmed, canceled, completed
}

// ChangeStatusResponse бронь после перехода и прежний статус
type ChangeStatusResponse struct {
	Booking        *models.BookingResponse `json:"booking"`
	PreviousStatus string                  `json:"previousStatus"`
}
