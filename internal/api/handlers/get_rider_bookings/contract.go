package get_rider_bookings

import (
	"context"

	"github.com/m04kA/BTR-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	GetRiderBookings(ctx context.Context, req *models.GetRiderBookingsRequest) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
