package create_booking

import (
	"time"

	"github.com/m04kA/BTR-BookingService/internal/domain"
	"github.com/m04kA/BTR-BookingService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	Actor           domain.Actor // Кто оформляет бронь
	Date            time.Time    // Дата бронирования (без времени)
	StartTime       types.Clock  // Начало
	EndTime         types.Clock  // Конец
	BikeCount       int          // Количество велосипедов
	OnBehalfOfPhone *string      // Телефон клиента без аккаунта (только оператор)
}

// Response созданная бронь
type Response struct {
	Booking *domain.Booking
}
