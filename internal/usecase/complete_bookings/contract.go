package complete_bookings

import (
	"context"
	"time"

	"github.com/m04kA/BTR-BookingService/internal/domain"
	"github.com/m04kA/BTR-BookingService/internal/usecase/transition_status"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetDueForCompletion(ctx context.Context, now time.Time, loc *time.Location, limit int) ([]*domain.Booking, error)
}

// StatusTransitioner смена статуса тем же путем, что и у операторов
type StatusTransitioner interface {
	Execute(ctx context.Context, req *transition_status.Request) (*transition_status.Response, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
