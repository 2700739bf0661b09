package get_free_intervals

import (
	"context"
	"time"

	"github.com/m04kA/BTR-BookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
}

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	GetPolicies(ctx context.Context) (domain.Schedule, error)
	GetOverride(ctx context.Context, date time.Time) (*domain.DayOverride, error)
}

// Cache кеш свободных интервалов по датам. Get отдает версию даты,
// Set пишет только под нее: сброс между чтением и записью делает запись невидимой.
type Cache interface {
	Get(ctx context.Context, date time.Time) ([]domain.Interval, string, bool, error)
	Set(ctx context.Context, date time.Time, version string, free []domain.Interval) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
