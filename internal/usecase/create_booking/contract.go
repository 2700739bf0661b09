package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/BTR-BookingService/internal/domain"
	"github.com/m04kA/BTR-BookingService/internal/validation"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// RiderRepository интерфейс репозитория райдеров
type RiderRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Rider, error)
}

// FreeIntervalsProvider расчет свободного времени без кеша
type FreeIntervalsProvider interface {
	Compute(ctx context.Context, date time.Time, exclude *domain.Interval) ([]domain.Interval, error)
}

// Validator проверка заявки на бронь
type Validator interface {
	Validate(candidate validation.Candidate, free []domain.Interval, now time.Time) error
}

// Cache инвалидация кеша свободных интервалов
type Cache interface {
	Invalidate(ctx context.Context, dates ...time.Time) error
}

// Notifier рассылка событий брони после фиксации транзакции
type Notifier interface {
	Notify(ctx context.Context, ev domain.BookingEvent)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
