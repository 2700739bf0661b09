package riders

import (
	"context"

	"github.com/m04kA/BTR-BookingService/internal/domain"
)

// RiderRepository интерфейс репозитория профилей
type RiderRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Rider, error)
	Upsert(ctx context.Context, rider *domain.Rider) (*domain.Rider, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
