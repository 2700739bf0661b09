package schedule

import (
	"context"
	"time"

	"github.com/m04kA/BTR-BookingService/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	GetPolicies(ctx context.Context) (domain.Schedule, error)
	UpsertPolicy(ctx context.Context, policy *domain.DayPolicy) (*domain.DayPolicy, error)
	GetOverrides(ctx context.Context, from, to time.Time) ([]*domain.DayOverride, error)
	UpsertOverride(ctx context.Context, override *domain.DayOverride) (*domain.DayOverride, error)
	DeleteOverride(ctx context.Context, date time.Time) error
}

// Cache кеш свободных интервалов
type Cache interface {
	Invalidate(ctx context.Context, dates ...time.Time) error
	InvalidateAll(ctx context.Context) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
