package day_override

import (
	"context"
	"time"

	"github.com/m04kA/BTR-BookingService/internal/domain"
	"github.com/m04kA/BTR-BookingService/internal/service/schedule/models"
)

type ScheduleService interface {
	UpsertOverride(ctx context.Context, req *models.UpsertOverrideRequest) (*models.OverrideResponse, error)
	DeleteOverride(ctx context.Context, actor domain.Actor, date time.Time) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
