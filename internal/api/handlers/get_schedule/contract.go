package get_schedule

import (
	"context"

	"github.com/m04kA/BTR-BookingService/internal/service/schedule/models"
)

type ScheduleService interface {
	GetPolicies(ctx context.Context) (*models.PoliciesResponse, error)
	GetOverrides(ctx context.Context, req *models.GetOverridesRequest) (*models.OverrideListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
