package update_day_policy

import (
	"context"

	"github.com/m04kA/BTR-BookingService/internal/service/schedule/models"
)

type ScheduleService interface {
	UpdatePolicy(ctx context.Context, req *models.UpdatePolicyRequest) (*models.PolicyResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
