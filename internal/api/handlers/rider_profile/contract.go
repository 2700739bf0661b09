package rider_profile

import (
	"context"

	"github.com/m04kA/BTR-BookingService/internal/service/riders/models"
)

type RiderService interface {
	GetProfile(ctx context.Context, riderID int64) (*models.ProfileResponse, error)
	UpsertProfile(ctx context.Context, req *models.UpsertProfileRequest) (*models.ProfileResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
