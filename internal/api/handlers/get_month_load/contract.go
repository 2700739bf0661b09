package get_month_load

import (
	"context"

	getMonthLoad "github.com/m04kA/BTR-BookingService/internal/usecase/get_month_load"
)

type GetMonthLoadUseCase interface {
	Execute(ctx context.Context, req *getMonthLoad.Request) (*getMonthLoad.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
