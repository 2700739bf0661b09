package schedule

import (
	"github.com/m04kA/BTR-BookingService/pkg/dbmetrics"
)

type DBExecutor = dbmetrics.DBExecutor
