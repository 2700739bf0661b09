package rider

import "errors"

var (
	// ErrRiderNotFound профиль райдера не заполнен
	ErrRiderNotFound = errors.New("rider.repository: rider not found")

	ErrBuildQuery = errors.New("rider.repository: failed to build query")
	ErrExecQuery  = errors.New("rider.repository: failed to execute query")
	ErrScanRow    = errors.New("rider.repository: failed to scan row")
)
