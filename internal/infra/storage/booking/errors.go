package booking

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrSlotNotAvailable интервал пересекается с активной бронью (exclusion constraint)
	ErrSlotNotAvailable = errors.New("booking.repository: slot not available")

	// ErrConcurrentAccess параллельная транзакция изменила те же строки (40001, 40P01)
	ErrConcurrentAccess = errors.New("booking.repository: concurrent access")

	// ErrStatusMismatch статус брони отличается от ожидаемого при compare-and-set
	ErrStatusMismatch = errors.New("booking.repository: status mismatch")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)

const (
	pqUniqueViolation      = "23505"
	pqExclusionViolation   = "23P01"
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
)

// classify подменяет ошибку драйвера доменной, если код известен
func classify(err error, fallback error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqExclusionViolation, pqUniqueViolation:
			return ErrSlotNotAvailable
		case pqSerializationFailure, pqDeadlockDetected:
			return ErrConcurrentAccess
		}
	}
	return fallback
}
