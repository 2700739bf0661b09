package schedule

import "errors"

var (
	// ErrPolicyNotFound политика для вида дня не задана
	ErrPolicyNotFound = errors.New("schedule.repository: day policy not found")

	// ErrOverrideNotFound исключения на дату нет
	ErrOverrideNotFound = errors.New("schedule.repository: day override not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("schedule.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("schedule.repository: failed to scan row")
)
