package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrAccessDenied бронь на чужой телефон может оформить только оператор
	ErrAccessDenied = errors.New("create_booking: access denied")

	// ErrRiderNotFound райдер не заполнил профиль
	ErrRiderNotFound = errors.New("create_booking: rider profile not found")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
