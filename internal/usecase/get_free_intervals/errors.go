package get_free_intervals

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_free_intervals: invalid input data")

	// ErrBookingNotFound исключаемая бронь не найдена
	ErrBookingNotFound = errors.New("get_free_intervals: booking not found")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_free_intervals: internal error")
)
