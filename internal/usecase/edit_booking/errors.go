package edit_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("edit_booking: invalid input data")

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("edit_booking: booking not found")

	// ErrAccessDenied редактировать может владелец или оператор
	ErrAccessDenied = errors.New("edit_booking: access denied")

	// ErrNotEditable бронь завершена или отменена
	ErrNotEditable = errors.New("edit_booking: booking can not be edited in its status")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("edit_booking: internal error")
)
