package transition_status

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("transition_status: invalid input data")

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("transition_status: booking not found")

	// ErrAccessDenied актор не может выполнить этот переход
	ErrAccessDenied = errors.New("transition_status: access denied")

	// ErrNoOpTransition бронь уже в запрошенном статусе
	ErrNoOpTransition = errors.New("transition_status: booking already has this status")

	// ErrInvalidTransition перехода нет в машине состояний
	ErrInvalidTransition = errors.New("transition_status: transition is not allowed")

	// ErrStatusConflict статус изменили параллельно
	ErrStatusConflict = errors.New("transition_status: status changed concurrently")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("transition_status: internal error")
)
