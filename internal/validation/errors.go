package validation

import (
	"errors"
	"strings"

	"github.com/m04kA/BTR-BookingService/internal/domain"
)

var (
	// ErrPastStartTime начало брони не позже текущего момента
	ErrPastStartTime = errors.New("validation: start time is in the past")

	// ErrSlotUnavailable интервал не помещается ни в один свободный
	ErrSlotUnavailable = errors.New("validation: slot is not available")

	// ErrNonIntegralDuration длительность не кратна шагу бронирования
	ErrNonIntegralDuration = domain.ErrNonIntegralDuration

	// ErrInvalidBikeCount количество велосипедов вне допустимых границ
	ErrInvalidBikeCount = errors.New("validation: invalid bike count")

	// ErrInvalidDateFormat дата не в формате YYYY-MM-DD
	ErrInvalidDateFormat = errors.New("validation: invalid date format, expected YYYY-MM-DD")

	// ErrInvalidTimeFormat время не в формате HH:MM
	ErrInvalidTimeFormat = errors.New("validation: invalid time format, expected HH:MM")

	// ErrInvalidPhone телефон не в формате +7XXXXXXXXXX
	ErrInvalidPhone = errors.New("validation: invalid phone number, expected +7XXXXXXXXXX")
)

// Errors набор нарушений. errors.Is срабатывает на каждое из них.
type Errors []error

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

func (e Errors) Unwrap() []error {
	return e
}

// AsErrors достает набор нарушений из цепочки ошибок.
// Одиночная ошибка валидации возвращается как набор из одного элемента.
func AsErrors(err error) (Errors, bool) {
	if err == nil {
		return nil, false
	}
	var errs Errors
	if errors.As(err, &errs) {
		return errs, true
	}
	for _, sentinel := range []error{
		ErrPastStartTime,
		ErrSlotUnavailable,
		ErrNonIntegralDuration,
		ErrInvalidBikeCount,
		ErrInvalidDateFormat,
		ErrInvalidTimeFormat,
		ErrInvalidPhone,
	} {
		if errors.Is(err, sentinel) {
			return Errors{err}, true
		}
	}
	return nil, false
}
