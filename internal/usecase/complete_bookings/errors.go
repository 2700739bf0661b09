package complete_bookings

import "errors"

// ErrInternal возвращается при внутренних ошибках usecase
var ErrInternal = errors.New("complete_bookings: internal error")
