package riders

import "errors"

var (
	// ErrRiderNotFound возвращается, когда профиль еще не заполнен
	ErrRiderNotFound = errors.New("rider not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
