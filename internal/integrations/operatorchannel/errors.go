package operatorchannel

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("operatorchannel client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе API
	ErrInvalidResponse = errors.New("operatorchannel client: invalid response")

	// ErrAPI API вернул ошибку в теле ответа
	ErrAPI = errors.New("operatorchannel client: api error")

	// ErrRateLimited ожидание лимита прервано контекстом
	ErrRateLimited = errors.New("operatorchannel client: rate limit wait aborted")
)
