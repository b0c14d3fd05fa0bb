package payments

import "errors"

var (
	// ErrPaymentDeclined возвращается, когда платежный сервис отклонил авторизацию
	ErrPaymentDeclined = errors.New("payments: authorization declined")

	// ErrInvalidResponse возвращается при некорректном ответе платежного сервиса
	ErrInvalidResponse = errors.New("payments: invalid response")

	// ErrInternal возвращается при ошибках выполнения запроса
	ErrInternal = errors.New("payments: internal error")
)
