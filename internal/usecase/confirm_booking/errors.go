package confirm_booking

import "errors"

var (
	// ErrHoldNotFound возвращается, когда холд не найден в индексе
	ErrHoldNotFound = errors.New("confirm_booking: hold not found")

	// ErrHoldExpired возвращается, когда TTL холда истек до подтверждения
	ErrHoldExpired = errors.New("confirm_booking: hold expired")

	// ErrAccessDenied возвращается, когда холд принадлежит другому клиенту
	ErrAccessDenied = errors.New("confirm_booking: access denied")

	// ErrSlotConflict возвращается, когда диапазон уже занят бронированием
	ErrSlotConflict = errors.New("confirm_booking: slot conflict")

	// ErrPaymentFailed возвращается, когда платежный сервис отклонил платеж
	ErrPaymentFailed = errors.New("confirm_booking: payment failed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("confirm_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("confirm_booking: internal error")
)
