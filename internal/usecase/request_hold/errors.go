package request_hold

import "errors"

var (
	// ErrProviderNotFound возвращается, когда провайдер не найден
	ErrProviderNotFound = errors.New("request_hold: provider not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("request_hold: service not found")

	// ErrServiceNotAvailable возвращается, когда услуга выключена или
	// принадлежит другому провайдеру
	ErrServiceNotAvailable = errors.New("request_hold: service is not available")

	// ErrSlotConflict возвращается, когда диапазон уже занят бронированием
	// или чужим холдом
	ErrSlotConflict = errors.New("request_hold: slot conflict")

	// ErrProviderClosed возвращается, когда провайдер не работает в указанную дату
	ErrProviderClosed = errors.New("request_hold: provider is closed on this date")

	// ErrInvalidDate возвращается при некорректной дате бронирования
	ErrInvalidDate = errors.New("request_hold: invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("request_hold: date is too far in the future")

	// ErrInvalidTimeSlot возвращается, когда время не лежит на сетке слотов
	// или выходит за рабочие часы
	ErrInvalidTimeSlot = errors.New("request_hold: invalid time slot")

	// ErrTooLateToBook возвращается при нарушении minBookingNoticeMinutes
	ErrTooLateToBook = errors.New("request_hold: too late to book this slot")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("request_hold: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("request_hold: internal error")
)
