package availability

import "errors"

var (
	// ErrSlotConflict возвращается, когда запрошенный диапазон пересекается
	// с активным бронированием или неистекшим холдом
	ErrSlotConflict = errors.New("availability: slot conflict")

	// ErrHoldNotFound возвращается, когда холд не найден (истек и был убран,
	// либо никогда не существовал)
	ErrHoldNotFound = errors.New("availability: hold not found")

	// ErrInternal возвращается при ошибках обращения к хранилищу бронирований
	ErrInternal = errors.New("availability: internal error")
)
