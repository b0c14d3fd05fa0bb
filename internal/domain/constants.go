package domain

// Default slot configuration values
const (
	DefaultSlotDurationMinutes     = 30
	DefaultBufferMinutes           = 0
	DefaultAdvanceBookingDays      = 0  // 0 = unlimited
	DefaultMinBookingNoticeMinutes = 60 // 1 hour
	DefaultHoldTTLSeconds          = 300
)

// Business validation constants
const (
	MinSlotDurationMinutes      = 5
	MaxSlotDurationMinutes      = 480 // 8 hours
	MinBufferMinutes            = 0
	MaxBufferMinutes            = 120
	MinAdvanceBookingDays       = 0
	MaxAdvanceBookingDays       = 365 // 1 year
	MinBookingNoticeMinutes     = 0
	MaxBookingNoticeMinutes     = 10080 // 1 week
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses список статусов, занимающих временной диапазон.
// Используется при подсчёте пересечений с доступными слотами.
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
}

// InactiveStatuses список статусов, освобождающих временной диапазон
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
}
