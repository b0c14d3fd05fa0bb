package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// DaySchedule represents working hours for a single weekday
type DaySchedule struct {
	IsOpen    bool
	OpenTime  *types.TimeString // nil when closed
	CloseTime *types.TimeString // nil when closed
}

// WeekSchedule represents the provider's working hours for the whole week
type WeekSchedule struct {
	Monday    DaySchedule
	Tuesday   DaySchedule
	Wednesday DaySchedule
	Thursday  DaySchedule
	Friday    DaySchedule
	Saturday  DaySchedule
	Sunday    DaySchedule
}

// For returns the schedule for the given weekday.
func (w WeekSchedule) For(weekday time.Weekday) DaySchedule {
	switch weekday {
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	case time.Saturday:
		return w.Saturday
	case time.Sunday:
		return w.Sunday
	default:
		return DaySchedule{IsOpen: false}
	}
}

// Provider represents a service provider with its slot configuration.
// Candidate slots are never stored: they are derived from the schedule,
// only booked/held status is tracked elsewhere.
type Provider struct {
	ID       int64
	Name     string
	Timezone string

	Schedule WeekSchedule

	SlotDurationMinutes     int
	BufferMinutes           int // пауза между слотами
	AdvanceBookingDays      int // 0 = unlimited
	MinBookingNoticeMinutes int

	IsActive bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SlotStepMinutes returns the distance between consecutive slot starts.
func (p *Provider) SlotStepMinutes() int {
	return p.SlotDurationMinutes + p.BufferMinutes
}

// HasAdvanceBookingLimit returns true if there's a limit on how far in advance bookings can be made
func (p *Provider) HasAdvanceBookingLimit() bool {
	return p.AdvanceBookingDays > 0
}
