package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Hold is a short-lived exclusive claim on a provider's time range, placed
// before confirmation. Holds are ephemeral: they live only in the
// availability index and vanish on expiry or process restart.
type Hold struct {
	ID         string // uuid
	ProviderID int64
	ServiceID  int64
	ClientID   int64

	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString

	// Snapshot of the service at hold time
	ServiceName  string
	ServicePrice float64

	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired reports whether the hold's TTL has elapsed.
func (h *Hold) IsExpired(now time.Time) bool {
	return !now.Before(h.ExpiresAt)
}

// Overlaps reports whether the hold's range overlaps [start, end) on the
// given date. Touching boundaries do not count as overlap.
func (h *Hold) Overlaps(date time.Time, start, end types.TimeString) bool {
	if !sameDay(h.Date, date) {
		return false
	}
	return h.StartTime.IsBefore(end) && h.EndTime.IsAfter(start)
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
