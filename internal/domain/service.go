package domain

import "time"

// Service represents a named offering sold by exactly one provider.
// Price and duration are snapshotted into bookings, so a Service may be
// edited or deactivated without touching existing history.
type Service struct {
	ID              int64
	ProviderID      int64
	Name            string
	Description     string
	Category        string
	DurationMinutes int
	Price           float64
	IsActive        bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
