package domain

import "time"

// EventType identifies a booking lifecycle event
type EventType string

const (
	EventBookingConfirmed EventType = "booking.confirmed"
	EventBookingCancelled EventType = "booking.cancelled"
	EventBookingCompleted EventType = "booking.completed"
)

// BookingEvent is emitted on every booking lifecycle transition.
// Notification, chat and video collaborators subscribe to these; the core
// never calls them directly.
type BookingEvent struct {
	Type       EventType
	BookingID  int64
	ClientID   int64
	ProviderID int64
	OccurredAt time.Time
}
