package domain

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// BookingStatus represents the lifecycle status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// PaymentStatus represents the payment state of a booking
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// ErrInvalidTransition is returned when a booking status change violates the
// lifecycle state machine (e.g. any transition out of a terminal state).
var ErrInvalidTransition = errors.New("domain: invalid booking status transition")

// Booking represents a persisted appointment in the system.
// Service name and price are snapshotted at hold time so later catalog
// changes never rewrite history.
type Booking struct {
	ID         int64
	ClientID   int64
	ProviderID int64
	ServiceID  int64

	BookingDate time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString

	Status        BookingStatus
	PaymentStatus PaymentStatus

	// Denormalized data for history
	ServiceName  string
	ServicePrice float64
	Notes        *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// transitions is the booking lifecycle table:
// pending -> confirmed | cancelled
// confirmed -> completed | cancelled
// completed and cancelled are terminal.
var transitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

// CanTransitionTo reports whether the booking may move to the given status.
func (b *Booking) CanTransitionTo(target BookingStatus) bool {
	for _, allowed := range transitions[b.Status] {
		if allowed == target {
			return true
		}
	}
	return false
}

// TransitionTo moves the booking to the given status, enforcing the
// lifecycle table. Transitions out of terminal states fail with
// ErrInvalidTransition and leave the booking untouched.
func (b *Booking) TransitionTo(target BookingStatus) error {
	if !b.CanTransitionTo(target) {
		return ErrInvalidTransition
	}
	b.Status = target
	return nil
}

// IsTerminal returns true if the booking is in a terminal state
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCompleted || b.Status == StatusCancelled
}

// IsActive returns true if the booking still occupies its time range
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// EndsBy reports whether the booked range has fully elapsed at the given
// moment (used by the completion sweep).
func (b *Booking) EndsBy(now time.Time) bool {
	y, m, d := b.BookingDate.Date()
	end := time.Date(y, m, d, b.EndTime.Minutes()/60, b.EndTime.Minutes()%60, 0, 0, now.Location())
	return !end.After(now)
}

// ProviderBookingsFilter фильтр для получения бронирований провайдера
type ProviderBookingsFilter struct {
	ProviderID      int64          // Обязательный параметр
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отмененные бронирования
}
