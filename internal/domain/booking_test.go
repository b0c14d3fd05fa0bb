package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBooking_TransitionTo(t *testing.T) {
	cases := []struct {
		name    string
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{"pending to confirmed", StatusPending, StatusConfirmed, true},
		{"pending to cancelled", StatusPending, StatusCancelled, true},
		{"pending to completed", StatusPending, StatusCompleted, false},
		{"confirmed to completed", StatusConfirmed, StatusCompleted, true},
		{"confirmed to cancelled", StatusConfirmed, StatusCancelled, true},
		{"confirmed to pending", StatusConfirmed, StatusPending, false},
		{"completed to cancelled", StatusCompleted, StatusCancelled, false},
		{"completed to confirmed", StatusCompleted, StatusConfirmed, false},
		{"cancelled to pending", StatusCancelled, StatusPending, false},
		{"cancelled to confirmed", StatusCancelled, StatusConfirmed, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := &Booking{Status: tc.from}
			err := b.TransitionTo(tc.to)

			if tc.allowed {
				require.NoError(t, err)
				assert.Equal(t, tc.to, b.Status)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition)
				// Бронирование не изменилось
				assert.Equal(t, tc.from, b.Status)
			}
		})
	}
}

func TestBooking_IsTerminal(t *testing.T) {
	assert.False(t, (&Booking{Status: StatusPending}).IsTerminal())
	assert.False(t, (&Booking{Status: StatusConfirmed}).IsTerminal())
	assert.True(t, (&Booking{Status: StatusCompleted}).IsTerminal())
	assert.True(t, (&Booking{Status: StatusCancelled}).IsTerminal())
}

func TestBooking_CanTransitionTo(t *testing.T) {
	assert.True(t, (&Booking{Status: StatusPending}).CanTransitionTo(StatusCancelled))
	assert.True(t, (&Booking{Status: StatusConfirmed}).CanTransitionTo(StatusCancelled))
	assert.False(t, (&Booking{Status: StatusCompleted}).CanTransitionTo(StatusCancelled))
	assert.False(t, (&Booking{Status: StatusCancelled}).CanTransitionTo(StatusCancelled))
}

func TestBooking_IsActive(t *testing.T) {
	// Отмененное бронирование освобождает диапазон, остальные занимают
	assert.True(t, (&Booking{Status: StatusPending}).IsActive())
	assert.True(t, (&Booking{Status: StatusConfirmed}).IsActive())
	assert.True(t, (&Booking{Status: StatusCompleted}).IsActive())
	assert.False(t, (&Booking{Status: StatusCancelled}).IsActive())
}

func TestBooking_EndsBy(t *testing.T) {
	b := &Booking{
		BookingDate: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		EndTime:     "10:30",
	}

	assert.False(t, b.EndsBy(time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)))
	// Ровно в момент окончания диапазон считается прошедшим
	assert.True(t, b.EndsBy(time.Date(2025, 6, 2, 10, 30, 0, 0, time.UTC)))
	assert.True(t, b.EndsBy(time.Date(2025, 6, 2, 11, 0, 0, 0, time.UTC)))
	assert.True(t, b.EndsBy(time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)))
}
