package domain

import "github.com/m04kA/SMC-AppointmentService/pkg/types"

// Slot represents a candidate bookable time range derived from the
// provider's working hours. A slot is not a stored entity: its existence is
// computed, only the booked/held status of its range is tracked.
type Slot struct {
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	Price           float64
	Available       bool
}
