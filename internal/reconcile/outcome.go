package reconcile

import "github.com/docassist/platform/internal/appointments"

// State classifies a payment return. Processing is deliberately
// distinct from both Confirmed and Failed: a payment that succeeded at
// the processor but has not yet landed on the appointment record must
// read as in flight, never as success or failure.
type State int

const (
	// StateUnverified means no session identifier was present, so no
	// verification was attempted.
	StateUnverified State = iota
	// StateProcessing means verification ran but the two truth signals
	// do not both confirm payment yet.
	StateProcessing
	// StateConfirmed means the processor reports paid and the
	// appointment record agrees.
	StateConfirmed
	// StateFailed means verification itself failed.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUnverified:
		return "unverified"
	case StateProcessing:
		return "processing"
	case StateConfirmed:
		return "confirmed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the resolved view state for a payment return.
type Outcome struct {
	State             State
	SessionID         string
	Message           string
	PaymentStatus     string
	AppointmentStatus string
	AppointmentPaid   bool

	// Appointment is filled on a best-effort basis for authenticated
	// confirmed returns; nil otherwise.
	Appointment *appointments.Appointment
}
