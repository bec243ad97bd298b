package appointments

import (
	"time"

	"github.com/docassist/platform/internal/upstream"
)

// Appointment status values.
const (
	StatusScheduled = "scheduled"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no-show"
)

// Payment status values.
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// Appointment is the normalized record served to clients. The raw
// record's status field can lag behind the payment outcome, so the
// displayed status is derived, never passed through untouched.
type Appointment struct {
	ID            int64  `json:"id"`
	UserID        int64  `json:"user_id"`
	DoctorID      int64  `json:"doctor_id"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Reason        string `json:"reason"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	Notes         string `json:"notes,omitempty"`
	CreatedAt     string `json:"created_at,omitempty"`
	UpdatedAt     string `json:"updated_at,omitempty"`
}

// FromRaw normalizes a raw upstream record. A paid appointment still
// marked scheduled displays as confirmed; terminal statuses (completed,
// cancelled, no-show) are kept as stored.
func FromRaw(raw upstream.RawAppointment) Appointment {
	status := raw.Status
	if status == "" {
		status = StatusScheduled
	}
	if raw.Paid && status == StatusScheduled {
		status = StatusConfirmed
	}

	payment := raw.PaymentStatus
	if payment == "" {
		payment = PaymentPending
	}
	if raw.Paid && payment == PaymentPending {
		payment = PaymentPaid
	}

	return Appointment{
		ID:            raw.ID,
		UserID:        raw.UserID,
		DoctorID:      raw.DoctorID,
		Date:          raw.Date,
		Time:          raw.Time,
		Reason:        raw.Reason,
		Status:        status,
		PaymentStatus: payment,
		Notes:         raw.Notes,
		CreatedAt:     raw.CreatedAt,
		UpdatedAt:     raw.UpdatedAt,
	}
}

// FromRawList normalizes a list, preserving arrival order.
func FromRawList(raws []upstream.RawAppointment) []Appointment {
	out := make([]Appointment, 0, len(raws))
	for _, raw := range raws {
		out = append(out, FromRaw(raw))
	}
	return out
}

// At combines the stored date and wall-clock time into an instant in
// the given location. Unparseable records collapse to the zero time,
// which sorts them into the past bucket.
func (a Appointment) At(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	ts, err := time.ParseInLocation("2006-01-02 15:04", a.Date+" "+a.Time, loc)
	if err != nil {
		return time.Time{}
	}
	return ts
}
