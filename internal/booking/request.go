package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/docassist/platform/internal/upstream"
)

// Slots is the fixed half-hour grid offered for every doctor: a morning
// window from 09:00 through 11:30 and an afternoon window from 14:00
// through 16:30.
var Slots = []string{
	"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
	"14:00", "14:30", "15:00", "15:30", "16:00", "16:30",
}

// Input is a raw booking form submission before validation.
type Input struct {
	DoctorID int64  `json:"doctor_id"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Reason   string `json:"reason"`
}

// NewRequest validates a form submission against the slot grid, the
// calendar, and the doctor's weekly availability, and returns the
// normalized upstream request. The now argument anchors the past-date
// check to the caller's clock.
func NewRequest(in Input, doctor *upstream.RawDoctor, now time.Time) (*upstream.BookRequest, error) {
	// Collect every missing required field so the form can report them
	// all at once instead of one per submission.
	var fields, labels []string
	if in.DoctorID <= 0 {
		fields, labels = append(fields, "doctor_id"), append(labels, "a doctor")
	}
	if strings.TrimSpace(in.Date) == "" {
		fields, labels = append(fields, "date"), append(labels, "an appointment date")
	}
	if strings.TrimSpace(in.Time) == "" {
		fields, labels = append(fields, "time"), append(labels, "an appointment time")
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		fields, labels = append(fields, "reason"), append(labels, "the reason for your visit")
	}
	if len(fields) > 0 {
		return nil, &ValidationError{
			Field:   fields[0],
			Message: "please provide " + strings.Join(labels, ", "),
		}
	}

	day, err := time.ParseInLocation("2006-01-02", in.Date, now.Location())
	if err != nil {
		return nil, &ValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"}
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if day.Before(today) {
		return nil, &ValidationError{
			Field:   "date",
			Message: fmt.Sprintf("appointment date cannot be in the past (today is %s)", today.Format("2006-01-02")),
		}
	}

	if !slotOffered(in.Time) {
		return nil, &ValidationError{Field: "time", Message: "please choose one of the offered time slots"}
	}

	if !dayAvailable(doctor, day.Weekday()) {
		name := "the doctor"
		if doctor != nil && doctor.Name != "" {
			name = doctor.Name
		}
		return nil, &ValidationError{
			Field:   "date",
			Message: fmt.Sprintf("%s is not available on %s", name, day.Weekday()),
		}
	}

	return &upstream.BookRequest{
		DoctorID: in.DoctorID,
		Date:     day.Format("2006-01-02"),
		Time:     in.Time,
		Reason:   reason,
	}, nil
}

func slotOffered(t string) bool {
	for _, s := range Slots {
		if s == t {
			return true
		}
	}
	return false
}

// dayAvailable applies the doctor's weekly availability table when one
// exists. Doctors without a table are treated as available Monday
// through Friday.
func dayAvailable(doctor *upstream.RawDoctor, weekday time.Weekday) bool {
	if doctor == nil || len(doctor.Availability) == 0 {
		return weekday >= time.Monday && weekday <= time.Friday
	}
	for _, a := range doctor.Availability {
		if time.Weekday(a.DayOfWeek) == weekday {
			return a.IsAvailable
		}
	}
	return false
}
