package appointments

import (
	"sort"
	"time"
)

// Partition splits appointments into upcoming and past buckets at the
// given instant. Upcoming holds scheduled or confirmed appointments
// whose date+time has not elapsed; everything else is past. Every
// appointment lands in exactly one bucket, and arrival order is kept
// within each.
func Partition(list []Appointment, now time.Time) (upcoming, past []Appointment) {
	upcoming = make([]Appointment, 0, len(list))
	past = make([]Appointment, 0, len(list))
	for _, a := range list {
		if isUpcoming(a, now) {
			upcoming = append(upcoming, a)
		} else {
			past = append(past, a)
		}
	}
	return upcoming, past
}

func isUpcoming(a Appointment, now time.Time) bool {
	if a.Status != StatusScheduled && a.Status != StatusConfirmed {
		return false
	}
	return !a.At(now.Location()).Before(now)
}

// UpcomingSoonest returns the n soonest upcoming appointments sorted
// ascending by date+time, for dashboard summaries.
func UpcomingSoonest(list []Appointment, now time.Time, n int) []Appointment {
	upcoming, _ := Partition(list, now)
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].At(now.Location()).Before(upcoming[j].At(now.Location()))
	})
	if n >= 0 && len(upcoming) > n {
		upcoming = upcoming[:n]
	}
	return upcoming
}

// ApplyCancel marks the appointment with the given id cancelled in
// place, so a list can reflect a cancellation without a refetch.
func ApplyCancel(list []Appointment, id int64) []Appointment {
	for i := range list {
		if list[i].ID == id {
			list[i].Status = StatusCancelled
		}
	}
	return list
}
