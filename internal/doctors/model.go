package doctors

import (
	"strconv"

	"github.com/docassist/platform/internal/upstream"
)

// DayAvailability is one row of a doctor's weekly schedule.
type DayAvailability struct {
	DayOfWeek   int    `json:"day_of_week"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsAvailable bool   `json:"is_available"`
}

// Doctor is the normalized catalog entry.
type Doctor struct {
	ID           int64             `json:"id"`
	Name         string            `json:"name"`
	Specialty    string            `json:"specialty"`
	Fee          float64           `json:"fee"`
	Availability []DayAvailability `json:"availability,omitempty"`
}

// FromRaw normalizes an upstream doctor record. The consultation fee
// arrives as a string; unparseable fees collapse to zero rather than
// dropping the doctor.
func FromRaw(raw upstream.RawDoctor) Doctor {
	fee, err := strconv.ParseFloat(raw.Fee, 64)
	if err != nil {
		fee = 0
	}
	d := Doctor{
		ID:        raw.ID,
		Name:      raw.Name,
		Specialty: raw.Specialty,
		Fee:       fee,
	}
	for _, a := range raw.Availability {
		d.Availability = append(d.Availability, DayAvailability{
			DayOfWeek:   a.DayOfWeek,
			StartTime:   a.StartTime,
			EndTime:     a.EndTime,
			IsAvailable: a.IsAvailable,
		})
	}
	return d
}

// FromRawList normalizes a list, skipping doctors flagged inactive.
func FromRawList(raws []upstream.RawDoctor) []Doctor {
	out := make([]Doctor, 0, len(raws))
	for _, raw := range raws {
		if raw.IsActive != nil && !*raw.IsActive {
			continue
		}
		out = append(out, FromRaw(raw))
	}
	return out
}
