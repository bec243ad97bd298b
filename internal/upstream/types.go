package upstream

// RawAppointment is an appointment record as the record store returns it.
// Field names follow the server's wire format; callers normalize through
// the appointments package before display.
type RawAppointment struct {
	ID            int64  `json:"id"`
	UserID        int64  `json:"user_id"`
	DoctorID      int64  `json:"doctor_id"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Reason        string `json:"reason"`
	Status        string `json:"status"`
	Paid          bool   `json:"paid"`
	Notes         string `json:"notes"`
	PaymentStatus string `json:"payment_status"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// RawDoctor is a doctor record as the record store returns it.
// Fee arrives as a string and is parsed during normalization.
type RawDoctor struct {
	ID           int64             `json:"id"`
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	Phone        string            `json:"phone"`
	Specialty    string            `json:"specialty"`
	Bio          string            `json:"bio"`
	Fee          string            `json:"fee"`
	Experience   int               `json:"experience"`
	Rating       float64           `json:"rating"`
	TotalReviews int               `json:"total_reviews"`
	ImageURL     string            `json:"image_url"`
	IsActive     *bool             `json:"is_active"`
	Availability []RawAvailability `json:"availability"`
}

// RawAvailability is one weekday entry of a doctor's availability table.
type RawAvailability struct {
	DayOfWeek   int    `json:"dayOfWeek"` // 0 = Sunday .. 6 = Saturday
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	IsAvailable bool   `json:"isAvailable"`
}

// CheckoutSession is the record store's response to a booking submission.
// The appointment is initiated, not confirmed: the caller must hand the
// browser off to CheckoutURL and wait for webhook-confirmed state.
type CheckoutSession struct {
	CheckoutURL string `json:"checkout_url"`
}

// VerifyResult carries both truth signals for a payment session: the
// processor-side payment status and the domain-side appointment state.
type VerifyResult struct {
	PaymentStatus     string `json:"payment_status"`
	AppointmentStatus string `json:"appointment_status"`
	AppointmentPaid   bool   `json:"appointment_paid"`
}

// BookRequest is the booking submission payload.
type BookRequest struct {
	DoctorID int64  `json:"doctor_id"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Reason   string `json:"reason"`
}
