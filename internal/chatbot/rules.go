package chatbot

import "strings"

// Reply is a chatbot answer plus quick-reply suggestions.
type Reply struct {
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
}

var greetingKeywords = []string{"hello", "hi", "hey", "good morning", "good afternoon", "good evening"}
var doctorKeywords = []string{"doctor", "physician", "specialist", "find doctor", "available doctors", "show doctors"}
var appointmentKeywords = []string{"appointment", "book", "schedule", "my appointments", "cancel appointment"}
var faqKeywords = []string{"how", "what", "when", "where", "why", "faq", "help", "hours", "cost", "insurance"}
var emergencyKeywords = []string{"emergency", "urgent", "pain", "chest pain", "difficulty breathing", "911"}

// specialtyDescriptions maps a recognized specialty keyword to what its
// practitioners treat.
var specialtyDescriptions = map[string]string{
	"cardiology":  "heart and cardiovascular conditions",
	"dermatology": "skin, hair, and nail conditions",
	"pediatrics":  "children's health and development",
	"orthopedics": "bones, joints, and musculoskeletal system",
	"neurology":   "brain and nervous system disorders",
	"psychiatry":  "mental health and behavioral disorders",
}

// intent classifies a message into one of the rule buckets.
type intent int

const (
	intentUnknown intent = iota
	intentGreeting
	intentDoctor
	intentAppointment
	intentFAQ
	intentSpecialty
	intentEmergency
)

// classify checks the rule buckets in a fixed order; the first match
// wins.
func classify(message string) intent {
	m := strings.ToLower(message)
	switch {
	case containsAny(m, greetingKeywords):
		return intentGreeting
	case containsAny(m, doctorKeywords):
		return intentDoctor
	case containsAny(m, appointmentKeywords):
		return intentAppointment
	case containsAny(m, faqKeywords):
		return intentFAQ
	case matchSpecialty(m) != "":
		return intentSpecialty
	case containsAny(m, emergencyKeywords):
		return intentEmergency
	default:
		return intentUnknown
	}
}

func containsAny(message string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(message, k) {
			return true
		}
	}
	return false
}

func matchSpecialty(message string) string {
	for specialty := range specialtyDescriptions {
		if strings.Contains(message, specialty) {
			return specialty
		}
	}
	return ""
}

func faqReply(message string) Reply {
	m := strings.ToLower(message)
	switch {
	case strings.Contains(m, "hours") || strings.Contains(m, "open"):
		return Reply{
			Message:     "Our clinic is open Monday to Friday 8:00 AM to 6:00 PM, Saturday 9:00 AM to 4:00 PM, and Sunday 10:00 AM to 2:00 PM for emergencies only. You can book appointments online around the clock.",
			Suggestions: []string{"Book appointment", "Emergency contacts", "Find doctors"},
		}
	case strings.Contains(m, "cost") || strings.Contains(m, "price") || strings.Contains(m, "fee"):
		return Reply{
			Message:     "Consultation fees vary by specialist: general consultations run $150-200, specialist consultations $200-300, and follow-up visits $100-150. We accept most major insurance plans.",
			Suggestions: []string{"Book appointment", "Insurance information", "Find doctors"},
		}
	case strings.Contains(m, "insurance"):
		return Reply{
			Message:     "We accept most major insurance plans, including Blue Cross Blue Shield, Aetna, Cigna, UnitedHealthcare, and Medicare/Medicaid. Please bring your insurance card to your appointment.",
			Suggestions: []string{"Book appointment", "Contact us", "Find doctors"},
		}
	case strings.Contains(m, "cancel") || strings.Contains(m, "reschedule"):
		return Reply{
			Message:     "To cancel or reschedule, visit your appointments page online or call us at least 24 hours in advance. Same-day cancellations may incur a fee.",
			Suggestions: []string{"View my appointments", "Contact us", "Book new appointment"},
		}
	default:
		return Reply{
			Message:     "I can answer questions about clinic hours, consultation fees and insurance, booking or cancelling appointments, and emergency contacts. What would you like to know?",
			Suggestions: []string{"Clinic hours", "Consultation fees", "Insurance info", "Emergency contacts"},
		}
	}
}

func emergencyReply() Reply {
	return Reply{
		Message:     "If this is a medical emergency, call 911 or go to your nearest emergency room immediately. For urgent but non-life-threatening concerns, our clinic accepts same-day urgent visits during opening hours.",
		Suggestions: []string{"Clinic hours", "Find doctors"},
	}
}
