package chatbot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/docassist/platform/internal/appointments"
	"github.com/docassist/platform/internal/doctors"
	"github.com/docassist/platform/internal/session"
	"github.com/docassist/platform/internal/upstream"
	"github.com/docassist/platform/pkg/logging"
)

// Service answers patient messages. Recognized intents get rule-based
// replies backed by live doctor and appointment data; unrecognized
// messages fall through to the LLM when one is configured.
type Service struct {
	catalog *doctors.Catalog
	client  *upstream.Client
	llm     LLMClient
	logger  *logging.Logger
	now     func() time.Time
}

// NewService creates a chatbot service. The LLM client is optional.
func NewService(catalog *doctors.Catalog, client *upstream.Client, llm LLMClient, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		catalog: catalog,
		client:  client,
		llm:     llm,
		logger:  logger,
		now:     time.Now,
	}
}

// Process answers one message.
func (s *Service) Process(ctx context.Context, sess session.Session, message string) Reply {
	switch classify(message) {
	case intentGreeting:
		return greetingReply(sess)
	case intentDoctor:
		return s.doctorReply(ctx)
	case intentAppointment:
		return s.appointmentReply(ctx, sess, message)
	case intentFAQ:
		return faqReply(message)
	case intentSpecialty:
		return s.specialtyReply(ctx, message)
	case intentEmergency:
		return emergencyReply()
	default:
		return s.fallbackReply(ctx, message)
	}
}

// greetingReply welcomes the visitor, acknowledging a signed-in
// session when one is present.
func greetingReply(sess session.Session) Reply {
	if sess.Authenticated {
		return Reply{
			Message:     "Welcome back! I'm here to help you with your healthcare needs. What can I assist you with today?",
			Suggestions: []string{"View my appointments", "Book appointment", "Find doctors", "Healthcare FAQs"},
		}
	}
	return Reply{
		Message:     "Hello! I'm here to help you with your healthcare needs. What can I assist you with today?",
		Suggestions: []string{"Find doctors", "Book appointment", "View my appointments", "Healthcare FAQs"},
	}
}

func (s *Service) doctorReply(ctx context.Context) Reply {
	list, err := s.catalog.List(ctx)
	if err != nil || len(list) == 0 {
		return Reply{
			Message:     "I can help you find doctors. We have specialists in cardiology, dermatology, pediatrics, and more. Would you like to see our available doctors?",
			Suggestions: []string{"Show all doctors", "Search by specialty"},
		}
	}

	var b strings.Builder
	b.WriteString("Here are some of our available doctors:\n")
	shown := list
	if len(shown) > 3 {
		shown = shown[:3]
	}
	for _, d := range shown {
		fmt.Fprintf(&b, "- %s, %s ($%.0f consultation)\n", d.Name, d.Specialty, d.Fee)
	}
	if len(list) > 3 {
		fmt.Fprintf(&b, "And %d more doctors available.\n", len(list)-3)
	}
	b.WriteString("Would you like to book an appointment?")

	return Reply{
		Message:     b.String(),
		Suggestions: []string{"Book appointment", "View all doctors", "Search by specialty"},
	}
}

func (s *Service) appointmentReply(ctx context.Context, sess session.Session, message string) Reply {
	if !sess.Authenticated {
		return Reply{
			Message:     "To book or view appointments, you need to be signed in. Please sign in to your account first.",
			Suggestions: []string{"Sign in", "Create account"},
		}
	}

	m := strings.ToLower(message)
	if strings.Contains(m, "my appointments") || strings.Contains(m, "view appointments") {
		raws, err := s.client.ListAppointments(ctx, sess)
		if err == nil {
			upcoming, _ := appointments.Partition(appointments.FromRawList(raws), s.now())
			if len(upcoming) == 0 {
				return Reply{
					Message:     "You don't have any upcoming appointments. Would you like to book one?",
					Suggestions: []string{"Book appointment", "Find doctors"},
				}
			}
			var b strings.Builder
			fmt.Fprintf(&b, "You have %d upcoming appointment(s):\n", len(upcoming))
			shown := upcoming
			if len(shown) > 2 {
				shown = shown[:2]
			}
			for _, a := range shown {
				fmt.Fprintf(&b, "- %s at %s\n", a.Date, a.Time)
			}
			b.WriteString("Would you like to view all your appointments or book a new one?")
			return Reply{
				Message:     b.String(),
				Suggestions: []string{"View all appointments", "Book new appointment", "Cancel appointment"},
			}
		}
		s.logger.Warn("chatbot appointment lookup failed", "error", err)
	}

	if strings.Contains(m, "book") || strings.Contains(m, "schedule") {
		return Reply{
			Message:     "I can help you book an appointment. I'll need the specialist you want to see, your preferred date and time, and the reason for your visit. Would you like to see our available doctors first?",
			Suggestions: []string{"Show available doctors", "Book with cardiologist", "Book with dermatologist"},
		}
	}

	return Reply{
		Message:     "I can help you with appointments. You can book new appointments, view existing ones, or cancel if needed.",
		Suggestions: []string{"Book appointment", "View my appointments"},
	}
}

func (s *Service) specialtyReply(ctx context.Context, message string) Reply {
	specialty := matchSpecialty(strings.ToLower(message))
	description := specialtyDescriptions[specialty]

	list, err := s.catalog.List(ctx)
	if err == nil {
		var matched []doctors.Doctor
		for _, d := range list {
			if strings.Contains(strings.ToLower(d.Specialty), specialty) {
				matched = append(matched, d)
			}
		}
		if len(matched) > 0 {
			var b strings.Builder
			fmt.Fprintf(&b, "Our %s specialists treat %s. Here are our available doctors:\n", specialty, description)
			for _, d := range matched {
				fmt.Fprintf(&b, "- %s ($%.0f consultation)\n", d.Name, d.Fee)
			}
			b.WriteString("Would you like to book an appointment with any of these specialists?")
			return Reply{
				Message:     b.String(),
				Suggestions: []string{"Book " + specialty + " appointment", "View doctor profiles", "Other specialties"},
			}
		}
	}

	return Reply{
		Message:     fmt.Sprintf("Our %s specialists treat %s. Let me check our available doctors for you.", specialty, description),
		Suggestions: []string{"Show all doctors", "Book appointment"},
	}
}

func (s *Service) fallbackReply(ctx context.Context, message string) Reply {
	if s.llm != nil {
		answer, err := s.llm.Reply(ctx, message)
		if err == nil && answer != "" {
			return Reply{
				Message:     answer,
				Suggestions: []string{"Find doctors", "Book appointment", "Healthcare FAQs"},
			}
		}
		s.logger.Warn("chatbot llm fallback failed", "error", err)
	}
	return Reply{
		Message:     fmt.Sprintf("I understand you're asking about %q. I can help with finding doctors, booking appointments, viewing your appointment history, healthcare FAQs, and emergency contacts. Could you be more specific?", message),
		Suggestions: []string{"Show available doctors", "Book an appointment", "Healthcare FAQs", "Emergency contacts"},
	}
}
