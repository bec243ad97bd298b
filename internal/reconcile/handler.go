package reconcile

import (
	"encoding/json"
	"net/http"

	"github.com/docassist/platform/internal/appointments"
	"github.com/docassist/platform/internal/observability/metrics"
	"github.com/docassist/platform/internal/session"
	"github.com/docassist/platform/pkg/logging"
)

// Handler serves the payment return page state. The route is public:
// visitors arriving from the payment processor's redirect may not have
// an active session and must never be bounced to a login.
type Handler struct {
	reconciler *Reconciler
	metrics    *metrics.GatewayMetrics
	logger     *logging.Logger
}

// NewHandler creates a new payment return handler.
func NewHandler(reconciler *Reconciler, m *metrics.GatewayMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		reconciler: reconciler,
		metrics:    m,
		logger:     logger,
	}
}

// ReturnResponse is the resolved view state for a payment return.
type ReturnResponse struct {
	State             string                    `json:"state"`
	Message           string                    `json:"message"`
	SessionID         string                    `json:"session_id,omitempty"`
	PaymentStatus     string                    `json:"payment_status,omitempty"`
	AppointmentStatus string                    `json:"appointment_status,omitempty"`
	AppointmentPaid   bool                      `json:"appointment_paid"`
	Appointment       *appointments.Appointment `json:"appointment,omitempty"`
	RetryPath         string                    `json:"retry_path,omitempty"`
}

// Return handles GET /payments/return requests. Every outcome renders
// as a 200 view state; the state field tells the client what to show.
func (h *Handler) Return(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	sessionID := r.URL.Query().Get("session_id")

	out := h.reconciler.Resolve(r.Context(), sess, sessionID)
	h.metrics.ObserveVerification(out.State.String())

	resp := ReturnResponse{
		State:             out.State.String(),
		Message:           out.Message,
		SessionID:         out.SessionID,
		PaymentStatus:     out.PaymentStatus,
		AppointmentStatus: out.AppointmentStatus,
		AppointmentPaid:   out.AppointmentPaid,
		Appointment:       out.Appointment,
	}
	if out.State == StateFailed || out.State == StateProcessing {
		resp.RetryPath = "/appointments"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
