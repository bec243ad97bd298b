package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/docassist/platform/internal/observability/metrics"
	"github.com/docassist/platform/internal/session"
	"github.com/docassist/platform/internal/upstream"
	"github.com/docassist/platform/pkg/logging"
)

// Handler serves the current user's appointment views.
type Handler struct {
	client  *upstream.Client
	metrics *metrics.GatewayMetrics
	logger  *logging.Logger
	now     func() time.Time
}

// NewHandler creates a new appointments handler.
func NewHandler(client *upstream.Client, m *metrics.GatewayMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		client:  client,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// ListResponse is the partitioned appointment list.
type ListResponse struct {
	Upcoming []Appointment `json:"upcoming"`
	Past     []Appointment `json:"past"`
}

// List handles GET /appointments requests.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	raws, err := h.client.ListAppointments(r.Context(), sess)
	if err != nil {
		h.writeUpstreamError(w, "failed to list appointments", err)
		return
	}

	upcoming, past := Partition(FromRawList(raws), h.now())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ListResponse{Upcoming: upcoming, Past: past})
}

// SummaryResponse is the dashboard widget payload.
type SummaryResponse struct {
	Upcoming []Appointment `json:"upcoming"`
	Total    int           `json:"total"`
}

// Summary handles GET /appointments/summary requests, returning the
// three soonest upcoming appointments.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	raws, err := h.client.ListAppointments(r.Context(), sess)
	if err != nil {
		h.writeUpstreamError(w, "failed to load appointment summary", err)
		return
	}

	list := FromRawList(raws)
	soonest := UpcomingSoonest(list, h.now(), 3)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SummaryResponse{Upcoming: soonest, Total: len(list)})
}

// Cancel handles POST /appointments/{id}/cancel requests. The response
// always shows the appointment as cancelled once the record store
// accepts the request, even if the returned record lags.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing appointment id")
		return
	}

	sess := session.FromContext(r.Context())

	raw, err := h.client.CancelAppointment(r.Context(), sess, id)
	if err != nil {
		h.metrics.ObserveCancellation("error")
		h.writeUpstreamError(w, "failed to cancel appointment", err)
		return
	}

	appt := FromRaw(*raw)
	appt.Status = StatusCancelled

	h.logger.Info("appointment cancelled", "appointment_id", appt.ID)
	h.metrics.ObserveCancellation("ok")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(appt)
}

func (h *Handler) writeUpstreamError(w http.ResponseWriter, msg string, err error) {
	if errors.Is(err, upstream.ErrNotFound) {
		writeError(w, http.StatusNotFound, "appointment not found")
		return
	}
	if apiErr, ok := upstream.IsAPIError(err); ok {
		h.logger.Warn(msg, "status", apiErr.StatusCode, "message", apiErr.Message)
		writeError(w, apiErr.StatusCode, apiErr.Message)
		return
	}
	h.logger.Error(msg, "error", err)
	writeError(w, http.StatusBadGateway, "the appointment service is unavailable, please try again")
}

func writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
