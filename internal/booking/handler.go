package booking

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/docassist/platform/internal/observability/metrics"
	"github.com/docassist/platform/internal/session"
	"github.com/docassist/platform/internal/upstream"
	"github.com/docassist/platform/pkg/logging"
)

// Handler handles booking submissions. A successful booking does not
// confirm the appointment; it returns a checkout URL and confirmation
// happens after payment.
type Handler struct {
	client  *upstream.Client
	metrics *metrics.GatewayMetrics
	logger  *logging.Logger
	now     func() time.Time
}

// NewHandler creates a new booking handler.
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

// CreateResponse is the response for an accepted booking request.
type CreateResponse struct {
	CheckoutURL string `json:"checkout_url"`
}

// Create handles POST /appointments requests.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.logger.Error("failed to decode booking request", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess := session.FromContext(r.Context())

	doctor, err := h.lookupDoctor(r, in.DoctorID)
	if err != nil {
		h.metrics.ObserveBooking("rejected")
		writeError(w, http.StatusUnprocessableEntity, "the selected doctor was not found")
		return
	}

	req, err := NewRequest(in, doctor, h.now())
	if err != nil {
		if ve, ok := IsValidationError(err); ok {
			h.metrics.ObserveBooking("rejected")
			writeError(w, http.StatusUnprocessableEntity, ve.Message)
			return
		}
		h.logger.Error("booking validation failed", "error", err)
		writeError(w, http.StatusBadRequest, "invalid booking request")
		return
	}

	checkout, err := h.client.BookAppointment(r.Context(), sess, *req)
	if err != nil {
		if apiErr, ok := upstream.IsAPIError(err); ok {
			h.logger.Warn("booking rejected by appointment service",
				"status", apiErr.StatusCode, "message", apiErr.Message)
			h.metrics.ObserveBooking("rejected")
			writeError(w, apiErr.StatusCode, apiErr.Message)
			return
		}
		h.logger.Error("failed to reach appointment service", "error", err)
		h.metrics.ObserveBooking("error")
		writeError(w, http.StatusBadGateway, "the appointment service is unavailable, please try again")
		return
	}

	h.logger.Info("booking handed off to checkout",
		"doctor_id", req.DoctorID, "date", req.Date, "time", req.Time)
	h.metrics.ObserveBooking("accepted")
	h.metrics.ObserveCheckoutHandoff()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(CreateResponse{CheckoutURL: checkout.CheckoutURL})
}

// lookupDoctor fetches the doctor's availability table. Transport
// failures fall back to the Monday-Friday default rather than blocking
// the booking; the appointment service is the final authority.
func (h *Handler) lookupDoctor(r *http.Request, doctorID int64) (*upstream.RawDoctor, error) {
	if doctorID <= 0 {
		return nil, nil
	}
	doctor, err := h.client.GetDoctor(r.Context(), strconv.FormatInt(doctorID, 10))
	if err != nil {
		if errors.Is(err, upstream.ErrNotFound) {
			return nil, err
		}
		h.logger.Warn("doctor lookup failed, using default availability",
			"doctor_id", doctorID, "error", err)
		return nil, nil
	}
	return doctor, nil
}

// SlotList handles GET /appointments/slots requests, returning the
// fixed half-hour grid the booking form offers.
func (h *Handler) SlotList(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]string{"slots": Slots})
}

func writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
