package admin

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/docassist/platform/internal/appointments"
	"github.com/docassist/platform/internal/doctors"
	"github.com/docassist/platform/internal/session"
	"github.com/docassist/platform/internal/upstream"
	"github.com/docassist/platform/pkg/logging"
)

// Stats aggregates clinic-wide appointment metrics.
type Stats struct {
	TotalAppointments int            `json:"total_appointments"`
	ByStatus          map[string]int `json:"by_status"`
	PaidAppointments  int            `json:"paid_appointments"`
	Revenue           float64        `json:"revenue"`
}

// Handler serves the admin dashboard.
type Handler struct {
	client  *upstream.Client
	catalog *doctors.Catalog
	logger  *logging.Logger
}

// NewHandler creates a new admin handler.
func NewHandler(client *upstream.Client, catalog *doctors.Catalog, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{client: client, catalog: catalog, logger: logger}
}

// GetStats handles GET /admin/stats requests.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	raws, err := h.client.ListAllAppointments(r.Context(), sess)
	if err != nil {
		h.logger.Error("failed to load appointments for stats", "error", err)
		writeError(w, http.StatusBadGateway, "the appointment service is unavailable, please try again")
		return
	}

	stats := h.aggregate(r.Context(), raws)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

// aggregate sums appointment counts and revenue. Revenue is the sum of
// consultation fees over paid appointments; an unresolvable doctor fee
// contributes zero rather than failing the report.
func (h *Handler) aggregate(ctx context.Context, raws []upstream.RawAppointment) Stats {
	stats := Stats{
		TotalAppointments: len(raws),
		ByStatus:          map[string]int{},
	}
	fees := h.feeIndex(ctx)

	for _, raw := range raws {
		appt := appointments.FromRaw(raw)
		stats.ByStatus[appt.Status]++
		if raw.Paid {
			stats.PaidAppointments++
			stats.Revenue += fees[raw.DoctorID]
		}
	}
	return stats
}

func (h *Handler) feeIndex(ctx context.Context) map[int64]float64 {
	fees := map[int64]float64{}
	if h.catalog == nil {
		return fees
	}
	list, err := h.catalog.List(ctx)
	if err != nil {
		h.logger.Warn("doctor fee lookup failed, revenue will be understated", "error", err)
		return fees
	}
	for _, d := range list {
		fees[d.ID] = d.Fee
	}
	return fees
}

func writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
