package doctors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/docassist/platform/internal/upstream"
	"github.com/docassist/platform/pkg/logging"
)

// Handler serves the public doctor directory.
type Handler struct {
	catalog *Catalog
	logger  *logging.Logger
}

// NewHandler creates a new doctors handler.
func NewHandler(catalog *Catalog, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{catalog: catalog, logger: logger}
}

// List handles GET /doctors requests.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalog.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list doctors", "error", err)
		writeError(w, http.StatusBadGateway, "the doctor directory is unavailable, please try again")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]Doctor{"doctors": list})
}

// Get handles GET /doctors/{id} requests.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing doctor id")
		return
	}

	doctor, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, upstream.ErrNotFound) {
			writeError(w, http.StatusNotFound, "doctor not found")
			return
		}
		h.logger.Error("failed to load doctor", "doctor_id", id, "error", err)
		writeError(w, http.StatusBadGateway, "the doctor directory is unavailable, please try again")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(doctor)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
