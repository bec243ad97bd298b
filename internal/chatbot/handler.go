package chatbot

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/docassist/platform/internal/session"
	"github.com/docassist/platform/pkg/logging"
)

// Handler serves the patient chatbot. The route is public; signed-in
// visitors get personalized appointment answers.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new chatbot handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// MessageRequest is one chat message from the patient.
type MessageRequest struct {
	Message string `json:"message"`
}

// Message handles POST /chatbot requests.
func (h *Handler) Message(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusUnprocessableEntity, "message is required")
		return
	}

	sess := session.FromContext(r.Context())
	reply := h.service.Process(r.Context(), sess, req.Message)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reply)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
