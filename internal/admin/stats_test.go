package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/docassist/platform/internal/doctors"
	"github.com/docassist/platform/internal/session"
	"github.com/docassist/platform/internal/upstream"
	"github.com/docassist/platform/pkg/logging"
)

func TestGetStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/appointments/all":
			json.NewEncoder(w).Encode([]upstream.RawAppointment{
				{ID: 1, DoctorID: 1, Status: "scheduled", Paid: true},
				{ID: 2, DoctorID: 1, Status: "scheduled"},
				{ID: 3, DoctorID: 2, Status: "completed", Paid: true},
				{ID: 4, DoctorID: 1, Status: "cancelled"},
			})
		case "/doctors":
			json.NewEncoder(w).Encode([]upstream.RawDoctor{
				{ID: 1, Name: "Dr. A", Fee: "150"},
				{ID: 2, Name: "Dr. B", Fee: "200"},
			})
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
	}))
	t.Cleanup(srv.Close)

	client := upstream.NewClient(srv.URL, 0, nil)
	catalog := doctors.NewCatalog(client, nil, time.Minute, logging.New("error"))
	h := NewHandler(client, catalog, logging.New("error"))

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	req = req.WithContext(session.WithSession(req.Context(), session.Session{
		Authenticated: true, UserID: "admin", Token: "tok",
	}))
	rec := httptest.NewRecorder()
	h.GetStats(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var out Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.TotalAppointments != 4 {
		t.Errorf("total = %d, want 4", out.TotalAppointments)
	}
	if out.PaidAppointments != 2 {
		t.Errorf("paid = %d, want 2", out.PaidAppointments)
	}
	if out.Revenue != 350 {
		t.Errorf("revenue = %v, want 350", out.Revenue)
	}
	// the paid scheduled appointment displays as confirmed
	if out.ByStatus["confirmed"] != 1 || out.ByStatus["scheduled"] != 1 {
		t.Errorf("unexpected status counts: %v", out.ByStatus)
	}
	if out.ByStatus["completed"] != 1 || out.ByStatus["cancelled"] != 1 {
		t.Errorf("unexpected status counts: %v", out.ByStatus)
	}
}

func TestGetStatsUpstreamUnavailable(t *testing.T) {
	client := upstream.NewClient("http://127.0.0.1:1", time.Second, nil)
	h := NewHandler(client, nil, logging.New("error"))

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	req = req.WithContext(session.WithSession(req.Context(), session.Anonymous()))
	rec := httptest.NewRecorder()
	h.GetStats(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}
