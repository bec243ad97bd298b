package appointments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/docassist/platform/internal/session"
	"github.com/docassist/platform/internal/upstream"
	"github.com/docassist/platform/pkg/logging"
)

func newTestHandler(t *testing.T, backend http.HandlerFunc) *Handler {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	h := NewHandler(upstream.NewClient(srv.URL, 0, nil), nil, logging.New("error"))
	h.now = func() time.Time { return time.Date(2025, 3, 8, 12, 0, 0, 0, time.UTC) }
	return h
}

func authedRequest(method, target string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return req.WithContext(session.WithSession(req.Context(), session.Session{
		Authenticated: true, UserID: "7", Token: "tok",
	}))
}

func TestListPartitionsAndCoerces(t *testing.T) {
	h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]upstream.RawAppointment{
			{ID: 1, Date: "2025-03-10", Time: "09:00", Status: "scheduled", Paid: true},
			{ID: 2, Date: "2025-03-01", Time: "14:00", Status: "completed"},
		})
	})

	rec := httptest.NewRecorder()
	h.List(rec, authedRequest(http.MethodGet, "/appointments"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var out ListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Upcoming) != 1 || len(out.Past) != 1 {
		t.Fatalf("unexpected partition: %+v", out)
	}
	if out.Upcoming[0].Status != StatusConfirmed {
		t.Errorf("paid appointment should display confirmed, got %q", out.Upcoming[0].Status)
	}
}

func TestSummaryCapsAtThree(t *testing.T) {
	h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]upstream.RawAppointment{
			{ID: 1, Date: "2025-03-20", Time: "09:00", Status: "confirmed"},
			{ID: 2, Date: "2025-03-10", Time: "09:00", Status: "confirmed"},
			{ID: 3, Date: "2025-03-15", Time: "09:00", Status: "confirmed"},
			{ID: 4, Date: "2025-03-12", Time: "09:00", Status: "confirmed"},
		})
	})

	rec := httptest.NewRecorder()
	h.Summary(rec, authedRequest(http.MethodGet, "/appointments/summary"))

	var out SummaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Total != 4 {
		t.Errorf("total = %d, want 4", out.Total)
	}
	if len(out.Upcoming) != 3 {
		t.Fatalf("expected 3 upcoming, got %d", len(out.Upcoming))
	}
	want := []int64{2, 4, 3}
	for i, id := range want {
		if out.Upcoming[i].ID != id {
			t.Errorf("upcoming[%d].ID = %d, want %d (ascending by date)", i, out.Upcoming[i].ID, id)
		}
	}
}

func TestCancelShowsCancelledEvenWhenRecordLags(t *testing.T) {
	h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/appointments/12/cancel" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		// record store still reports the stale status
		json.NewEncoder(w).Encode(upstream.RawAppointment{ID: 12, Status: "scheduled"})
	})

	req := authedRequest(http.MethodPost, "/appointments/12/cancel")
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "12")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rec := httptest.NewRecorder()
	h.Cancel(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var out Appointment
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Status != StatusCancelled {
		t.Errorf("status = %q, want cancelled", out.Status)
	}
}

func TestListUpstreamUnavailable(t *testing.T) {
	h := NewHandler(upstream.NewClient("http://127.0.0.1:1", time.Second, nil), nil, logging.New("error"))
	rec := httptest.NewRecorder()
	h.List(rec, authedRequest(http.MethodGet, "/appointments"))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}
