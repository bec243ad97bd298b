package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/docassist/platform/internal/session"
)

func authedSession() session.Session {
	return session.Session{Authenticated: true, UserID: "7", Token: "tok-abc"}
}

func TestBookAppointment(t *testing.T) {
	var gotBody BookRequest
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/appointments" {
			t.Errorf("expected path /appointments, got %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"checkout_url": "https://pay.example/cs_123"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0, nil)
	out, err := client.BookAppointment(context.Background(), authedSession(), BookRequest{
		DoctorID: 3,
		Date:     "2025-03-10",
		Time:     "09:00",
		Reason:   "checkup",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.CheckoutURL != "https://pay.example/cs_123" {
		t.Errorf("unexpected checkout url: %s", out.CheckoutURL)
	}
	if gotAuth != "Bearer tok-abc" {
		t.Errorf("expected bearer token forwarded, got %q", gotAuth)
	}
	if gotBody.DoctorID != 3 || gotBody.Date != "2025-03-10" || gotBody.Time != "09:00" || gotBody.Reason != "checkup" {
		t.Errorf("unexpected payload: %+v", gotBody)
	}
}

func TestBookAppointmentMissingCheckoutURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0, nil)
	if _, err := client.BookAppointment(context.Background(), authedSession(), BookRequest{DoctorID: 1}); err == nil {
		t.Fatal("expected error for empty checkout url")
	}
}

func TestVerifyPaymentIsUnauthenticated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/payments/verify/cs_123" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("verify call must not carry an auth header")
		}
		json.NewEncoder(w).Encode(VerifyResult{PaymentStatus: "paid", AppointmentStatus: "confirmed", AppointmentPaid: true})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0, nil)
	out, err := client.VerifyPayment(context.Background(), "cs_123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.AppointmentPaid || out.PaymentStatus != "paid" {
		t.Errorf("unexpected verify result: %+v", out)
	}
}

func TestAPIErrorCarriesDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"detail":"doctor is not available on that day"}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0, nil)
	_, err := client.BookAppointment(context.Background(), authedSession(), BookRequest{DoctorID: 1})
	apiErr, ok := IsAPIError(err)
	if !ok {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("unexpected status: %d", apiErr.StatusCode)
	}
	if apiErr.Message != "doctor is not available on that day" {
		t.Errorf("unexpected message: %q", apiErr.Message)
	}
}

func TestNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0, nil)
	_, err := client.GetDoctor(context.Background(), "99")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCancelAppointment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/appointments/12/cancel" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(RawAppointment{ID: 12, Status: "cancelled"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0, nil)
	out, err := client.CancelAppointment(context.Background(), authedSession(), "12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Status != "cancelled" {
		t.Errorf("unexpected status: %s", out.Status)
	}
}

func TestListDoctors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]RawDoctor{
			{ID: 1, Name: "Dr. Ada Osei", Specialty: "Cardiology", Fee: "150"},
			{ID: 2, Name: "Dr. Liu Wen", Specialty: "Dermatology", Fee: "120.50"},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0, nil)
	out, err := client.ListDoctors(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 || out[1].Fee != "120.50" {
		t.Errorf("unexpected doctors: %+v", out)
	}
}
