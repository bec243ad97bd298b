package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func serveCORS(t *testing.T, origins []string, req *http.Request) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	rec := httptest.NewRecorder()
	CORS(origins)(next).ServeHTTP(rec, req)
	return rec, called
}

func TestCORSAllowsListedOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/doctors", nil)
	req.Header.Set("Origin", "https://portal.docassist.example")

	rec, called := serveCORS(t, []string{"https://portal.docassist.example"}, req)
	if !called {
		t.Fatal("handler should run")
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://portal.docassist.example" {
		t.Fatalf("allow-origin = %q", got)
	}
	if rec.Header().Get("Access-Control-Allow-Methods") == "" || rec.Header().Get("Access-Control-Allow-Headers") == "" {
		t.Fatal("expected method and header allowances")
	}
}

func TestCORSIgnoresUnknownOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/doctors", nil)
	req.Header.Set("Origin", "https://elsewhere.example")

	rec, _ := serveCORS(t, []string{"https://portal.docassist.example"}, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unknown origin must get no allow-origin header, got %q", got)
	}
}

func TestCORSWildcardEchoesOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/doctors", nil)
	req.Header.Set("Origin", "https://anything.example")

	rec, _ := serveCORS(t, []string{"*"}, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://anything.example" {
		t.Fatalf("wildcard should echo the origin, got %q", got)
	}
}

func TestCORSShortCircuitsPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/appointments", nil)
	req.Header.Set("Origin", "https://portal.docassist.example")
	req.Header.Set("Access-Control-Request-Method", "POST")

	rec, called := serveCORS(t, []string{"https://portal.docassist.example"}, req)
	if called {
		t.Fatal("preflight must not reach the handler")
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}
