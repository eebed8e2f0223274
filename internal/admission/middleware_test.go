package admission

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"gatekeeper/internal/ratelimit"
)

// Exercises the full per-request chain with a real limiter: five anonymous
// requests to a public path stay under the anonymous budget, and the sixth
// request in the same window is turned away at the sensitive endpoint.
func TestMiddlewareAnonymousBudget(t *testing.T) {
	geoFake := &fakeGeo{}
	logs := &fakeLogStore{}
	limiter := ratelimit.NewLimiter(ratelimit.NewMemoryCounter())
	pipeline := NewPipeline(fakeDenylist{}, limiter, geoFake, logs, []string{"/login"})

	var reached int
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached++
		w.WriteHeader(http.StatusOK)
	})
	handler := Middleware(pipeline)(next)

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/public", nil)
		req.RemoteAddr = "10.0.0.1:40000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i+1, rec.Code, http.StatusOK)
		}
	}

	if reached != 5 {
		t.Fatalf("inner handler reached %d times, want 5", reached)
	}
	if len(logs.entries) != 5 {
		t.Fatalf("got %d log entries, want 5", len(logs.entries))
	}

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.1:40001"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("sixth request: status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
	if reached != 5 {
		t.Fatalf("rate-limited request reached the inner handler")
	}
	if len(logs.entries) != 5 {
		t.Fatalf("rate-limited request was logged; got %d entries, want 5", len(logs.entries))
	}
}

func TestMiddlewareBlockedIPGetsForbidden(t *testing.T) {
	limiter := ratelimit.NewLimiter(ratelimit.NewMemoryCounter())
	logs := &fakeLogStore{}
	pipeline := NewPipeline(fakeDenylist{"203.0.113.7": true}, limiter, &fakeGeo{}, logs, nil)

	handler := Middleware(pipeline)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("blocked request reached the inner handler")
	}))

	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	if len(logs.entries) != 0 {
		t.Fatalf("blocked request was logged %d times, want 0", len(logs.entries))
	}
}
