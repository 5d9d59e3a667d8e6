package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukerupert/shoplist/internal/auth"
)

func TestIdentityAttachesCaller(t *testing.T) {
	var got string
	var attached bool
	h := Identity("X-User-ID")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.FromContext(r.Context())
		got, attached = id.UserID, ok
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/lists", nil)
	req.Header.Set("X-User-ID", "  user-1 ")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if !attached {
		t.Fatal("expected identity in context")
	}
	if got != "user-1" {
		t.Errorf("UserID = %q, want %q", got, "user-1")
	}
}

func TestIdentityMissingHeader(t *testing.T) {
	reached := false
	h := Identity("X-User-ID")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		if _, ok := auth.FromContext(r.Context()); ok {
			t.Error("no identity expected without header")
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/lists", nil)
	req.Header.Set("X-User-ID", "   ")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if !reached {
		t.Error("anonymous request should reach the handler")
	}
}

func TestCallerKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "10.0.0.9:4321"
	if got := CallerKey(req); got != "ip:10.0.0.9" {
		t.Errorf("anonymous key = %q, want ip:10.0.0.9", got)
	}

	req = req.WithContext(auth.WithIdentity(req.Context(), auth.Identity{UserID: "u1"}))
	if got := CallerKey(req); got != "user:u1" {
		t.Errorf("caller key = %q, want user:u1", got)
	}
}

func TestCallerKeyIgnoresSpoofedAddress(t *testing.T) {
	a := httptest.NewRequest(http.MethodPost, "/", nil)
	a.RemoteAddr = "10.0.0.9:1"
	b := httptest.NewRequest(http.MethodPost, "/", nil)
	b.RemoteAddr = "10.0.0.9:2"
	b.Header.Set("X-Forwarded-For", "203.0.113.7")
	b.Header.Set("CF-Connecting-IP", "198.51.100.1")

	if CallerKey(a) != CallerKey(b) {
		t.Errorf("forwarding headers changed the key: %q vs %q", CallerKey(a), CallerKey(b))
	}
}
