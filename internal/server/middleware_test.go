package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/meltforce/gymtrack/internal/identity"
)

// TestAcceptsJSON covers the media types the API treats as JSON-compatible.
func TestAcceptsJSON(t *testing.T) {
	tests := []struct {
		header string
		want   bool
	}{
		{"", true},
		{"*/*", true},
		{"application/*", true},
		{"application/json", true},
		{"application/json; charset=utf-8", true},
		{"text/html, application/json", true},
		{"text/html", false},
		{"application/xml", false},
	}
	for _, tt := range tests {
		if got := acceptsJSON(tt.header); got != tt.want {
			t.Errorf("acceptsJSON(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
}

// TestBearerAuth verifies the three outcomes of the auth middleware and that
// the verified subject reaches the wrapped handler.
func TestBearerAuth(t *testing.T) {
	verifier := identity.StaticVerifier{"good": {Subject: "alice"}}
	var gotSubject string
	handler := BearerAuth(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSubject = subjectFromContext(r)
	}))

	tests := []struct {
		name        string
		header      string
		wantStatus  int
		wantSubject string
	}{
		{"no header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, ""},
		{"scheme without token", "Bearer", http.StatusUnauthorized, ""},
		{"unknown token", "Bearer nope", http.StatusBadRequest, ""},
		{"valid token", "Bearer good", http.StatusOK, "alice"},
		{"case-insensitive scheme", "bearer good", http.StatusOK, "alice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotSubject = ""
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if gotSubject != tt.wantSubject {
				t.Errorf("subject = %q, want %q", gotSubject, tt.wantSubject)
			}
		})
	}
}

// TestRequireJSONAccept verifies the DELETE exemption at the middleware
// level.
func TestRequireJSONAccept(t *testing.T) {
	handler := RequireJSONAccept(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Accept", "text/html")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusNotAcceptable {
		t.Errorf("GET status = %d, want 406", w.Code)
	}

	r = httptest.NewRequest(http.MethodDelete, "/", nil)
	r.Header.Set("Accept", "text/html")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusNoContent {
		t.Errorf("DELETE status = %d, want 204", w.Code)
	}
}

// TestRequestID verifies an id is generated when absent and preserved when
// the client supplies one.
func TestRequestID(t *testing.T) {
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requestIDFromContext(r) == "" {
			t.Error("no request id in context")
		}
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if w.Header().Get("X-Request-Id") == "" {
		t.Error("no generated X-Request-Id header")
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Request-Id", "client-id")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if got := w.Header().Get("X-Request-Id"); got != "client-id" {
		t.Errorf("X-Request-Id = %q, want %q", got, "client-id")
	}
}

// TestCORS verifies the permissive headers and the preflight short-circuit.
func TestCORS(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, want *", got)
	}

	r = httptest.NewRequest(http.MethodOptions, "/", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusNoContent {
		t.Errorf("OPTIONS status = %d, want 204", w.Code)
	}
}
