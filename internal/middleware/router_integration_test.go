package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/hotelbook/internal/auth"
)

type recordedRequest struct {
	method string
	route  string
	status int
}

type mockHTTPRequestRecorder struct {
	requests []recordedRequest
}

func (m *mockHTTPRequestRecorder) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	m.requests = append(m.requests, recordedRequest{method: method, route: route, status: statusCode})
}

// newIntegrationRouter は実際のルーターと同じ順序でミドルウェアを組んだchi.Routerを返す。
func newIntegrationRouter(t *testing.T, logBuf *bytes.Buffer, recorder *mockHTTPRequestRecorder, authorizer Authorizer) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(logBuf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	r := chi.NewRouter()
	r.Use(NewRecoveryMiddleware())
	r.Use(NewLoggingMiddleware(logger))
	r.Use(NewMetricsMiddleware(recorder))
	r.Use(NewSecurityHeadersMiddleware(false))

	r.Get("/rooms/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/panic", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	r.Group(func(r chi.Router) {
		r.Use(NewAuthGateMiddleware(authorizer, nil))
		r.Get("/my-bookings", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	})
	return r
}

func TestRouterIntegration_MetricsUseRoutePattern(t *testing.T) {
	var buf bytes.Buffer
	recorder := &mockHTTPRequestRecorder{}
	router := newIntegrationRouter(t, &buf, recorder, &mockAuthorizer{})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/rooms/65a1b2c3d4e5f6a7b8c9d0e1", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	if len(recorder.requests) != 2 {
		t.Fatalf("recorded %d requests, want 2", len(recorder.requests))
	}
	if got := recorder.requests[0]; got.route != "/rooms/{id}" || got.status != http.StatusOK {
		t.Errorf("first request = %+v, want route /rooms/{id} status 200", got)
	}
	if got := recorder.requests[1]; got.route != unmatchedRoute || got.status != http.StatusNotFound {
		t.Errorf("second request = %+v, want route %s status 404", got, unmatchedRoute)
	}
}

func TestRouterIntegration_TokenIDIsLoggedWithoutEmail(t *testing.T) {
	var buf bytes.Buffer
	authorizer := &mockAuthorizer{
		authorizeFn: func(r *http.Request) (*auth.Claims, error) {
			return &auth.Claims{ID: "jti-1", Email: "guest@example.com"}, nil
		},
	}
	router := newIntegrationRouter(t, &buf, &mockHTTPRequestRecorder{}, authorizer)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/my-bookings?email=guest@example.com", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse JSON log: %v\nraw: %s", err, buf.String())
	}
	if entry["token_id"] != "jti-1" {
		t.Errorf("token_id = %v, want jti-1", entry["token_id"])
	}
	if strings.Contains(buf.String(), "guest@example.com") {
		t.Errorf("access log must not contain the email: %s", buf.String())
	}
}

func TestRouterIntegration_PanicReturnsUnifiedError(t *testing.T) {
	var buf bytes.Buffer
	recorder := &mockHTTPRequestRecorder{}
	router := newIntegrationRouter(t, &buf, recorder, &mockAuthorizer{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if body.Code != "INTERNAL_ERROR" {
		t.Errorf("code = %q, want %q", body.Code, "INTERNAL_ERROR")
	}
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
}

func TestSecurityHeadersMiddleware_HSTS(t *testing.T) {
	tests := []struct {
		name string
		hsts bool
		want string
	}{
		{name: "本番", hsts: true, want: "max-age=31536000; includeSubDomains"},
		{name: "開発", hsts: false, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			NewSecurityHeadersMiddleware(tt.hsts)(okHandler()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			if got := w.Header().Get("Strict-Transport-Security"); got != tt.want {
				t.Errorf("Strict-Transport-Security = %q, want %q", got, tt.want)
			}
			if got := w.Header().Get("Cache-Control"); got != "no-store" {
				t.Errorf("Cache-Control = %q, want no-store", got)
			}
		})
	}
}
