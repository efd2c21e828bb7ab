package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/hotelbook/internal/auth"
	"github.com/hitoshi/hotelbook/internal/model"
)

// --- モック ---

type mockAuthorizer struct {
	authorizeFn func(r *http.Request) (*auth.Claims, error)
}

func (m *mockAuthorizer) Authorize(r *http.Request) (*auth.Claims, error) {
	return m.authorizeFn(r)
}

type mockAuthRejectionRecorder struct {
	reasons []string
}

func (m *mockAuthRejectionRecorder) RecordAuthRejection(reason string) {
	m.reasons = append(m.reasons, reason)
}

func TestAuthGateMiddleware_Authorized_BindsClaims(t *testing.T) {
	authorizer := &mockAuthorizer{
		authorizeFn: func(r *http.Request) (*auth.Claims, error) {
			return &auth.Claims{ID: "jti-1", Email: "guest@example.com"}, nil
		},
	}

	var captured *auth.Claims
	handler := NewAuthGateMiddleware(authorizer, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = auth.ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/my-bookings", nil))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if captured == nil || captured.Email != "guest@example.com" {
		t.Errorf("claims in context = %+v, want email guest@example.com", captured)
	}
}

func TestAuthGateMiddleware_Rejections_GenericBody(t *testing.T) {
	tests := []struct {
		name       string
		cause      error
		wantReason string
	}{
		{name: "トークンなし", cause: auth.ErrMissingToken, wantReason: "missing_token"},
		{name: "期限切れ", cause: auth.ErrExpired, wantReason: "expired"},
		{name: "署名不一致", cause: auth.ErrInvalidSignature, wantReason: "invalid_signature"},
		{name: "解析不能", cause: auth.ErrMalformed, wantReason: "malformed"},
		{name: "失効済み", cause: auth.ErrRevoked, wantReason: "revoked"},
	}

	var bodies []string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authorizer := &mockAuthorizer{
				authorizeFn: func(r *http.Request) (*auth.Claims, error) {
					return nil, fmt.Errorf("%w: %w", auth.ErrUnauthenticated, tt.cause)
				},
			}
			recorder := &mockAuthRejectionRecorder{}

			handler := NewAuthGateMiddleware(authorizer, recorder)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("handler should not be called")
			}))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/my-bookings?email=guest@example.com", nil))

			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
			}

			var body ErrorResponseBody
			raw := w.Body.String()
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode: %v", err)
			}
			if body.Code != model.ErrCodeUnauthorized {
				t.Errorf("code = %q, want %q", body.Code, model.ErrCodeUnauthorized)
			}
			bodies = append(bodies, raw)

			if len(recorder.reasons) != 1 || recorder.reasons[0] != tt.wantReason {
				t.Errorf("recorded reasons = %v, want [%s]", recorder.reasons, tt.wantReason)
			}
		})
	}

	// 拒否理由によって本文が変わらないこと
	for i := 1; i < len(bodies); i++ {
		if bodies[i] != bodies[0] {
			t.Errorf("body[%d] = %q differs from body[0] = %q", i, bodies[i], bodies[0])
		}
	}
}

func TestAuthGateMiddleware_NilRecorder(t *testing.T) {
	authorizer := &mockAuthorizer{
		authorizeFn: func(r *http.Request) (*auth.Claims, error) {
			return nil, auth.ErrUnauthenticated
		},
	}

	handler := NewAuthGateMiddleware(authorizer, nil)(okHandler())
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/my-bookings", nil))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}
