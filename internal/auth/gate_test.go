package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// --- モック定義 ---

type mockTokenReader struct {
	token string
	ok    bool
}

func (m *mockTokenReader) Read(r *http.Request) (string, bool) {
	return m.token, m.ok
}

type mockTokenDecoder struct {
	decodeFn func(token string) (*Claims, error)
}

func (m *mockTokenDecoder) Decode(token string) (*Claims, error) {
	if m.decodeFn != nil {
		return m.decodeFn(token)
	}
	return nil, ErrMalformed
}

type mockRevocationChecker struct {
	revoked map[string]bool
}

func (m *mockRevocationChecker) IsRevoked(tokenID string) bool {
	return m.revoked[tokenID]
}

// --- テスト ---

func TestGate_Authorize_ValidToken_ReturnsClaims(t *testing.T) {
	decoder := &mockTokenDecoder{
		decodeFn: func(token string) (*Claims, error) {
			if token != "valid-token" {
				t.Errorf("token = %q, want %q", token, "valid-token")
			}
			return &Claims{ID: "jti-1", Email: "guest@example.com"}, nil
		},
	}
	gate := NewGate(&mockTokenReader{token: "valid-token", ok: true}, decoder, &mockRevocationChecker{})

	claims, err := gate.Authorize(httptest.NewRequest(http.MethodGet, "/my-bookings", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Email != "guest@example.com" {
		t.Errorf("Email = %q, want %q", claims.Email, "guest@example.com")
	}
}

func TestGate_Authorize_NoToken_ReturnsUnauthenticated(t *testing.T) {
	decoder := &mockTokenDecoder{
		decodeFn: func(token string) (*Claims, error) {
			t.Fatal("decoder should not be called without a token")
			return nil, nil
		},
	}
	gate := NewGate(&mockTokenReader{}, decoder, nil)

	_, err := gate.Authorize(httptest.NewRequest(http.MethodGet, "/my-bookings", nil))
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("err = %v, want ErrUnauthenticated", err)
	}
	if RejectionReason(err) != "missing_token" {
		t.Errorf("RejectionReason = %q, want %q", RejectionReason(err), "missing_token")
	}
}

func TestGate_Authorize_DecodeFailures_CollapseToUnauthenticated(t *testing.T) {
	tests := []struct {
		name       string
		decodeErr  error
		wantReason string
	}{
		{name: "malformed", decodeErr: ErrMalformed, wantReason: "malformed"},
		{name: "invalid signature", decodeErr: ErrInvalidSignature, wantReason: "invalid_signature"},
		{name: "expired", decodeErr: ErrExpired, wantReason: "expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoder := &mockTokenDecoder{
				decodeFn: func(token string) (*Claims, error) {
					return nil, tt.decodeErr
				},
			}
			gate := NewGate(&mockTokenReader{token: "some-token", ok: true}, decoder, nil)

			claims, err := gate.Authorize(httptest.NewRequest(http.MethodGet, "/my-bookings", nil))
			if !errors.Is(err, ErrUnauthenticated) {
				t.Fatalf("err = %v, want ErrUnauthenticated", err)
			}
			if claims != nil {
				t.Errorf("claims = %+v, want nil", claims)
			}
			if got := RejectionReason(err); got != tt.wantReason {
				t.Errorf("RejectionReason = %q, want %q", got, tt.wantReason)
			}
		})
	}
}

func TestGate_Authorize_RevokedToken_ReturnsUnauthenticated(t *testing.T) {
	decoder := &mockTokenDecoder{
		decodeFn: func(token string) (*Claims, error) {
			return &Claims{ID: "jti-revoked", Email: "guest@example.com"}, nil
		},
	}
	revoked := &mockRevocationChecker{revoked: map[string]bool{"jti-revoked": true}}
	gate := NewGate(&mockTokenReader{token: "old-token", ok: true}, decoder, revoked)

	_, err := gate.Authorize(httptest.NewRequest(http.MethodGet, "/my-bookings", nil))
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("err = %v, want ErrUnauthenticated", err)
	}
	if RejectionReason(err) != "revoked" {
		t.Errorf("RejectionReason = %q, want %q", RejectionReason(err), "revoked")
	}
}

// TestGate_Authorize_WithRealCodec はCodecとRevocationListを組み合わせた一連の流れを検証する。
func TestGate_Authorize_WithRealCodec(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)}
	codec, err := NewCodec(testSecret, WithClock(clock.Now))
	if err != nil {
		t.Fatalf("NewCodec error: %v", err)
	}
	revocations := NewRevocationList(10, time.Hour)

	token, err := codec.Issue(Claims{Email: "guest@example.com"})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	reader := &mockTokenReader{token: token, ok: true}
	gate := NewGate(reader, codec, revocations)

	claims, err := gate.Authorize(httptest.NewRequest(http.MethodGet, "/my-bookings", nil))
	if err != nil {
		t.Fatalf("unexpected error before revoke: %v", err)
	}

	revocations.Revoke(claims.ID)

	_, err = gate.Authorize(httptest.NewRequest(http.MethodGet, "/my-bookings", nil))
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("err after revoke = %v, want ErrUnauthenticated", err)
	}
}

func TestCheckOwnership(t *testing.T) {
	claims := &Claims{ID: "jti-1", Email: "guest@example.com"}

	tests := []struct {
		name      string
		claims    *Claims
		requested string
		wantErr   error
	}{
		{name: "same identity", claims: claims, requested: "guest@example.com", wantErr: nil},
		{name: "different identity", claims: claims, requested: "other@example.com", wantErr: ErrForbidden},
		{name: "case differs", claims: claims, requested: "Guest@example.com", wantErr: ErrForbidden},
		{name: "empty parameter", claims: claims, requested: "", wantErr: ErrForbidden},
		{name: "no claims", claims: nil, requested: "guest@example.com", wantErr: ErrUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckOwnership(tt.claims, tt.requested)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CheckOwnership() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestClaimsFromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	if _, ok := ClaimsFromContext(req.Context()); ok {
		t.Fatal("expected no claims in empty context")
	}

	want := &Claims{Email: "guest@example.com"}
	ctx := ContextWithClaims(req.Context(), want)

	got, ok := ClaimsFromContext(ctx)
	if !ok {
		t.Fatal("expected claims in context")
	}
	if got != want {
		t.Errorf("claims = %+v, want %+v", got, want)
	}
}
