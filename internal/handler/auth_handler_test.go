package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/hotelbook/internal/auth"
	"github.com/hitoshi/hotelbook/internal/model"
)

// --- モック定義 ---

type mockTokenCodec struct {
	issueFn  func(claims auth.Claims) (string, error)
	decodeFn func(token string) (*auth.Claims, error)
}

func (m *mockTokenCodec) Issue(claims auth.Claims) (string, error) {
	return m.issueFn(claims)
}

func (m *mockTokenCodec) Decode(token string) (*auth.Claims, error) {
	return m.decodeFn(token)
}

type mockSessionCarrier struct {
	attached string
	token    string
	revoked  bool
}

func (m *mockSessionCarrier) Attach(w http.ResponseWriter, token string) {
	m.attached = token
}

func (m *mockSessionCarrier) Read(r *http.Request) (string, bool) {
	return m.token, m.token != ""
}

func (m *mockSessionCarrier) Revoke(w http.ResponseWriter) {
	m.revoked = true
}

type mockTokenRevoker struct {
	revoked []string
}

func (m *mockTokenRevoker) Revoke(tokenID string) {
	m.revoked = append(m.revoked, tokenID)
}

type mockTokenMetrics struct {
	issued  int
	revoked int
}

func (m *mockTokenMetrics) RecordTokenIssued()  { m.issued++ }
func (m *mockTokenMetrics) RecordTokenRevoked() { m.revoked++ }

// --- テスト ---

func TestAuthHandler_IssueToken_AttachesToken(t *testing.T) {
	var issued auth.Claims
	codec := &mockTokenCodec{
		issueFn: func(claims auth.Claims) (string, error) {
			issued = claims
			return "signed-token", nil
		},
	}
	carrier := &mockSessionCarrier{}
	metrics := &mockTokenMetrics{}
	h := NewAuthHandler(codec, carrier, &mockTokenRevoker{}, metrics)

	req := httptest.NewRequest(http.MethodPost, "/jwt", strings.NewReader(`{"email":"guest@example.com","name":"Guest"}`))
	w := httptest.NewRecorder()

	h.IssueToken(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]bool
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if !body["success"] {
		t.Errorf("body = %v, want success=true", body)
	}

	if carrier.attached != "signed-token" {
		t.Errorf("attached = %q, want %q", carrier.attached, "signed-token")
	}
	if issued.Email != "guest@example.com" {
		t.Errorf("email = %q, want %q", issued.Email, "guest@example.com")
	}
	if issued.Extra["name"] != "Guest" {
		t.Errorf("extra name = %v, want Guest", issued.Extra["name"])
	}
	if _, ok := issued.Extra["email"]; ok {
		t.Error("email should not be duplicated in extra")
	}
	if metrics.issued != 1 {
		t.Errorf("issued count = %d, want 1", metrics.issued)
	}
	if strings.Contains(w.Body.String(), "signed-token") {
		t.Error("token must not appear in response body")
	}
}

func TestAuthHandler_IssueToken_InvalidBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "emailなし", body: `{"name":"Guest"}`},
		{name: "emailが空", body: `{"email":""}`},
		{name: "emailの形式不正", body: `{"email":"not-an-email"}`},
		{name: "emailが文字列でない", body: `{"email":42}`},
		{name: "JSONでない", body: `email=guest@example.com`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codec := &mockTokenCodec{
				issueFn: func(claims auth.Claims) (string, error) {
					t.Fatal("Issue should not be called")
					return "", nil
				},
			}
			carrier := &mockSessionCarrier{}
			h := NewAuthHandler(codec, carrier, &mockTokenRevoker{}, nil)

			w := httptest.NewRecorder()
			h.IssueToken(w, httptest.NewRequest(http.MethodPost, "/jwt", strings.NewReader(tt.body)))

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
			if carrier.attached != "" {
				t.Error("no cookie should be attached")
			}

			var body apiErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode: %v", err)
			}
			if body.Code != model.ErrCodeInvalidRequest {
				t.Errorf("code = %q, want %q", body.Code, model.ErrCodeInvalidRequest)
			}
		})
	}
}

func TestAuthHandler_IssueToken_SigningFailure(t *testing.T) {
	codec := &mockTokenCodec{
		issueFn: func(claims auth.Claims) (string, error) {
			return "", errors.New("signing failed")
		},
	}
	carrier := &mockSessionCarrier{}
	h := NewAuthHandler(codec, carrier, &mockTokenRevoker{}, nil)

	w := httptest.NewRecorder()
	h.IssueToken(w, httptest.NewRequest(http.MethodPost, "/jwt", strings.NewReader(`{"email":"guest@example.com"}`)))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	if carrier.attached != "" {
		t.Error("no cookie should be attached on failure")
	}
}

func TestAuthHandler_Logout_RevokesValidToken(t *testing.T) {
	codec := &mockTokenCodec{
		decodeFn: func(token string) (*auth.Claims, error) {
			return &auth.Claims{ID: "jti-123", Email: "guest@example.com"}, nil
		},
	}
	carrier := &mockSessionCarrier{token: "signed-token"}
	revoker := &mockTokenRevoker{}
	metrics := &mockTokenMetrics{}
	h := NewAuthHandler(codec, carrier, revoker, metrics)

	w := httptest.NewRecorder()
	h.Logout(w, httptest.NewRequest(http.MethodPost, "/logout", nil))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !carrier.revoked {
		t.Error("cookie should be revoked")
	}
	if len(revoker.revoked) != 1 || revoker.revoked[0] != "jti-123" {
		t.Errorf("revoked = %v, want [jti-123]", revoker.revoked)
	}
	if metrics.revoked != 1 {
		t.Errorf("revoked count = %d, want 1", metrics.revoked)
	}
}

func TestAuthHandler_Logout_WithoutUsableToken_StillClearsCookie(t *testing.T) {
	tests := []struct {
		name      string
		token     string
		decodeErr error
	}{
		{name: "トークンなし", token: ""},
		{name: "期限切れ", token: "expired-token", decodeErr: auth.ErrExpired},
		{name: "改ざん", token: "tampered-token", decodeErr: auth.ErrInvalidSignature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codec := &mockTokenCodec{
				decodeFn: func(token string) (*auth.Claims, error) {
					return nil, tt.decodeErr
				},
			}
			carrier := &mockSessionCarrier{token: tt.token}
			revoker := &mockTokenRevoker{}
			h := NewAuthHandler(codec, carrier, revoker, nil)

			w := httptest.NewRecorder()
			h.Logout(w, httptest.NewRequest(http.MethodPost, "/logout", nil))

			if w.Code != http.StatusOK {
				t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
			}
			if !carrier.revoked {
				t.Error("cookie should be revoked")
			}
			if len(revoker.revoked) != 0 {
				t.Errorf("revoked = %v, want none", revoker.revoked)
			}
		})
	}
}
