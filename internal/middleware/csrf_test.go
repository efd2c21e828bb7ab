package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/hotelbook/internal/model"
)

func TestOriginCheckMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		origin     string
		wantStatus int
	}{
		{name: "GETは検証しない", method: http.MethodGet, origin: "https://evil.example.net", wantStatus: http.StatusOK},
		{name: "OPTIONSは検証しない", method: http.MethodOptions, origin: "https://evil.example.net", wantStatus: http.StatusOK},
		{name: "許可オリジンからのPOST", method: http.MethodPost, origin: "http://localhost:5173", wantStatus: http.StatusOK},
		{name: "Originなしのpost", method: http.MethodPost, origin: "", wantStatus: http.StatusOK},
		{name: "許可外オリジンからのPOST", method: http.MethodPost, origin: "https://evil.example.net", wantStatus: http.StatusForbidden},
		{name: "許可外オリジンからのDELETE", method: http.MethodDelete, origin: "https://evil.example.net", wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewOriginCheckMiddleware(testAllowedOrigins)(okHandler())

			req := httptest.NewRequest(tt.method, "/logout", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestOriginCheckMiddleware_RejectionBody(t *testing.T) {
	handler := NewOriginCheckMiddleware(testAllowedOrigins)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/reviews", nil)
	req.Header.Set("Origin", "https://evil.example.net")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	var body ErrorResponseBody
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if body.Code != model.ErrCodeForbidden {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeForbidden)
	}
}
