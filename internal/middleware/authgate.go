// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/hitoshi/hotelbook/internal/auth"
)

// Authorizer はリクエストの認証に必要なインターフェース。
// auth.Gateが実装する。
type Authorizer interface {
	Authorize(r *http.Request) (*auth.Claims, error)
}

// AuthRejectionRecorder は認証拒否の記録に必要なインターフェース。
// metrics.Collectorの部分集合として定義する。
type AuthRejectionRecorder interface {
	RecordAuthRejection(reason string)
}

// NewAuthGateMiddleware はCookieのトークンを検証し、
// 認証済みのクレームをリクエストコンテキストに注入するミドルウェアを返す。
// 認証できないリクエストには理由を問わず同じ401レスポンスを返す。
// 拒否理由はデバッグログとメトリクスにのみ残す。recorderはnilでもよい。
func NewAuthGateMiddleware(authorizer Authorizer, recorder AuthRejectionRecorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := authorizer.Authorize(r)
			if err != nil {
				reason := auth.RejectionReason(err)
				slog.DebugContext(r.Context(), "request rejected by auth gate",
					slog.String("reason", reason),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)
				if recorder != nil {
					recorder.RecordAuthRejection(reason)
				}
				WriteUnauthorized(w)
				return
			}

			setAuthenticatedToken(r.Context(), claims.ID)
			ctx := auth.ContextWithClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
