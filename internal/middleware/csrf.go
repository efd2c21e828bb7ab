package middleware

import (
	"log/slog"
	"net/http"

	"github.com/hitoshi/hotelbook/internal/model"
)

// NewOriginCheckMiddleware は状態変更リクエストのOriginヘッダーを検証するミドルウェアを返す。
// セッションはCookieで運ばれるため、許可リスト外のオリジンからのPOSTを拒否してCSRFを防ぐ。
// Originヘッダーのないリクエスト（ブラウザ以外のクライアント）はそのまま通す。
// 安全なメソッド（GET, HEAD, OPTIONS）は検証しない。
func NewOriginCheckMiddleware(allowedOrigins []string) func(next http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isSafeMethod(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if _, ok := allowed[origin]; !ok {
				slog.WarnContext(r.Context(), "cross-origin request rejected",
					slog.String("origin", origin),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)
				WriteErrorResponse(w, http.StatusForbidden, model.NewCrossOriginError())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// isSafeMethod はHTTPメソッドが安全（読み取り専用）かどうかを判定する。
func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}
