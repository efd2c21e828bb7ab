package auth

import "context"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

var claimsContextKey = contextKey("auth_claims")

// ContextWithClaims はコンテキストに認証済みのクレームを注入する。
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFromContext はリクエストコンテキストから認証済みのクレームを取得する。
// 認証ゲートを通過したリクエストでのみ有効。
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*Claims)
	if !ok || claims == nil {
		return nil, false
	}
	return claims, true
}
