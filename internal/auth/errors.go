// Package auth はセッショントークンの発行・検証と、保護されたエンドポイントの認証・認可を提供する。
package auth

import "errors"

// トークンのデコード失敗の種別。Decodeはこのいずれかをラップしたエラーを返す。
var (
	// ErrMalformed はトークンを解析できない、または必須のクレームが欠けていることを示す。
	ErrMalformed = errors.New("token is malformed")
	// ErrInvalidSignature は署名が鍵と一致しない、または想定外の署名方式であることを示す。
	ErrInvalidSignature = errors.New("token signature is invalid")
	// ErrExpired は有効期限を過ぎたトークンであることを示す。
	ErrExpired = errors.New("token is expired")
)

// ErrMissingEmail は発行対象のクレームにemailが含まれていないことを示す。
var ErrMissingEmail = errors.New("claims must contain an email")

// Gateおよび所有者チェックの拒否理由。
var (
	// ErrUnauthenticated は認証に失敗したことを示す。クライアントには原因を区別せず返す。
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden は認証済みだが対象リソースへのアクセス権がないことを示す。
	ErrForbidden = errors.New("forbidden")

	// ErrMissingToken はリクエストにトークンが含まれていないことを示す。
	ErrMissingToken = errors.New("token is missing")
	// ErrRevoked はログアウト済みのトークンであることを示す。
	ErrRevoked = errors.New("token is revoked")
)

// RejectionReason は認証失敗エラーの原因をメトリクス・ログ用のラベルに変換する。
// クライアントへのレスポンスには使用しないこと。
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrMissingToken):
		return "missing_token"
	case errors.Is(err, ErrExpired):
		return "expired"
	case errors.Is(err, ErrInvalidSignature):
		return "invalid_signature"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	case errors.Is(err, ErrRevoked):
		return "revoked"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	default:
		return "unknown"
	}
}
