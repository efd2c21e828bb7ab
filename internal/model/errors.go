// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, room, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized   = "UNAUTHORIZED"
	ErrCodeForbidden      = "FORBIDDEN"
	ErrCodeRoomNotFound   = "ROOM_NOT_FOUND"
	ErrCodeInvalidFilter  = "INVALID_FILTER"
	ErrCodeInvalidRequest = "INVALID_REQUEST"
	ErrCodeRateLimited    = "RATE_LIMITED"
	ErrCodeInternal       = "INTERNAL_ERROR"
)

// NewUnauthorizedError は未認証エラーを生成する。
// トークンが無い・改ざん・期限切れのいずれでも同じ内容を返し、原因は開示しない。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "unauthorized access",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewForbiddenError は認可エラーを生成する。
// 対象リソースに関する情報はメッセージに含めない。
func NewForbiddenError() *APIError {
	return &APIError{
		Code:     ErrCodeForbidden,
		Message:  "forbidden access",
		Category: "auth",
		Action:   "ご自身のアカウントの情報のみ参照できます。",
	}
}

// NewRoomNotFoundError は部屋未検出エラーを生成する。
// メッセージにはリクエストされたIDを含めない。
func NewRoomNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeRoomNotFound,
		Message:  "指定された部屋が見つかりません。",
		Category: "room",
		Action:   "部屋IDを確認してください。",
	}
}

// NewInvalidFilterError は価格フィルタの指定が不正な場合のエラーを生成する。
func NewInvalidFilterError(param string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidFilter,
		Message:  fmt.Sprintf("無効なフィルタです: %s", param),
		Category: "validation",
		Action:   "start には数値を、end には数値または all を指定してください。",
	}
}

// NewInvalidRequestError はリクエストボディが不正な場合のエラーを生成する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("リクエストが不正です: %s", reason),
		Category: "validation",
		Action:   "正しいJSON形式でリクエストしてください。",
	}
}

// NewRateLimitedError はレート制限超過エラーを生成する。
func NewRateLimitedError() *APIError {
	return &APIError{
		Code:     ErrCodeRateLimited,
		Message:  "Too many requests. Please try again later.",
		Category: "system",
		Action:   "Retry-Afterに示された秒数だけ待ってから再度お試しください。",
	}
}

// NewCrossOriginError は許可されていないオリジンからの状態変更リクエストに対するエラーを生成する。
func NewCrossOriginError() *APIError {
	return &APIError{
		Code:     ErrCodeForbidden,
		Message:  "cross-origin request is not allowed",
		Category: "auth",
		Action:   "許可されたオリジンからアクセスしてください。",
	}
}

// NewInternalError は内部エラーを生成する。詳細はログのみに記録する。
func NewInternalError() *APIError {
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}
