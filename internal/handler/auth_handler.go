// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/hitoshi/hotelbook/internal/auth"
	"github.com/hitoshi/hotelbook/internal/model"
)

// TokenCodec はトークンの発行・検証に必要なインターフェース。
// auth.Codecが実装する。
type TokenCodec interface {
	Issue(claims auth.Claims) (string, error)
	Decode(token string) (*auth.Claims, error)
}

// SessionCarrier はトークンをクライアントに持たせるためのインターフェース。
// session.Carrierが実装する。
type SessionCarrier interface {
	Attach(w http.ResponseWriter, token string)
	Read(r *http.Request) (string, bool)
	Revoke(w http.ResponseWriter)
}

// TokenRevoker はログアウトしたトークンを失効させるためのインターフェース。
// auth.RevocationListが実装する。
type TokenRevoker interface {
	Revoke(tokenID string)
}

// TokenMetrics はトークンの発行・失効の記録に必要なインターフェース。
type TokenMetrics interface {
	RecordTokenIssued()
	RecordTokenRevoked()
}

// AuthHandler はトークン発行とログアウトのHTTPハンドラー。
type AuthHandler struct {
	codec    TokenCodec
	carrier  SessionCarrier
	revoker  TokenRevoker
	metrics  TokenMetrics
	validate *validator.Validate
}

// NewAuthHandler はAuthHandlerを生成する。metricsはnilでもよい。
func NewAuthHandler(codec TokenCodec, carrier SessionCarrier, revoker TokenRevoker, metrics TokenMetrics) *AuthHandler {
	return &AuthHandler{
		codec:    codec,
		carrier:  carrier,
		revoker:  revoker,
		metrics:  metrics,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// IssueToken はリクエストボディのクレームからトークンを発行し、Cookieに設定する。
// POST /jwt
// emailは必須。それ以外のフィールドはそのままクレームに含める。
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	body, apiErr := decodeDocument(w, r)
	if apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	email, _ := body["email"].(string)
	if err := h.validate.Var(email, "required,email"); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("emailが不正です"))
		return
	}

	extra := make(map[string]any, len(body))
	for k, v := range body {
		if k != "email" {
			extra[k] = v
		}
	}

	token, err := h.codec.Issue(auth.Claims{Email: email, Extra: extra})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	h.carrier.Attach(w, token)
	if h.metrics != nil {
		h.metrics.RecordTokenIssued()
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// Logout はCookieを破棄し、持っていたトークンを失効させる。
// POST /logout
// トークンがない・すでに無効な場合も成功として扱う。
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token, ok := h.carrier.Read(r); ok {
		claims, err := h.codec.Decode(token)
		switch {
		case err == nil:
			h.revoker.Revoke(claims.ID)
			if h.metrics != nil {
				h.metrics.RecordTokenRevoked()
			}
		case errors.Is(err, auth.ErrExpired):
			// 期限切れのトークンは失効リストに載せる必要がない
		default:
			slog.DebugContext(r.Context(), "logout with undecodable token",
				slog.String("reason", auth.RejectionReason(err)),
			)
		}
	}

	h.carrier.Revoke(w)
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
