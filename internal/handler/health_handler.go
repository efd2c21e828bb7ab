package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// rootBanner はルートパスで返す稼働確認用のメッセージ。
const rootBanner = "hotelbook backend is running"

// healthCheckTimeout はヘルスチェックでのデータベース疎通確認のタイムアウト。
const healthCheckTimeout = 3 * time.Second

// HealthChecker はデータベースの疎通確認に必要なインターフェース。
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthCheckFunc は関数をHealthCheckerとして使うためのアダプタ。
type HealthCheckFunc func(ctx context.Context) error

// Ping はf(ctx)を呼び出す。
func (f HealthCheckFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// HealthHandler はルートとヘルスチェックのHTTPハンドラー。
type HealthHandler struct {
	checker HealthChecker
}

// NewHealthHandler はHealthHandlerを生成する。
func NewHealthHandler(checker HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// Root は稼働確認のメッセージを返す。
// GET /
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, rootBanner)
}

// Health はデータベースの疎通を確認し、結果を返す。
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.checker.Ping(ctx); err != nil {
		slog.WarnContext(r.Context(), "health check failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
