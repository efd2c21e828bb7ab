// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ミドルウェアやハンドラーから利用する。
type MetricsCollector interface {
	RecordHTTPRequest(method, route string, statusCode int, duration time.Duration)
	RecordAuthRejection(reason string)
	RecordTokenIssued()
	RecordTokenRevoked()
	RecordRateLimited(limiter string)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpRequests   *prometheus.CounterVec
	httpLatency    *prometheus.HistogramVec
	authRejections *prometheus.CounterVec
	tokensIssued   prometheus.Counter
	tokensRevoked  prometheus.Counter
	rateLimited    *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hotelbook_http_requests_total",
			Help: "ルート・ステータスコード別のHTTPリクエスト数",
		}, []string{"method", "route", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hotelbook_http_request_duration_seconds",
			Help:    "HTTPリクエストの処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		authRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hotelbook_auth_rejections_total",
			Help: "認可ゲートで拒否されたリクエスト数（理由別）",
		}, []string{"reason"}),
		tokensIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hotelbook_tokens_issued_total",
			Help: "発行したセッショントークンの合計数",
		}),
		tokensRevoked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hotelbook_tokens_revoked_total",
			Help: "ログアウトで失効させたセッショントークンの合計数",
		}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hotelbook_rate_limited_total",
			Help: "レート制限で拒否されたリクエスト数",
		}, []string{"limiter"}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpLatency,
		c.authRejections,
		c.tokensIssued,
		c.tokensRevoked,
		c.rateLimited,
	)

	return c
}

// RecordHTTPRequest はリクエスト1件の結果と処理時間を記録する。
// routeにはパスそのものではなくルートパターン（例: /rooms/{id}）を渡すこと。
func (c *Collector) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	c.httpLatency.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordAuthRejection は認可ゲートでの拒否を記録する。
func (c *Collector) RecordAuthRejection(reason string) {
	c.authRejections.WithLabelValues(reason).Inc()
}

// RecordTokenIssued はトークン発行を記録する。
func (c *Collector) RecordTokenIssued() {
	c.tokensIssued.Inc()
}

// RecordTokenRevoked はトークン失効を記録する。
func (c *Collector) RecordTokenRevoked() {
	c.tokensRevoked.Inc()
}

// RecordRateLimited はレート制限による拒否を記録する。
func (c *Collector) RecordRateLimited(limiter string) {
	c.rateLimited.WithLabelValues(limiter).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
