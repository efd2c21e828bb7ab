package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/hitoshi/hotelbook/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger             *slog.Logger
	CORSAllowedOrigins []string
	HSTS               bool
	// TrustProxyHeaders がtrueの場合のみRealIPでRemoteAddrを書き換える。
	// falseの場合、クライアントが送ったX-Forwarded-For等はレート制限のキーに影響しない。
	TrustProxyHeaders bool
	RateLimiter        *middleware.RateLimiter
	Authorizer         middleware.Authorizer

	// メトリクス
	Metrics        RouterMetrics
	MetricsHandler http.Handler

	// トークン
	TokenCodec     TokenCodec
	SessionCarrier SessionCarrier
	TokenRevoker   TokenRevoker

	// リソース
	RoomService     RoomServiceInterface
	ReviewService   ReviewServiceInterface
	BookingService  BookingServiceInterface
	CarouselService CarouselServiceInterface

	// ヘルスチェック
	HealthChecker HealthChecker
}

// RouterMetrics はルーターが記録するメトリクスのインターフェース。
// metrics.Collectorが実装する。
type RouterMetrics interface {
	middleware.HTTPRequestRecorder
	middleware.AuthRejectionRecorder
	TokenMetrics
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	(RealIP) → Recovery → Logging → Metrics → SecurityHeaders → CORS → OriginCheck → RateLimit(General)
//
// RealIPはTrustProxyHeadersが有効な場合のみ適用する。
// 保護されたルートにはさらにAuthGateを適用する。
// /metrics と /health はレート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if deps.TrustProxyHeaders {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(logger))
	if deps.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	}
	r.Use(middleware.NewSecurityHeadersMiddleware(deps.HSTS))
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigins))
	r.Use(middleware.NewOriginCheckMiddleware(deps.CORSAllowedOrigins))

	var tokenMetrics TokenMetrics
	var rejectionRecorder middleware.AuthRejectionRecorder
	if deps.Metrics != nil {
		tokenMetrics = deps.Metrics
		rejectionRecorder = deps.Metrics
	}

	healthHandler := NewHealthHandler(deps.HealthChecker)
	authHandler := NewAuthHandler(deps.TokenCodec, deps.SessionCarrier, deps.TokenRevoker, tokenMetrics)
	roomHandler := NewRoomHandler(deps.RoomService)
	reviewHandler := NewReviewHandler(deps.ReviewService)
	bookingHandler := NewBookingHandler(deps.BookingService)
	carouselHandler := NewCarouselHandler(deps.CarouselService)

	// --- 運用向けのルート ---
	r.Get("/health", healthHandler.Health)
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Get("/", healthHandler.Root)

		// トークン発行（発行専用レート制限を追加）とログアウト
		r.With(deps.RateLimiter.TokenIssuanceMiddleware()).Post("/jwt", authHandler.IssueToken)
		r.Post("/logout", authHandler.Logout)

		// 部屋
		r.Get("/rooms", roomHandler.ListRooms)
		r.Get("/rooms/{id}", roomHandler.GetRoom)

		// レビュー
		r.Get("/reviews", reviewHandler.ListReviews)
		r.Post("/reviews", reviewHandler.PostReview)
		r.Get("/reviews/{id}", reviewHandler.ListRoomReviews)

		// 予約
		r.Get("/bookings", bookingHandler.ListBookings)
		r.Post("/bookings", bookingHandler.CreateBooking)

		// カルーセル
		r.Get("/carousel", carouselHandler.ListEntries)

		// --- 認証が必要なルート ---
		r.Group(func(r chi.Router) {
			r.Use(middleware.NewAuthGateMiddleware(deps.Authorizer, rejectionRecorder))
			r.Get("/my-bookings", bookingHandler.ListMyBookings)
		})
	})

	return r
}
