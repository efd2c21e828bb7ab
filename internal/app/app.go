package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hitoshi/hotelbook/internal/auth"
	"github.com/hitoshi/hotelbook/internal/booking"
	"github.com/hitoshi/hotelbook/internal/carousel"
	"github.com/hitoshi/hotelbook/internal/config"
	"github.com/hitoshi/hotelbook/internal/database"
	"github.com/hitoshi/hotelbook/internal/handler"
	"github.com/hitoshi/hotelbook/internal/logger"
	"github.com/hitoshi/hotelbook/internal/metrics"
	"github.com/hitoshi/hotelbook/internal/middleware"
	"github.com/hitoshi/hotelbook/internal/repository"
	"github.com/hitoshi/hotelbook/internal/room"
	"github.com/hitoshi/hotelbook/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.mongodb.org/mongo-driver/mongo"
)

// connectTimeout はMongoDBへの初回接続のタイムアウト。
const connectTimeout = 10 * time.Second

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 3. 設定に従ってログレベルを反映する
	logger.SetLevel(cfg.LogLevel)

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("PORT")
		if port == "" {
			port = "5000"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("env", cfg.AppEnv),
		slog.String("port", cfg.ServerPort),
		slog.String("database", cfg.MongoDatabase),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// server はHTTPハンドラーと、停止時に解放するリソースを保持する。
type server struct {
	handler     http.Handler
	rateLimiter *middleware.RateLimiter
}

// close はバックグラウンドで動作しているリソースを停止する。
func (s *server) close() {
	s.rateLimiter.Stop()
}

// newServer は全依存関係をワイヤリングし、ルーターを構築する。
// clientは接続済みである必要はない（リクエスト処理時に接続する）。
func newServer(cfg *config.Config, client *mongo.Client) (*server, error) {
	db := client.Database(cfg.MongoDatabase)

	// 1. リポジトリの初期化
	roomRepo := repository.NewMongoRoomRepo(db)
	reviewRepo := repository.NewMongoReviewRepo(db)
	bookingRepo := repository.NewMongoBookingRepo(db)
	carouselRepo := repository.NewMongoCarouselRepo(db)

	// 2. ドメインサービスの初期化
	roomService := room.NewService(roomRepo)
	reviewService := room.NewReviewService(reviewRepo)
	bookingService := booking.NewService(bookingRepo)
	carouselService := carousel.NewService(carouselRepo)

	// 3. トークン・セッションの初期化
	codec, err := auth.NewCodec([]byte(cfg.AccessTokenSecret), auth.WithValidity(config.TokenValidity))
	if err != nil {
		return nil, fmt.Errorf("failed to create token codec: %w", err)
	}
	revocations := auth.NewRevocationList(cfg.RevocationCapacity, config.TokenValidity)
	carrier := session.NewCarrier(session.CookieConfig{
		Domain:   cfg.CookieDomain,
		Secure:   cfg.CookieSecure,
		SameSite: cfg.CookieSameSite,
		MaxAge:   config.TokenValidity,
	})
	gate := auth.NewGate(carrier, codec, revocations)

	// 4. メトリクスの初期化
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(reg)

	// 5. ルーターの構築
	// configのレート制限はreq/min単位。RateLimiterConfigでreq/secに変換する
	rateLimiter := middleware.NewRateLimiter(
		middleware.NewRateLimiterConfig(cfg.RateLimitGeneral, cfg.RateLimitToken),
		collector,
	)

	deps := &handler.RouterDeps{
		Logger:             slog.Default(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		HSTS:               cfg.IsProduction(),
		TrustProxyHeaders:  cfg.TrustProxyHeaders,
		RateLimiter:        rateLimiter,
		Authorizer:         gate,

		Metrics:        collector,
		MetricsHandler: metrics.Handler(reg),

		TokenCodec:     codec,
		SessionCarrier: carrier,
		TokenRevoker:   revocations,

		RoomService:     roomService,
		ReviewService:   reviewService,
		BookingService:  bookingService,
		CarouselService: carouselService,

		HealthChecker: handler.HealthCheckFunc(func(ctx context.Context) error {
			return database.Ping(ctx, client)
		}),
	}

	return &server{
		handler:     handler.NewRouter(deps),
		rateLimiter: rateLimiter,
	}, nil
}

// runServe はAPIサーバーモードで起動する。
// MongoDBに接続し、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. DB接続
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), connectTimeout)
	client, err := database.Connect(connectCtx, cfg.MongoURI)
	cancelConnect()
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			slog.Error("failed to disconnect from database", slog.String("error", err.Error()))
		}
	}()

	slog.Info("database connection established",
		slog.String("uri", maskMongoURI(cfg.MongoURI)),
	)

	// 2. ルーターの構築
	srv, err := newServer(cfg, client)
	if err != nil {
		return err
	}
	defer srv.close()

	// 3. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      srv.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	listenErr := make(chan error, 1)
	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("server listen error: %w", err)
	case <-stop:
	}
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runMigrate はインデックスのマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("uri", maskMongoURI(cfg.MongoURI)),
		slog.String("database", cfg.MongoDatabase),
	)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	client, err := database.Connect(ctx, cfg.MongoURI)
	cancel()
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer client.Disconnect(context.Background())

	if err := database.RunMigrations(client, cfg.MongoDatabase); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	endpoint := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(endpoint)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskMongoURI は接続URIから認証情報とクエリを取り除く。
func maskMongoURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Host == "" {
		return "***"
	}
	u.User = nil
	u.RawQuery = ""
	return u.String()
}
