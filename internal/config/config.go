package config

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// 実行環境の名前。
const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

// TokenValidity はセッショントークンの有効期間。
// 発行時刻から固定で1時間とし、環境変数では変更できない。
const TokenValidity = time.Hour

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Environment
	AppEnv string

	// Database
	MongoURI      string
	MongoDatabase string

	// Token
	AccessTokenSecret string

	// Rate Limit（req/min）
	RateLimitGeneral int
	RateLimitToken   int

	// Revocation
	RevocationCapacity int

	// Logging
	LogLevel string

	// Server
	ServerPort string
	// TrustProxyHeaders がtrueの場合のみX-Forwarded-For等からクライアントIPを取得する。
	// リバースプロキシの背後で、プロキシがこれらのヘッダーを上書きする構成でのみ有効にすること。
	TrustProxyHeaders bool

	// Cookie
	CookieSecure   bool
	CookieSameSite http.SameSite
	CookieDomain   string

	// CORS
	CORSAllowedOrigins []string
}

// IsProduction は本番環境として起動しているかを返す。
func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

// Load は環境変数からConfigを読み込む。
// カレントディレクトリに.envがあれば先に読み込む（既存の環境変数は上書きしない）。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	// .envが存在しない場合は無視する
	_ = godotenv.Load()

	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.MongoURI = os.Getenv("MONGODB_URI")
	if cfg.MongoURI == "" {
		missing = append(missing, "MONGODB_URI")
	}

	cfg.AccessTokenSecret = os.Getenv("ACCESS_TOKEN_SECRET")
	if cfg.AccessTokenSecret == "" {
		missing = append(missing, "ACCESS_TOKEN_SECRET")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.AppEnv = getEnvString("APP_ENV", EnvDevelopment)
	if cfg.AppEnv != EnvProduction && cfg.AppEnv != EnvDevelopment {
		return nil, fmt.Errorf("invalid APP_ENV %q: must be %q or %q", cfg.AppEnv, EnvProduction, EnvDevelopment)
	}

	cfg.MongoDatabase = getEnvString("MONGODB_DATABASE", "hotelbook")
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitToken = getEnvInt("RATE_LIMIT_TOKEN", 10)
	cfg.RevocationCapacity = getEnvInt("REVOCATION_CAPACITY", 10000)
	cfg.LogLevel = getEnvString("LOG_LEVEL", "info")
	cfg.ServerPort = getEnvString("PORT", "5000")
	cfg.TrustProxyHeaders = getEnvBool("TRUST_PROXY_HEADERS", false)
	cfg.CookieDomain = getEnvString("COOKIE_DOMAIN", "")
	cfg.CORSAllowedOrigins = splitList(getEnvString("CORS_ALLOWED_ORIGINS", "http://localhost:5173"))

	// 本番ではSecure + SameSite=Strict、開発環境では両方とも緩める
	defaultSecure := cfg.IsProduction()
	defaultSameSite := "lax"
	if cfg.IsProduction() {
		defaultSameSite = "strict"
	}
	cfg.CookieSecure = getEnvBool("COOKIE_SECURE", defaultSecure)

	sameSite, err := parseSameSite(getEnvString("COOKIE_SAMESITE", defaultSameSite))
	if err != nil {
		return nil, err
	}
	cfg.CookieSameSite = sameSite

	// SameSite=NoneはSecure属性なしではブラウザに拒否される
	if cfg.CookieSameSite == http.SameSiteNoneMode && !cfg.CookieSecure {
		return nil, fmt.Errorf("COOKIE_SAMESITE=none requires COOKIE_SECURE=true")
	}

	return cfg, nil
}

// parseSameSite はSameSite属性の文字列表現をhttp.SameSiteに変換する。
func parseSameSite(v string) (http.SameSite, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "strict":
		return http.SameSiteStrictMode, nil
	case "lax":
		return http.SameSiteLaxMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	default:
		return 0, fmt.Errorf("invalid COOKIE_SAMESITE %q: must be strict, lax or none", v)
	}
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}
