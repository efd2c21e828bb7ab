// Package session はセッショントークンをHTTP Only Cookieとしてクライアントに持たせる。
package session

import (
	"net/http"
	"time"
)

// DefaultCookieName はセッショントークンを保持するCookieの名前。
const DefaultCookieName = "token"

// CookieConfig はセッションCookieの属性。
// 本番と開発環境でSecure・SameSiteを切り替えるため、設定から渡す。
type CookieConfig struct {
	Name     string
	Domain   string
	Secure   bool
	SameSite http.SameSite
	MaxAge   time.Duration
}

// Carrier はトークンをCookieに格納・取得・破棄する。
// トークンの中身には関与しない。
type Carrier struct {
	config CookieConfig
}

// NewCarrier はCarrierを生成する。Nameが空の場合はDefaultCookieNameを使用する。
func NewCarrier(config CookieConfig) *Carrier {
	if config.Name == "" {
		config.Name = DefaultCookieName
	}
	if config.SameSite == 0 {
		config.SameSite = http.SameSiteStrictMode
	}
	return &Carrier{config: config}
}

// Attach はトークンをHTTP Only Cookieとしてレスポンスに設定する。
// クライアント側のスクリプトからは読み取れない。
func (c *Carrier) Attach(w http.ResponseWriter, token string) {
	http.SetCookie(w, c.cookie(token, int(c.config.MaxAge/time.Second)))
}

// Read はリクエストのCookieからトークンを取り出す。
// Cookieが無い、または空の場合はfalseを返す（エラーではない）。
func (c *Carrier) Read(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(c.config.Name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// Revoke はクライアントにCookieを即時破棄させる。
// Cookieが存在しない場合に呼び出しても問題ない。
func (c *Carrier) Revoke(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie("", -1))
}

func (c *Carrier) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     c.config.Name,
		Value:    value,
		Path:     "/",
		Domain:   c.config.Domain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.config.Secure,
		SameSite: c.config.SameSite,
	}
}
