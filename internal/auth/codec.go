package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultValidity はトークンの有効期間。発行時刻から1時間。
const DefaultValidity = time.Hour

// 予約済みクレーム名。Extraに同名のキーがあっても発行時に上書きされる。
const (
	claimEmail     = "email"
	claimID        = "jti"
	claimIssuedAt  = "iat"
	claimExpiresAt = "exp"
	claimNotBefore = "nbf"
)

var reservedClaims = map[string]struct{}{
	claimEmail:     {},
	claimID:        {},
	claimIssuedAt:  {},
	claimExpiresAt: {},
	claimNotBefore: {},
}

// Claims はトークンに埋め込まれる利用者の識別情報。
// 発行後は変更されない。
type Claims struct {
	// ID はトークン固有のID（jti）。ログアウト時の失効管理に使用する。
	ID string
	// Email は利用者を一意に識別するメールアドレス。
	Email string
	// Extra は発行時に指定された追加のクレーム。
	Extra map[string]any

	IssuedAt  time.Time
	ExpiresAt time.Time
}

// CodecOption はCodecの設定を変更する。
type CodecOption func(*Codec)

// WithClock は現在時刻の取得関数を差し替える。テストで有効期限を検証する際に使用する。
func WithClock(now func() time.Time) CodecOption {
	return func(c *Codec) {
		c.now = now
	}
}

// WithValidity はトークンの有効期間を変更する。
func WithValidity(d time.Duration) CodecOption {
	return func(c *Codec) {
		c.validity = d
	}
}

// Codec はHS256で署名した有効期限付きトークンの発行と検証を行う。
// 状態を持たないため複数のgoroutineから同時に使用できる。
type Codec struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
	newID    func() string
}

// NewCodec はCodecを生成する。secretが空の場合はエラーを返す。
func NewCodec(secret []byte, opts ...CodecOption) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("token secret must not be empty")
	}
	c := &Codec{
		secret:   secret,
		validity: DefaultValidity,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Validity はトークンの有効期間を返す。
func (c *Codec) Validity() time.Duration {
	return c.validity
}

// Issue はクレームに署名したトークンを発行する。
// 有効期限は発行時刻からValidity後に固定される。
func (c *Codec) Issue(claims Claims) (string, error) {
	if claims.Email == "" {
		return "", ErrMissingEmail
	}

	now := c.now()
	mc := jwt.MapClaims{}
	for k, v := range claims.Extra {
		if _, reserved := reservedClaims[k]; reserved {
			continue
		}
		mc[k] = v
	}
	mc[claimEmail] = claims.Email
	mc[claimID] = c.newID()
	mc[claimIssuedAt] = jwt.NewNumericDate(now)
	mc[claimExpiresAt] = jwt.NewNumericDate(now.Add(c.validity))

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, mc).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// Decode はトークンの署名と有効期限を検証し、埋め込まれたクレームを返す。
// 失敗した場合はErrMalformed、ErrInvalidSignature、ErrExpiredのいずれかをラップしたエラーを返す。
// 部分的なクレームを返すことはない。
func (c *Codec) Decode(token string) (*Claims, error) {
	mc := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, mc,
		func(t *jwt.Token) (any, error) {
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, classifyParseError(err)
	}

	return claimsFromMap(mc)
}

// classifyParseError はjwtライブラリのエラーをデコード失敗の種別に分類する。
func classifyParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrExpired, err)
	default:
		// exp欠落、nbf未到来などは正しい鍵で署名されていても受け付けない
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}

func claimsFromMap(mc jwt.MapClaims) (*Claims, error) {
	email, ok := mc[claimEmail].(string)
	if !ok || email == "" {
		return nil, fmt.Errorf("%w: email claim is missing", ErrMalformed)
	}
	id, _ := mc[claimID].(string)

	claims := &Claims{
		ID:    id,
		Email: email,
	}

	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}

	for k, v := range mc {
		if _, reserved := reservedClaims[k]; reserved {
			continue
		}
		if claims.Extra == nil {
			claims.Extra = make(map[string]any)
		}
		claims.Extra[k] = v
	}

	return claims, nil
}
