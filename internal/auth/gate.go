package auth

import (
	"fmt"
	"net/http"
)

// TokenReader はリクエストからトークンを取り出す。
// session.Carrierの部分集合として定義する。
type TokenReader interface {
	Read(r *http.Request) (string, bool)
}

// TokenDecoder はトークンを検証してクレームを返す。
type TokenDecoder interface {
	Decode(token string) (*Claims, error)
}

// RevocationChecker はトークンIDが失効済みかどうかを判定する。
type RevocationChecker interface {
	IsRevoked(tokenID string) bool
}

// Gate は保護されたエンドポイントの前段で呼び出し元を認証する。
// 呼び出し元が誰であるかの確認のみを行い、リソースへのアクセス可否は
// 各ハンドラーがCheckOwnershipで判定する。
type Gate struct {
	reader  TokenReader
	decoder TokenDecoder
	revoked RevocationChecker
}

// NewGate はGateを生成する。revokedがnilの場合は失効チェックを行わない。
func NewGate(reader TokenReader, decoder TokenDecoder, revoked RevocationChecker) *Gate {
	return &Gate{
		reader:  reader,
		decoder: decoder,
		revoked: revoked,
	}
}

// Authorize はリクエストに含まれるトークンを検証し、クレームを返す。
// 失敗した場合は常にErrUnauthenticatedをラップしたエラーを返す。
// ラップされた原因はログ・メトリクス用であり、クライアントに返してはならない。
func (g *Gate) Authorize(r *http.Request) (*Claims, error) {
	token, ok := g.reader.Read(r)
	if !ok {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, ErrMissingToken)
	}

	claims, err := g.decoder.Decode(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	if g.revoked != nil && g.revoked.IsRevoked(claims.ID) {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, ErrRevoked)
	}

	return claims, nil
}

// CheckOwnership は認証済みの利用者が、リクエストで指定された識別子の持ち主かどうかを判定する。
// 一致しない場合（空文字を含む）はErrForbiddenを返す。
func CheckOwnership(claims *Claims, requested string) error {
	if claims == nil {
		return ErrUnauthenticated
	}
	if requested == "" || claims.Email != requested {
		return ErrForbidden
	}
	return nil
}
