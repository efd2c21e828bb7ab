package auth

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// RevocationList はログアウトによって失効したトークンIDを保持する。
// エントリはトークンの有効期間が経過すると自動的に削除される（期限切れのトークンは
// Decodeで拒否されるため保持する必要がない）。
// プロセス内のメモリにのみ保持し、複数インスタンス間では共有しない。
type RevocationList struct {
	entries *expirable.LRU[string, struct{}]
}

// NewRevocationList はRevocationListを生成する。
// capacityを超えた場合は最も古いエントリから削除される。
func NewRevocationList(capacity int, ttl time.Duration) *RevocationList {
	if capacity <= 0 {
		capacity = 10000
	}
	return &RevocationList{
		entries: expirable.NewLRU[string, struct{}](capacity, nil, ttl),
	}
}

// Revoke はトークンIDを失効させる。同じIDを複数回失効させても問題ない。
func (l *RevocationList) Revoke(tokenID string) {
	if tokenID == "" {
		return
	}
	l.entries.Add(tokenID, struct{}{})
}

// IsRevoked はトークンIDが失効済みかどうかを返す。
func (l *RevocationList) IsRevoked(tokenID string) bool {
	if tokenID == "" {
		return false
	}
	_, ok := l.entries.Peek(tokenID)
	return ok
}

// Len は保持している失効済みトークンIDの数を返す。
func (l *RevocationList) Len() int {
	return l.entries.Len()
}
