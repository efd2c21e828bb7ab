// Package repository はデータ永続化のインターフェースとMongoDB実装を提供する。
package repository

import (
	"context"

	"github.com/hitoshi/hotelbook/internal/model"
	"go.mongodb.org/mongo-driver/bson"
)

// RoomRepository は部屋データの参照インターフェース。
// このサービスからは部屋を更新しない。
type RoomRepository interface {
	// Find はフィルタに一致する部屋を、プロジェクションで指定したフィールドのみで返す。
	// 一致するものがない場合は空のスライスを返す。
	Find(ctx context.Context, filter, projection bson.D) ([]model.Document, error)

	// FindOne はフィルタに一致する部屋を1件返す。見つからない場合はnilを返す。
	FindOne(ctx context.Context, filter, projection bson.D) (model.Document, error)
}

// ReviewRepository はレビューデータの永続化インターフェース。
type ReviewRepository interface {
	// List は全レビューを返す。
	List(ctx context.Context) ([]model.Document, error)

	// ListByRoom はroomIdが一致するレビューを返す。
	ListByRoom(ctx context.Context, roomID string) ([]model.Document, error)

	// Insert はレビューをそのまま追加する。
	Insert(ctx context.Context, doc model.Document) (*model.InsertResult, error)
}

// BookingRepository は予約データの永続化インターフェース。
type BookingRepository interface {
	// List は全予約を返す。
	List(ctx context.Context) ([]model.Document, error)

	// ListByEmail は予約者のメールアドレスが一致する予約を返す。
	ListByEmail(ctx context.Context, email string) ([]model.Document, error)

	// Insert は予約をそのまま追加する。
	Insert(ctx context.Context, doc model.Document) (*model.InsertResult, error)
}

// CarouselRepository はトップページのカルーセル表示データの参照インターフェース。
type CarouselRepository interface {
	// List は全エントリを返す。
	List(ctx context.Context) ([]model.Document, error)
}
