// Package room は部屋とレビューの参照・登録ロジックを提供する。
package room

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/hotelbook/internal/model"
	"github.com/hitoshi/hotelbook/internal/query"
	"github.com/hitoshi/hotelbook/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Service は部屋一覧・部屋詳細のサービス層。
// クエリとプロジェクションの組み立てはqueryパッケージに任せ、
// ここでは識別子の検証と未検出時のエラー変換を行う。
type Service struct {
	roomRepo repository.RoomRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(roomRepo repository.RoomRepository) *Service {
	return &Service{roomRepo: roomRepo}
}

// ListRooms は価格フィルタに一致する部屋を一覧用のフィールドのみで返す。
func (s *Service) ListRooms(ctx context.Context, filter query.RoomFilter) ([]model.Document, error) {
	f, proj := query.BuildRoomsQuery(filter)
	rooms, err := s.roomRepo.Find(ctx, f, proj)
	if err != nil {
		return nil, fmt.Errorf("部屋一覧の取得に失敗しました: %w", err)
	}
	return rooms, nil
}

// GetRoom は指定IDの部屋を詳細フィールド付きで返す。
// IDがObjectIDとして解釈できない場合も、存在しない場合と同じくROOM_NOT_FOUNDを返す。
func (s *Service) GetRoom(ctx context.Context, id string) (model.Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		slog.DebugContext(ctx, "room id is not an ObjectID", slog.String("room_id", id))
		return nil, model.NewRoomNotFoundError()
	}

	f, proj := query.BuildRoomQuery(oid)
	room, err := s.roomRepo.FindOne(ctx, f, proj)
	if err != nil {
		return nil, fmt.Errorf("部屋の取得に失敗しました: %w", err)
	}
	if room == nil {
		slog.DebugContext(ctx, "room not found", slog.String("room_id", id))
		return nil, model.NewRoomNotFoundError()
	}
	return room, nil
}
