package repository

import (
	"context"
	"fmt"

	"github.com/hitoshi/hotelbook/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// findDocuments はコレクションからフィルタに一致するドキュメントをすべて読み込む。
// 一致しない場合もnilではなく空のスライスを返す（JSONで [] として返すため）。
func findDocuments(ctx context.Context, coll *mongo.Collection, filter any, opts ...*options.FindOptions) ([]model.Document, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	docs := []model.Document{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", coll.Name(), err)
	}
	if docs == nil {
		docs = []model.Document{}
	}
	return docs, nil
}

// insertDocument はドキュメントをそのまま追加する。
func insertDocument(ctx context.Context, coll *mongo.Collection, doc model.Document) (*model.InsertResult, error) {
	res, err := coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to insert into %s: %w", coll.Name(), err)
	}
	return &model.InsertResult{
		Acknowledged: true,
		InsertedID:   res.InsertedID,
	}, nil
}

// MongoRoomRepo はMongoDBを使用した部屋リポジトリ。
type MongoRoomRepo struct {
	coll *mongo.Collection
}

// NewMongoRoomRepo はMongoRoomRepoを生成する。
func NewMongoRoomRepo(db *mongo.Database) *MongoRoomRepo {
	return &MongoRoomRepo{coll: db.Collection(model.CollectionRooms)}
}

// Find はフィルタに一致する部屋を返す。
func (r *MongoRoomRepo) Find(ctx context.Context, filter, projection bson.D) ([]model.Document, error) {
	return findDocuments(ctx, r.coll, filter, options.Find().SetProjection(projection))
}

// FindOne はフィルタに一致する部屋を1件返す。見つからない場合はnilを返す。
func (r *MongoRoomRepo) FindOne(ctx context.Context, filter, projection bson.D) (model.Document, error) {
	var doc model.Document
	err := r.coll.FindOne(ctx, filter, options.FindOne().SetProjection(projection)).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find room: %w", err)
	}
	return doc, nil
}

// MongoReviewRepo はMongoDBを使用したレビューリポジトリ。
type MongoReviewRepo struct {
	coll *mongo.Collection
}

// NewMongoReviewRepo はMongoReviewRepoを生成する。
func NewMongoReviewRepo(db *mongo.Database) *MongoReviewRepo {
	return &MongoReviewRepo{coll: db.Collection(model.CollectionReviews)}
}

// List は全レビューを返す。
func (r *MongoReviewRepo) List(ctx context.Context) ([]model.Document, error) {
	return findDocuments(ctx, r.coll, bson.D{})
}

// ListByRoom はroomIdが一致するレビューを返す。
func (r *MongoReviewRepo) ListByRoom(ctx context.Context, roomID string) ([]model.Document, error) {
	return findDocuments(ctx, r.coll, bson.D{{Key: model.ReviewFieldRoomID, Value: roomID}})
}

// Insert はレビューをそのまま追加する。
func (r *MongoReviewRepo) Insert(ctx context.Context, doc model.Document) (*model.InsertResult, error) {
	return insertDocument(ctx, r.coll, doc)
}

// MongoBookingRepo はMongoDBを使用した予約リポジトリ。
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo はMongoBookingRepoを生成する。
func NewMongoBookingRepo(db *mongo.Database) *MongoBookingRepo {
	return &MongoBookingRepo{coll: db.Collection(model.CollectionBookings)}
}

// List は全予約を返す。
func (r *MongoBookingRepo) List(ctx context.Context) ([]model.Document, error) {
	return findDocuments(ctx, r.coll, bson.D{})
}

// ListByEmail は予約者のメールアドレスが一致する予約を返す。
func (r *MongoBookingRepo) ListByEmail(ctx context.Context, email string) ([]model.Document, error) {
	return findDocuments(ctx, r.coll, bson.D{{Key: model.BookingFieldEmail, Value: email}})
}

// Insert は予約をそのまま追加する。
func (r *MongoBookingRepo) Insert(ctx context.Context, doc model.Document) (*model.InsertResult, error) {
	return insertDocument(ctx, r.coll, doc)
}

// MongoCarouselRepo はMongoDBを使用したカルーセルリポジトリ。
type MongoCarouselRepo struct {
	coll *mongo.Collection
}

// NewMongoCarouselRepo はMongoCarouselRepoを生成する。
func NewMongoCarouselRepo(db *mongo.Database) *MongoCarouselRepo {
	return &MongoCarouselRepo{coll: db.Collection(model.CollectionCarousel)}
}

// List は全エントリを返す。
func (r *MongoCarouselRepo) List(ctx context.Context) ([]model.Document, error) {
	return findDocuments(ctx, r.coll, bson.D{})
}

// --- compile-time interface checks ---

var _ RoomRepository = (*MongoRoomRepo)(nil)
var _ ReviewRepository = (*MongoReviewRepo)(nil)
var _ BookingRepository = (*MongoBookingRepo)(nil)
var _ CarouselRepository = (*MongoCarouselRepo)(nil)
