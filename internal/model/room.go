package model

import "go.mongodb.org/mongo-driver/bson"

// Document はスキーマを固定しないドキュメントストア上の1レコード。
// レビュー・予約・カルーセルはクライアントから受け取った内容をそのまま保存する。
type Document = bson.M

// コレクション名
const (
	CollectionRooms    = "rooms"
	CollectionReviews  = "reviews"
	CollectionBookings = "bookings"
	CollectionCarousel = "carousel"
)

// roomsコレクションのフィールド名。
const (
	RoomFieldID           = "_id"
	RoomFieldTitle        = "title"
	RoomFieldDescription  = "description"
	RoomFieldPrice        = "price_per_night"
	RoomFieldRatings      = "ratings"
	RoomFieldAvailability = "availability"
	RoomFieldFacilities   = "facilities"
	RoomFieldImages       = "images"
	RoomFieldCardImage    = "card_image"
	RoomFieldReviews      = "reviews"
)

// ReviewFieldRoomID はレビューが紐づく部屋IDのフィールド名。
const ReviewFieldRoomID = "roomId"

// BookingFieldEmail は予約者のメールアドレスのフィールド名。
const BookingFieldEmail = "email"

// InsertResult はドキュメント追加の結果を表す。
type InsertResult struct {
	Acknowledged bool `json:"acknowledged"`
	InsertedID   any  `json:"insertedId"`
}
