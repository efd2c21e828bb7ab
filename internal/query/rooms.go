// Package query はクライアントから受け取った検索条件をドキュメントストアのクエリに変換する。
// 返却するフィールドはエンドポイントごとに固定し、クライアントの入力では変更できない。
package query

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/hitoshi/hotelbook/internal/model"
	"go.mongodb.org/mongo-driver/bson"
)

// UnboundedEnd は上限なしを表すendパラメータの値。
const UnboundedEnd = "all"

// ErrInvalidBound は価格の境界値が数値として解釈できないことを示す。
var ErrInvalidBound = errors.New("invalid price bound")

// RoomFilter は部屋一覧の価格フィルタ。
// 境界値はどちらも含まない（start < price < end）。
type RoomFilter struct {
	// HasStart がfalseの場合は全件に一致する。
	HasStart bool
	Start    float64
	// HasEnd がfalseの場合は上限なし。
	HasEnd bool
	End    float64
}

// ParseRoomFilter はクエリパラメータのstart・endからRoomFilterを生成する。
//
//	start なし              → 全件
//	start あり, end が all  → price > start
//	start あり, end なし    → price > start
//	start あり, end が数値  → start < price < end
func ParseRoomFilter(values url.Values) (RoomFilter, error) {
	startStr := strings.TrimSpace(values.Get("start"))
	if startStr == "" {
		return RoomFilter{}, nil
	}

	start, err := parseBound(startStr)
	if err != nil {
		return RoomFilter{}, fmt.Errorf("start: %w", err)
	}
	filter := RoomFilter{HasStart: true, Start: start}

	endStr := strings.TrimSpace(values.Get("end"))
	if endStr == "" || strings.EqualFold(endStr, UnboundedEnd) {
		return filter, nil
	}

	end, err := parseBound(endStr)
	if err != nil {
		return RoomFilter{}, fmt.Errorf("end: %w", err)
	}
	filter.HasEnd = true
	filter.End = end

	return filter, nil
}

func parseBound(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidBound, s)
	}
	// NaN・Infは範囲指定として意味をなさない
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidBound, s)
	}
	return v, nil
}

// Matches は価格がフィルタの範囲に含まれるかを返す。
// BuildRoomsQueryが生成する条件と同じ判定をメモリ上で行う。
func (f RoomFilter) Matches(price float64) bool {
	if !f.HasStart {
		return true
	}
	if price <= f.Start {
		return false
	}
	if f.HasEnd && price >= f.End {
		return false
	}
	return true
}

// 部屋一覧で返すフィールド。カード表示に必要なものだけに絞る。
var roomSummaryFields = []string{
	model.RoomFieldTitle,
	model.RoomFieldDescription,
	model.RoomFieldReviews,
	model.RoomFieldRatings,
	model.RoomFieldCardImage,
}

// 部屋詳細で返すフィールド。
var roomDetailFields = []string{
	model.RoomFieldTitle,
	model.RoomFieldDescription,
	model.RoomFieldPrice,
	model.RoomFieldRatings,
	model.RoomFieldAvailability,
	model.RoomFieldFacilities,
	model.RoomFieldImages,
	model.RoomFieldCardImage,
	model.RoomFieldReviews,
}

// RoomSummaryProjection は部屋一覧のプロジェクションを返す。
// 呼び出しごとに新しい値を返すため、呼び出し側で変更しても他のリクエストに影響しない。
func RoomSummaryProjection() bson.D {
	return projection(roomSummaryFields)
}

// RoomDetailProjection は部屋詳細のプロジェクションを返す。
func RoomDetailProjection() bson.D {
	return projection(roomDetailFields)
}

func projection(fields []string) bson.D {
	p := make(bson.D, 0, len(fields))
	for _, f := range fields {
		p = append(p, bson.E{Key: f, Value: 1})
	}
	return p
}

// BuildRoomsQuery は部屋一覧のフィルタ条件とプロジェクションを生成する。
func BuildRoomsQuery(f RoomFilter) (filter bson.D, proj bson.D) {
	filter = bson.D{}
	if f.HasStart {
		cond := bson.D{{Key: "$gt", Value: f.Start}}
		if f.HasEnd {
			cond = append(cond, bson.E{Key: "$lt", Value: f.End})
		}
		filter = append(filter, bson.E{Key: model.RoomFieldPrice, Value: cond})
	}
	return filter, RoomSummaryProjection()
}

// BuildRoomQuery は部屋詳細のフィルタ条件とプロジェクションを生成する。
func BuildRoomQuery(id any) (filter bson.D, proj bson.D) {
	return bson.D{{Key: model.RoomFieldID, Value: id}}, RoomDetailProjection()
}
