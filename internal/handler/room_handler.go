package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/hotelbook/internal/model"
	"github.com/hitoshi/hotelbook/internal/query"
)

// RoomServiceInterface は部屋ハンドラーが必要とするサービスインターフェース。
type RoomServiceInterface interface {
	// ListRooms は価格フィルタに一致する部屋を一覧用のフィールドで返す。
	ListRooms(ctx context.Context, filter query.RoomFilter) ([]model.Document, error)
	// GetRoom は部屋を詳細フィールド付きで返す。
	GetRoom(ctx context.Context, id string) (model.Document, error)
}

// RoomHandler は部屋のHTTPハンドラー。
type RoomHandler struct {
	service RoomServiceInterface
}

// NewRoomHandler はRoomHandlerを生成する。
func NewRoomHandler(service RoomServiceInterface) *RoomHandler {
	return &RoomHandler{service: service}
}

// ListRooms は部屋一覧を返す。
// GET /rooms?start=100&end=300
// GET /rooms?start=100&end=all
func (h *RoomHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	filter, err := query.ParseRoomFilter(r.URL.Query())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidFilterError(err.Error()))
		return
	}

	rooms, err := h.service.ListRooms(r.Context(), filter)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, rooms)
}

// GetRoom は部屋詳細を返す。
// GET /rooms/{id}
func (h *RoomHandler) GetRoom(w http.ResponseWriter, r *http.Request) {
	room, err := h.service.GetRoom(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, room)
}
