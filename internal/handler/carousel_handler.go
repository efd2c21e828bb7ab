package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/hotelbook/internal/model"
)

// CarouselServiceInterface はカルーセルハンドラーが必要とするサービスインターフェース。
type CarouselServiceInterface interface {
	ListEntries(ctx context.Context) ([]model.Document, error)
}

// CarouselHandler はカルーセルのHTTPハンドラー。
type CarouselHandler struct {
	service CarouselServiceInterface
}

// NewCarouselHandler はCarouselHandlerを生成する。
func NewCarouselHandler(service CarouselServiceInterface) *CarouselHandler {
	return &CarouselHandler{service: service}
}

// ListEntries はカルーセルの全エントリを返す。
// GET /carousel
func (h *CarouselHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ListEntries(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
