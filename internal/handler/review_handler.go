package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/hotelbook/internal/model"
)

// ReviewServiceInterface はレビューハンドラーが必要とするサービスインターフェース。
type ReviewServiceInterface interface {
	ListReviews(ctx context.Context) ([]model.Document, error)
	ListRoomReviews(ctx context.Context, roomID string) ([]model.Document, error)
	PostReview(ctx context.Context, doc model.Document) (*model.InsertResult, error)
}

// ReviewHandler はレビューのHTTPハンドラー。
type ReviewHandler struct {
	service ReviewServiceInterface
}

// NewReviewHandler はReviewHandlerを生成する。
func NewReviewHandler(service ReviewServiceInterface) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// ListReviews は全レビューを返す。
// GET /reviews
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.ListReviews(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

// ListRoomReviews は部屋に紐づくレビューを返す。
// GET /reviews/{id}
func (h *ReviewHandler) ListRoomReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.ListRoomReviews(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

// PostReview はレビューを投稿する。
// POST /reviews
func (h *ReviewHandler) PostReview(w http.ResponseWriter, r *http.Request) {
	doc, apiErr := decodeDocument(w, r)
	if apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	res, err := h.service.PostReview(r.Context(), doc)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
