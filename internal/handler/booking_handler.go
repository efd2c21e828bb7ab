package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/hotelbook/internal/auth"
	"github.com/hitoshi/hotelbook/internal/model"
)

// BookingServiceInterface は予約ハンドラーが必要とするサービスインターフェース。
type BookingServiceInterface interface {
	ListBookings(ctx context.Context) ([]model.Document, error)
	ListBookingsByEmail(ctx context.Context, email string) ([]model.Document, error)
	CreateBooking(ctx context.Context, doc model.Document) (*model.InsertResult, error)
}

// BookingHandler は予約のHTTPハンドラー。
type BookingHandler struct {
	service BookingServiceInterface
}

// NewBookingHandler はBookingHandlerを生成する。
func NewBookingHandler(service BookingServiceInterface) *BookingHandler {
	return &BookingHandler{service: service}
}

// ListBookings は全予約を返す。
// GET /bookings
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.service.ListBookings(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

// CreateBooking は予約を登録する。
// POST /bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	doc, apiErr := decodeDocument(w, r)
	if apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	res, err := h.service.CreateBooking(r.Context(), doc)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ListMyBookings は認証済み利用者本人の予約を返す。
// GET /my-bookings?email=xxx
// 認可ゲートの内側に配置し、emailが認証済みのメールアドレスと一致しない場合は403を返す。
func (h *BookingHandler) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	email := r.URL.Query().Get("email")
	if err := auth.CheckOwnership(claims, email); err != nil {
		if errors.Is(err, auth.ErrForbidden) {
			slog.DebugContext(r.Context(), "ownership check failed",
				slog.String("reason", auth.RejectionReason(err)),
			)
			writeAPIErrorResponse(w, http.StatusForbidden, model.NewForbiddenError())
			return
		}
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	bookings, err := h.service.ListBookingsByEmail(r.Context(), claims.Email)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}
