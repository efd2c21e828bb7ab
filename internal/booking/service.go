// Package booking は予約の一覧取得と登録を提供する。
package booking

import (
	"context"
	"fmt"

	"github.com/hitoshi/hotelbook/internal/model"
	"github.com/hitoshi/hotelbook/internal/repository"
)

// Service は予約のサービス層。
// 本人確認はハンドラ側で済ませてから呼び出す前提とする。
type Service struct {
	bookingRepo repository.BookingRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(bookingRepo repository.BookingRepository) *Service {
	return &Service{bookingRepo: bookingRepo}
}

// ListBookings は全予約を返す。
func (s *Service) ListBookings(ctx context.Context) ([]model.Document, error) {
	bookings, err := s.bookingRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("予約一覧の取得に失敗しました: %w", err)
	}
	return bookings, nil
}

// ListBookingsByEmail は予約者のメールアドレスが一致する予約を返す。
func (s *Service) ListBookingsByEmail(ctx context.Context, email string) ([]model.Document, error) {
	bookings, err := s.bookingRepo.ListByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("予約の取得に失敗しました: %w", err)
	}
	return bookings, nil
}

// CreateBooking は予約をそのまま追加する。
func (s *Service) CreateBooking(ctx context.Context, doc model.Document) (*model.InsertResult, error) {
	res, err := s.bookingRepo.Insert(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("予約の登録に失敗しました: %w", err)
	}
	return res, nil
}
