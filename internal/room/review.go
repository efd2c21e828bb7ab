package room

import (
	"context"
	"fmt"

	"github.com/hitoshi/hotelbook/internal/model"
	"github.com/hitoshi/hotelbook/internal/repository"
)

// ReviewService はレビューの一覧取得と投稿を扱う。
// 投稿内容は検証せずそのまま保存する。
type ReviewService struct {
	reviewRepo repository.ReviewRepository
}

// NewReviewService はReviewServiceの新しいインスタンスを生成する。
func NewReviewService(reviewRepo repository.ReviewRepository) *ReviewService {
	return &ReviewService{reviewRepo: reviewRepo}
}

// ListReviews は全レビューを返す。
func (s *ReviewService) ListReviews(ctx context.Context) ([]model.Document, error) {
	reviews, err := s.reviewRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("レビュー一覧の取得に失敗しました: %w", err)
	}
	return reviews, nil
}

// ListRoomReviews は指定した部屋に紐づくレビューを返す。
func (s *ReviewService) ListRoomReviews(ctx context.Context, roomID string) ([]model.Document, error) {
	reviews, err := s.reviewRepo.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("部屋のレビュー取得に失敗しました: %w", err)
	}
	return reviews, nil
}

// PostReview はレビューを追加する。
func (s *ReviewService) PostReview(ctx context.Context, doc model.Document) (*model.InsertResult, error) {
	res, err := s.reviewRepo.Insert(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("レビューの投稿に失敗しました: %w", err)
	}
	return res, nil
}
