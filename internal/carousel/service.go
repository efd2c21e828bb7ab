// Package carousel はトップページのカルーセル表示データを提供する。
package carousel

import (
	"context"
	"fmt"

	"github.com/hitoshi/hotelbook/internal/model"
	"github.com/hitoshi/hotelbook/internal/repository"
)

// Service はカルーセルのサービス層。
type Service struct {
	repo repository.CarouselRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(repo repository.CarouselRepository) *Service {
	return &Service{repo: repo}
}

// ListEntries はカルーセルの全エントリを返す。
func (s *Service) ListEntries(ctx context.Context) ([]model.Document, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("カルーセルの取得に失敗しました: %w", err)
	}
	return entries, nil
}
