// Package analytics はセッション全期間の集計機能を提供する。
package analytics

import (
	"context"
	"fmt"

	"github.com/hitoshi/massago/internal/model"
	"github.com/hitoshi/massago/internal/repository"
)

// Service は利用分析のサービス。
type Service struct {
	sessionRepo repository.SessionRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(sessionRepo repository.SessionRepository) *Service {
	return &Service{
		sessionRepo: sessionRepo,
	}
}

// Summary はユーザーの全期間のセッション集計を返す。
// セッションが1件もない場合もゼロ値の集計を返す。
func (s *Service) Summary(ctx context.Context, userID int64) (*model.AnalyticsSummary, error) {
	summary, err := s.sessionRepo.Summary(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate analytics summary: %w", err)
	}
	return summary, nil
}
