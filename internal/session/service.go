// Package session はマッサージセッション記録の管理機能を提供する。
package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/massago/internal/metrics"
	"github.com/hitoshi/massago/internal/model"
	"github.com/hitoshi/massago/internal/repository"
	"github.com/hitoshi/massago/internal/security"
)

// 一覧取得のページネーション既定値と上限。
const (
	DefaultListLimit = 50
	MaxListLimit     = 100
)

// 統計ウィンドウの既定日数。
const DefaultStatisticsDays = 30

// Service はセッション記録のサービス。
type Service struct {
	sessionRepo repository.SessionRepository
	sanitizer   security.TextSanitizerService
	collector   metrics.MetricsCollector
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(sessionRepo repository.SessionRepository, collector metrics.MetricsCollector) *Service {
	return &Service{
		sessionRepo: sessionRepo,
		sanitizer:   security.NewTextSanitizer(),
		collector:   collector,
	}
}

// CreateInput はセッション記録作成の入力。
type CreateInput struct {
	Level           int
	DurationMinutes int
	HeatEnabled     bool
	RotationEnabled bool
	Calories        int
	Note            *string
	StartedAt       time.Time
	EndedAt         time.Time
}

// Create は検証を通過したセッション記録を作成して返す。
// 認証済みユーザーのIDにのみ紐付け、ボディ中のユーザーIDは受け付けない。
func (s *Service) Create(ctx context.Context, userID int64, input *CreateInput) (*model.Session, error) {
	if input.Level < model.LevelMin || input.Level > model.LevelMax {
		return nil, model.NewValidationError(fmt.Sprintf("レベルは%dから%dの範囲で指定してください", model.LevelMin, model.LevelMax))
	}
	if input.DurationMinutes <= 0 {
		return nil, model.NewValidationError("利用時間は正の値を指定してください")
	}
	if input.Calories < 0 {
		return nil, model.NewValidationError("消費カロリーは0以上を指定してください")
	}
	if input.StartedAt.IsZero() || input.EndedAt.IsZero() {
		return nil, model.NewValidationError("開始時刻と終了時刻は必須です")
	}
	if !input.EndedAt.After(input.StartedAt) {
		return nil, model.NewValidationError("終了時刻は開始時刻より後である必要があります")
	}

	// メモは自由記述のためHTMLタグを除去して保存する
	note := input.Note
	if note != nil {
		clean := s.sanitizer.Sanitize(*note)
		note = &clean
	}

	session := &model.Session{
		UserID:          userID,
		Level:           input.Level,
		DurationMinutes: input.DurationMinutes,
		HeatEnabled:     input.HeatEnabled,
		RotationEnabled: input.RotationEnabled,
		Calories:        input.Calories,
		Note:            note,
		StartedAt:       input.StartedAt,
		EndedAt:         input.EndedAt,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	slog.Info("session recorded",
		slog.Int64("session_id", session.ID),
		slog.Int64("user_id", userID),
		slog.Int("level", session.Level),
		slog.Int("duration_minutes", session.DurationMinutes),
	)
	s.collector.RecordSessionCreated()

	return session, nil
}

// ListResult はListの戻り値。
type ListResult struct {
	Sessions []*model.Session
	Total    int
	Limit    int
	Offset   int
}

// List はユーザーのセッション一覧をstarted_at降順で返す。
// limitが0以下の場合は既定値、上限超過の場合は上限に切り詰める。
// 負のoffsetは0として扱う。
func (s *Service) List(ctx context.Context, userID int64, limit, offset int) (*ListResult, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	sessions, err := s.sessionRepo.ListByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	total, err := s.sessionRepo.CountByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count sessions: %w", err)
	}

	return &ListResult{
		Sessions: sessions,
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	}, nil
}

// Statistics は直近days日間のセッション集計を返す。
// daysが0以下の場合は既定の30日ウィンドウを使用する。
// セッションが1件もない場合もゼロ値の集計を返す（404にはしない）。
func (s *Service) Statistics(ctx context.Context, userID int64, days int) (*model.SessionStatistics, error) {
	if days <= 0 {
		days = DefaultStatisticsDays
	}

	stats, err := s.sessionRepo.Statistics(ctx, userID, days)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate session statistics: %w", err)
	}
	return stats, nil
}
