// Package preference はユーザー設定の管理機能を提供する。
package preference

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/hitoshi/massago/internal/model"
	"github.com/hitoshi/massago/internal/repository"
)

// notificationTimePattern は"HH:MM"（24時間表記）の形式。
var notificationTimePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Service はユーザー設定のサービス。
type Service struct {
	preferenceRepo repository.PreferenceRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(preferenceRepo repository.PreferenceRepository) *Service {
	return &Service{
		preferenceRepo: preferenceRepo,
	}
}

// GetOrCreate はユーザーの設定を返す。設定行が存在しない場合は
// デフォルト値で作成して返す（upsert-on-read）。取得がエラーになることは
// あっても「設定が見つからない」ことはない。
func (s *Service) GetOrCreate(ctx context.Context, userID int64) (*model.Preference, error) {
	pref, err := s.preferenceRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find preferences: %w", err)
	}
	if pref != nil {
		return pref, nil
	}

	pref, err = s.preferenceRepo.CreateDefault(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to create default preferences: %w", err)
	}

	slog.Info("default preferences created", slog.Int64("user_id", userID))
	return pref, nil
}

// Update は指定されたフィールドのみを部分更新し、更新後の設定を返す。
// 省略されたフィールドは既存の値を維持する。設定行が存在しない場合は
// 先にデフォルト行を作成してから更新を適用する。
func (s *Service) Update(ctx context.Context, userID int64, update *model.PreferenceUpdate) (*model.Preference, error) {
	if err := validateUpdate(update); err != nil {
		return nil, err
	}

	if update.IsEmpty() {
		// 更新対象がない場合は現在の設定をそのまま返す
		return s.GetOrCreate(ctx, userID)
	}

	pref, err := s.preferenceRepo.ApplyUpdate(ctx, userID, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update preferences: %w", err)
	}
	if pref != nil {
		return pref, nil
	}

	// 設定行が未作成のまま更新が来た場合はデフォルト行を作ってから適用する
	if _, err := s.preferenceRepo.CreateDefault(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to create default preferences: %w", err)
	}

	pref, err = s.preferenceRepo.ApplyUpdate(ctx, userID, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update preferences after create: %w", err)
	}
	if pref == nil {
		return nil, fmt.Errorf("preferences vanished after default insert for user %d", userID)
	}
	return pref, nil
}

// validateUpdate は部分更新の各フィールドを検証する。
func validateUpdate(update *model.PreferenceUpdate) error {
	if update.FavoriteLevel != nil && (*update.FavoriteLevel < model.LevelMin || *update.FavoriteLevel > model.LevelMax) {
		return model.NewValidationError(fmt.Sprintf("お気に入りレベルは%dから%dの範囲で指定してください", model.LevelMin, model.LevelMax))
	}
	if update.DefaultDurationMinutes != nil && *update.DefaultDurationMinutes <= 0 {
		return model.NewValidationError("既定の利用時間は正の値を指定してください")
	}
	if update.NotificationTime != nil && !notificationTimePattern.MatchString(*update.NotificationTime) {
		return model.NewValidationError("通知時刻はHH:MM形式で指定してください")
	}
	if update.Theme != nil && !update.Theme.IsValid() {
		return model.NewValidationError("テーマはlight、dark、autoのいずれかを指定してください")
	}
	if update.Language != nil && !update.Language.IsValid() {
		return model.NewValidationError("言語はviまたはenを指定してください")
	}
	return nil
}
