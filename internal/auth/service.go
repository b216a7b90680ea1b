package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hitoshi/massago/internal/metrics"
	"github.com/hitoshi/massago/internal/model"
	"github.com/hitoshi/massago/internal/repository"
	"github.com/hitoshi/massago/internal/security"
)

// Service は認証とユーザー解決のビジネスロジックを提供する。
type Service struct {
	verifier  TokenVerifier
	userRepo  repository.UserRepository
	sanitizer security.TextSanitizerService
	collector metrics.MetricsCollector
}

// NewService はServiceを生成する。
func NewService(verifier TokenVerifier, userRepo repository.UserRepository, collector metrics.MetricsCollector) *Service {
	return &Service{
		verifier:  verifier,
		userRepo:  userRepo,
		sanitizer: security.NewTextSanitizer(),
		collector: collector,
	}
}

// Resolve はIDトークンを検証し、対応する内部ユーザーを返す。
// 未登録のsubjectの場合はユーザーを自動作成する（冪等な登録）。
// 検証失敗の原因は区別せず、すべてINVALID_TOKENに畳み込む。
// 原因をレスポンスで区別しないのは失敗理由のオラクル化を避けるため。
func (s *Service) Resolve(ctx context.Context, token string) (*model.User, error) {
	identity, err := s.verifier.Verify(ctx, token)
	if err != nil {
		slog.Warn("token verification failed", slog.String("error", err.Error()))
		s.collector.RecordAuthFailure("invalid_token")
		return nil, model.NewInvalidTokenError()
	}

	return s.resolveIdentity(ctx, identity)
}

// resolveIdentity は検証済みの識別情報を内部ユーザーに解決する。
// 同時初回ログインの競合時は、ユニーク制約違反を「他リクエストが作成済み」
// として扱い再読み込みする。リクエスト自体は失敗させない。
func (s *Service) resolveIdentity(ctx context.Context, identity *VerifiedIdentity) (*model.User, error) {
	user, err := s.userRepo.FindByFirebaseUID(ctx, identity.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user != nil {
		// 既存ユーザーはそのまま返す。リクエストごとの更新は行わない。
		return user, nil
	}

	newUser := &model.User{
		FirebaseUID: identity.SubjectID,
		Email:       identity.Email,
		Name:        displayNameFromEmail(identity.Email),
	}

	if err := s.userRepo.Create(ctx, newUser); err != nil {
		if !repository.IsUniqueViolation(err) {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}

		existing, findErr := s.userRepo.FindByFirebaseUID(ctx, identity.SubjectID)
		if findErr != nil {
			return nil, fmt.Errorf("failed to re-read user after conflict: %w", findErr)
		}
		if existing == nil {
			return nil, fmt.Errorf("user vanished after conflicting insert for subject %s", identity.SubjectID)
		}

		slog.Info("concurrent first login resolved",
			slog.Int64("user_id", existing.ID),
			slog.String("firebase_uid", identity.SubjectID),
		)
		return existing, nil
	}

	slog.Info("new user created",
		slog.Int64("user_id", newUser.ID),
		slog.String("firebase_uid", identity.SubjectID),
		slog.String("email", identity.Email),
	)
	s.collector.RecordUserCreated()

	return newUser, nil
}

// RequireUser は内部IDのユーザーを取得する。自動作成は行わない。
// トークン検証とクエリの間に削除されたユーザー（削除レース）は
// UnauthenticatedではなくNotFoundとして区別する。
func (s *Service) RequireUser(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}
	return user, nil
}

// UpdateProfile はプロフィールを全上書き更新し、更新後のユーザーを返す。
func (s *Service) UpdateProfile(ctx context.Context, userID int64, update *model.ProfileUpdate) (*model.User, error) {
	// 表示名は自由記述のためHTMLタグを除去して保存する
	update.Name = s.sanitizer.Sanitize(update.Name)
	if strings.TrimSpace(update.Name) == "" {
		return nil, model.NewValidationError("名前は必須です")
	}
	if update.Age != nil && (*update.Age < 0 || *update.Age > 150) {
		return nil, model.NewValidationError("年齢の値が範囲外です")
	}
	if update.WeightKg != nil && *update.WeightKg <= 0 {
		return nil, model.NewValidationError("体重は正の値を指定してください")
	}
	if update.HeightCm != nil && *update.HeightCm <= 0 {
		return nil, model.NewValidationError("身長は正の値を指定してください")
	}

	ok, err := s.userRepo.UpdateProfile(ctx, userID, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if !ok {
		return nil, model.NewUserNotFoundError()
	}

	return s.RequireUser(ctx, userID)
}

// DeleteAccount はユーザーの全データ（セッション・設定・ユーザー本体）を削除する。
func (s *Service) DeleteAccount(ctx context.Context, userID int64) error {
	ok, err := s.userRepo.DeleteAccount(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if !ok {
		return model.NewUserNotFoundError()
	}

	slog.Info("account deleted", slog.Int64("user_id", userID))
	s.collector.RecordAccountDeleted()
	return nil
}

// displayNameFromEmail はメールアドレスのローカル部からデフォルト表示名を導出する。
// ローカル部が空の場合は"user"にフォールバックする。
func displayNameFromEmail(email string) string {
	local, _, found := strings.Cut(email, "@")
	if !found || local == "" {
		return "user"
	}
	return local
}
