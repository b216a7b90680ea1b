// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/massago/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は内部IDでユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.User, error)

	// FindByFirebaseUID はFirebase UIDでユーザーを検索する。見つからない場合はnilを返す。
	FindByFirebaseUID(ctx context.Context, firebaseUID string) (*model.User, error)

	// Create はユーザーを作成し、生成された内部IDとタイムスタンプを設定して返す。
	// firebase_uidのユニーク制約違反はそのまま返す。呼び出し側は
	// IsUniqueViolationで判定し、同時初回ログイン競合として再読み込みすること。
	Create(ctx context.Context, user *model.User) error

	// UpdateProfile はプロフィール（名前・年齢・体重・身長）を全上書き更新する。
	// 対象ユーザーが存在しない場合はfalseを返す。
	UpdateProfile(ctx context.Context, userID int64, update *model.ProfileUpdate) (bool, error)

	// DeleteAccount はsessions → preferences → users の順に単一トランザクションで削除する。
	// 対象ユーザーが存在しない場合はfalseを返す。
	DeleteAccount(ctx context.Context, userID int64) (bool, error)
}

// SessionRepository はマッサージセッション記録の永続化インターフェース。
// すべてのクエリ述語はuserIDでスコープされる。
type SessionRepository interface {
	// Create はセッション記録を作成し、生成されたIDとタイムスタンプを設定して返す。
	Create(ctx context.Context, session *model.Session) error

	// ListByUserID はユーザーのセッション一覧をstarted_at降順で返す。
	ListByUserID(ctx context.Context, userID int64, limit, offset int) ([]*model.Session, error)

	// CountByUserID はユーザーのセッション総数を返す。
	CountByUserID(ctx context.Context, userID int64) (int, error)

	// Statistics は直近days日間のセッション集計を返す。
	Statistics(ctx context.Context, userID int64, days int) (*model.SessionStatistics, error)

	// Summary は全期間のセッション集計を返す。
	Summary(ctx context.Context, userID int64) (*model.AnalyticsSummary, error)
}

// PreferenceRepository はユーザー設定の永続化インターフェース。
type PreferenceRepository interface {
	// FindByUserID はユーザーの設定を取得する。見つからない場合はnilを返す。
	FindByUserID(ctx context.Context, userID int64) (*model.Preference, error)

	// CreateDefault はデフォルト設定を作成して返す。
	// 同時読み取り競合に備えON CONFLICT DO NOTHINGで挿入し、既存行があれば
	// それを再読み込みして返す（upsert-on-readの片側）。
	CreateDefault(ctx context.Context, userID int64) (*model.Preference, error)

	// ApplyUpdate は指定フィールドのみをパラメータ化された割り当てで部分更新し、
	// 更新後の行を返す。対象行が存在しない場合はnilを返す。
	ApplyUpdate(ctx context.Context, userID int64, update *model.PreferenceUpdate) (*model.Preference, error)
}
