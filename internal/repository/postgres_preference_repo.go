package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/hitoshi/massago/internal/model"
)

// PostgresPreferenceRepo はPostgreSQLを使用したユーザー設定リポジトリ。
type PostgresPreferenceRepo struct {
	db *sql.DB
}

// NewPostgresPreferenceRepo はPostgresPreferenceRepoを生成する。
func NewPostgresPreferenceRepo(db *sql.DB) *PostgresPreferenceRepo {
	return &PostgresPreferenceRepo{db: db}
}

const preferenceColumns = `id, user_id, favorite_level, default_duration_minutes, heat_default,
	notifications_enabled, notification_time, theme, language, created_at, updated_at`

// scanPreference は1行分の設定をスキャンする。
func scanPreference(row *sql.Row) (*model.Preference, error) {
	p := &model.Preference{}
	err := row.Scan(
		&p.ID, &p.UserID, &p.FavoriteLevel, &p.DefaultDurationMinutes,
		&p.HeatDefault, &p.NotificationsEnabled, &p.NotificationTime,
		&p.Theme, &p.Language, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// FindByUserID はユーザーの設定を取得する。見つからない場合はnilを返す。
func (r *PostgresPreferenceRepo) FindByUserID(ctx context.Context, userID int64) (*model.Preference, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+preferenceColumns+` FROM preferences WHERE user_id = $1`,
		userID,
	)
	p, err := scanPreference(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find preference: %w", err)
	}
	return p, nil
}

// CreateDefault はデフォルト設定を作成して返す。
// UNIQUE(user_id)制約を利用したON CONFLICT DO NOTHINGで挿入し、
// 同時読み取りが先に作成していた場合は既存行を再読み込みして返す。
func (r *PostgresPreferenceRepo) CreateDefault(ctx context.Context, userID int64) (*model.Preference, error) {
	def := model.DefaultPreference(userID)

	row := r.db.QueryRowContext(ctx,
		`INSERT INTO preferences
		 (user_id, favorite_level, default_duration_minutes, heat_default,
		  notifications_enabled, notification_time, theme, language)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (user_id) DO NOTHING
		 RETURNING `+preferenceColumns,
		def.UserID, def.FavoriteLevel, def.DefaultDurationMinutes, def.HeatDefault,
		def.NotificationsEnabled, def.NotificationTime, def.Theme, def.Language,
	)

	p, err := scanPreference(row)
	if err == sql.ErrNoRows {
		// 別リクエストが先に作成済み。既存行を返す。
		existing, findErr := r.FindByUserID(ctx, userID)
		if findErr != nil {
			return nil, findErr
		}
		if existing == nil {
			return nil, fmt.Errorf("preference vanished after conflicting insert for user %d", userID)
		}
		return existing, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create default preference: %w", err)
	}

	return p, nil
}

// ApplyUpdate は指定フィールドのみを部分更新し、更新後の行を返す。
// SET句はPreferenceUpdateの非nilフィールドから固定のカラム名リテラルと
// プレースホルダのみで組み立てる。ユーザー制御の文字列がカラム名に
// 混入することはない。対象行が存在しない場合はnilを返す。
func (r *PostgresPreferenceRepo) ApplyUpdate(ctx context.Context, userID int64, update *model.PreferenceUpdate) (*model.Preference, error) {
	assignments := []string{"updated_at = now()"}
	args := []interface{}{userID}

	appendAssignment := func(column string, value interface{}) {
		args = append(args, value)
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.FavoriteLevel != nil {
		appendAssignment("favorite_level", *update.FavoriteLevel)
	}
	if update.DefaultDurationMinutes != nil {
		appendAssignment("default_duration_minutes", *update.DefaultDurationMinutes)
	}
	if update.HeatDefault != nil {
		appendAssignment("heat_default", *update.HeatDefault)
	}
	if update.NotificationsEnabled != nil {
		appendAssignment("notifications_enabled", *update.NotificationsEnabled)
	}
	if update.NotificationTime != nil {
		appendAssignment("notification_time", *update.NotificationTime)
	}
	if update.Theme != nil {
		appendAssignment("theme", string(*update.Theme))
	}
	if update.Language != nil {
		appendAssignment("language", string(*update.Language))
	}

	query := `UPDATE preferences SET ` + strings.Join(assignments, ", ") +
		` WHERE user_id = $1 RETURNING ` + preferenceColumns

	row := r.db.QueryRowContext(ctx, query, args...)
	p, err := scanPreference(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update preference: %w", err)
	}

	return p, nil
}

// compile-time interface check
var _ PreferenceRepository = (*PostgresPreferenceRepo)(nil)
