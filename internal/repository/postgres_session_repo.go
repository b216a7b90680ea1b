package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/massago/internal/model"
)

// PostgresSessionRepo はPostgreSQLを使用したセッション記録リポジトリ。
type PostgresSessionRepo struct {
	db *sql.DB
}

// NewPostgresSessionRepo はPostgresSessionRepoを生成する。
func NewPostgresSessionRepo(db *sql.DB) *PostgresSessionRepo {
	return &PostgresSessionRepo{db: db}
}

// Create はセッション記録を作成する。生成されたIDとタイムスタンプをsessionに設定する。
// ended_at <= started_at はCHECK制約で拒否される。
func (r *PostgresSessionRepo) Create(ctx context.Context, session *model.Session) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO sessions
		 (user_id, level, duration_minutes, heat_enabled, rotation_enabled, calories, note, started_at, ended_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at`,
		session.UserID, session.Level, session.DurationMinutes,
		session.HeatEnabled, session.RotationEnabled,
		session.Calories, session.Note,
		session.StartedAt, session.EndedAt,
	).Scan(&session.ID, &session.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// ListByUserID はユーザーのセッション一覧をstarted_at降順で返す。
func (r *PostgresSessionRepo) ListByUserID(ctx context.Context, userID int64, limit, offset int) ([]*model.Session, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, level, duration_minutes, heat_enabled, rotation_enabled, calories, note, started_at, ended_at, created_at
		 FROM sessions
		 WHERE user_id = $1
		 ORDER BY started_at DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*model.Session
	for rows.Next() {
		s := &model.Session{}
		var note sql.NullString
		err := rows.Scan(
			&s.ID, &s.UserID, &s.Level, &s.DurationMinutes,
			&s.HeatEnabled, &s.RotationEnabled, &s.Calories,
			&note, &s.StartedAt, &s.EndedAt, &s.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		if note.Valid {
			s.Note = &note.String
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}

	return sessions, nil
}

// CountByUserID はユーザーのセッション総数を返す。
func (r *PostgresSessionRepo) CountByUserID(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM sessions WHERE user_id = $1`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return count, nil
}

// Statistics は直近days日間のセッション集計を返す。
// セッションが1件もない場合はゼロ値の集計を返す。
func (r *PostgresSessionRepo) Statistics(ctx context.Context, userID int64, days int) (*model.SessionStatistics, error) {
	stats := &model.SessionStatistics{Days: days}
	var avgLevel sql.NullFloat64

	err := r.db.QueryRowContext(ctx,
		`SELECT
		     count(*),
		     COALESCE(sum(duration_minutes), 0),
		     COALESCE(sum(calories), 0),
		     avg(level),
		     count(*) FILTER (WHERE heat_enabled),
		     count(*) FILTER (WHERE rotation_enabled)
		 FROM sessions
		 WHERE user_id = $1 AND started_at >= now() - make_interval(days => $2)`,
		userID, days,
	).Scan(
		&stats.SessionCount, &stats.TotalMinutes, &stats.TotalCalories,
		&avgLevel, &stats.HeatCount, &stats.RotationCount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute session statistics: %w", err)
	}

	if avgLevel.Valid {
		stats.AverageLevel = avgLevel.Float64
	}

	return stats, nil
}

// Summary は全期間のセッション集計を返す。
func (r *PostgresSessionRepo) Summary(ctx context.Context, userID int64) (*model.AnalyticsSummary, error) {
	summary := &model.AnalyticsSummary{}
	var avgLevel, avgDuration sql.NullFloat64
	var first, last sql.NullTime

	err := r.db.QueryRowContext(ctx,
		`SELECT
		     count(*),
		     COALESCE(sum(duration_minutes), 0),
		     COALESCE(sum(calories), 0),
		     avg(level),
		     avg(duration_minutes),
		     min(started_at),
		     max(started_at)
		 FROM sessions
		 WHERE user_id = $1`,
		userID,
	).Scan(
		&summary.SessionCount, &summary.TotalMinutes, &summary.TotalCalories,
		&avgLevel, &avgDuration, &first, &last,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute analytics summary: %w", err)
	}

	if avgLevel.Valid {
		summary.AverageLevel = avgLevel.Float64
	}
	if avgDuration.Valid {
		summary.AverageDuration = avgDuration.Float64
	}
	if first.Valid {
		summary.FirstSessionAt = &first.Time
	}
	if last.Valid {
		summary.LastSessionAt = &last.Time
	}

	return summary, nil
}

// compile-time interface check
var _ SessionRepository = (*PostgresSessionRepo)(nil)
