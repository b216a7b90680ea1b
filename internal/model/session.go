package model

import "time"

// レベル（強度）の正規範囲。セッションとプリファレンスで共通。
const (
	LevelMin = 1
	LevelMax = 10
)

// Session はマッサージ機器の1回の利用記録を表す。
// 所有ユーザーの削除時にCASCADE削除される。
type Session struct {
	ID              int64
	UserID          int64
	Level           int
	DurationMinutes int
	HeatEnabled     bool
	RotationEnabled bool
	Calories        int
	Note            *string
	StartedAt       time.Time
	EndedAt         time.Time
	CreatedAt       time.Time
}

// SessionStatistics は指定日数ウィンドウ内のセッション集計を表す。
type SessionStatistics struct {
	Days          int
	SessionCount  int
	TotalMinutes  int
	TotalCalories int
	AverageLevel  float64
	HeatCount     int
	RotationCount int
}

// AnalyticsSummary は全期間のセッション集計を表す。
type AnalyticsSummary struct {
	SessionCount    int
	TotalMinutes    int
	TotalCalories   int
	AverageLevel    float64
	AverageDuration float64
	FirstSessionAt  *time.Time
	LastSessionAt   *time.Time
}
