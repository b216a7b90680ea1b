package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/hitoshi/massago/internal/middleware"
	"github.com/hitoshi/massago/internal/model"
)

// AnalyticsServiceInterface は分析ハンドラーが必要とするサービスインターフェース。
type AnalyticsServiceInterface interface {
	// Summary はユーザーの全期間のセッション集計を返す。
	Summary(ctx context.Context, userID int64) (*model.AnalyticsSummary, error)
}

// AnalyticsHandler は利用分析のHTTPハンドラー。
type AnalyticsHandler struct {
	service AnalyticsServiceInterface
}

// NewAnalyticsHandler はAnalyticsHandlerを生成する。
func NewAnalyticsHandler(service AnalyticsServiceInterface) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
	}
}

// summaryResponse は全期間集計レスポンス。
type summaryResponse struct {
	Success bool        `json:"success"`
	Summary summaryBody `json:"summary"`
}

type summaryBody struct {
	SessionCount    int        `json:"session_count"`
	TotalMinutes    int        `json:"total_minutes"`
	TotalCalories   int        `json:"total_calories"`
	AverageLevel    float64    `json:"average_level"`
	AverageDuration float64    `json:"average_duration"`
	FirstSessionAt  *time.Time `json:"first_session_at"`
	LastSessionAt   *time.Time `json:"last_session_at"`
}

// Summary は全期間のセッション集計を返す。
// GET /analytics/summary
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteAPIError(w, model.NewMissingTokenError())
		return
	}

	summary, err := h.service.Summary(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, summaryResponse{
		Success: true,
		Summary: summaryBody{
			SessionCount:    summary.SessionCount,
			TotalMinutes:    summary.TotalMinutes,
			TotalCalories:   summary.TotalCalories,
			AverageLevel:    summary.AverageLevel,
			AverageDuration: summary.AverageDuration,
			FirstSessionAt:  summary.FirstSessionAt,
			LastSessionAt:   summary.LastSessionAt,
		},
	})
}
