package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/hitoshi/massago/internal/middleware"
	"github.com/hitoshi/massago/internal/model"
	"github.com/hitoshi/massago/internal/session"
)

// SessionServiceInterface はセッションハンドラーが必要とするサービスインターフェース。
type SessionServiceInterface interface {
	// Create は検証を通過したセッション記録を作成して返す。
	Create(ctx context.Context, userID int64, input *session.CreateInput) (*model.Session, error)

	// List はユーザーのセッション一覧をstarted_at降順で返す。
	List(ctx context.Context, userID int64, limit, offset int) (*session.ListResult, error)

	// Statistics は直近days日間のセッション集計を返す。
	Statistics(ctx context.Context, userID int64, days int) (*model.SessionStatistics, error)
}

// SessionHandler はマッサージセッション記録のHTTPハンドラー。
type SessionHandler struct {
	service SessionServiceInterface
}

// NewSessionHandler はSessionHandlerを生成する。
func NewSessionHandler(service SessionServiceInterface) *SessionHandler {
	return &SessionHandler{
		service: service,
	}
}

// createSessionRequest はセッション記録作成リクエストのボディ。
// ユーザーIDは受け付けない（認証済みユーザーに紐付ける）。
type createSessionRequest struct {
	Level           int       `json:"level"`
	DurationMinutes int       `json:"duration_minutes"`
	HeatEnabled     bool      `json:"heat_enabled"`
	RotationEnabled bool      `json:"rotation_enabled"`
	Calories        int       `json:"calories"`
	Note            *string   `json:"note"`
	StartedAt       time.Time `json:"started_at"`
	EndedAt         time.Time `json:"ended_at"`
}

// createSessionResponse はセッション記録作成レスポンス。
type createSessionResponse struct {
	Success bool            `json:"success"`
	Session sessionResponse `json:"session"`
}

// Create はセッション記録を作成する。
// POST /sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteAPIError(w, model.NewMissingTokenError())
		return
	}

	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteAPIError(w, model.NewInvalidRequestError())
		return
	}

	created, err := h.service.Create(r.Context(), userID, &session.CreateInput{
		Level:           req.Level,
		DurationMinutes: req.DurationMinutes,
		HeatEnabled:     req.HeatEnabled,
		RotationEnabled: req.RotationEnabled,
		Calories:        req.Calories,
		Note:            req.Note,
		StartedAt:       req.StartedAt,
		EndedAt:         req.EndedAt,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, createSessionResponse{
		Success: true,
		Session: toSessionResponse(created),
	})
}

// listSessionsResponse はセッション一覧レスポンス。
type listSessionsResponse struct {
	Success  bool              `json:"success"`
	Sessions []sessionResponse `json:"sessions"`
	Total    int               `json:"total"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

// List は認証済みユーザーのセッション一覧を返す。
// GET /sessions?limit=50&offset=0
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteAPIError(w, model.NewMissingTokenError())
		return
	}

	limit, ok := queryInt(w, r, "limit")
	if !ok {
		return
	}
	offset, ok := queryInt(w, r, "offset")
	if !ok {
		return
	}

	result, err := h.service.List(r.Context(), userID, limit, offset)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	sessions := make([]sessionResponse, len(result.Sessions))
	for i, s := range result.Sessions {
		sessions[i] = toSessionResponse(s)
	}

	writeJSONResponse(w, http.StatusOK, listSessionsResponse{
		Success:  true,
		Sessions: sessions,
		Total:    result.Total,
		Limit:    result.Limit,
		Offset:   result.Offset,
	})
}

// statisticsResponse はセッション統計レスポンス。
type statisticsResponse struct {
	Success    bool           `json:"success"`
	Statistics statisticsBody `json:"statistics"`
}

type statisticsBody struct {
	Days          int     `json:"days"`
	SessionCount  int     `json:"session_count"`
	TotalMinutes  int     `json:"total_minutes"`
	TotalCalories int     `json:"total_calories"`
	AverageLevel  float64 `json:"average_level"`
	HeatCount     int     `json:"heat_count"`
	RotationCount int     `json:"rotation_count"`
}

// Statistics は直近days日間のセッション集計を返す。
// GET /sessions/statistics?days=30
func (h *SessionHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteAPIError(w, model.NewMissingTokenError())
		return
	}

	days, ok := queryInt(w, r, "days")
	if !ok {
		return
	}

	stats, err := h.service.Statistics(r.Context(), userID, days)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, statisticsResponse{
		Success: true,
		Statistics: statisticsBody{
			Days:          stats.Days,
			SessionCount:  stats.SessionCount,
			TotalMinutes:  stats.TotalMinutes,
			TotalCalories: stats.TotalCalories,
			AverageLevel:  stats.AverageLevel,
			HeatCount:     stats.HeatCount,
			RotationCount: stats.RotationCount,
		},
	})
}

// queryInt はクエリパラメータを整数として解析する。
// 未指定の場合は0を返し、各サービスの既定値に委ねる。
// 整数として解析できない場合は400を書き込みfalseを返す。
func queryInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		middleware.WriteAPIError(w, model.NewValidationError(name+"は整数で指定してください"))
		return 0, false
	}
	return value, true
}
