package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/massago/internal/middleware"
	"github.com/hitoshi/massago/internal/model"
)

// PreferenceServiceInterface は設定ハンドラーが必要とするサービスインターフェース。
type PreferenceServiceInterface interface {
	// GetOrCreate はユーザーの設定を返す。存在しない場合はデフォルトで作成する。
	GetOrCreate(ctx context.Context, userID int64) (*model.Preference, error)

	// Update は指定フィールドのみを部分更新し、更新後の設定を返す。
	Update(ctx context.Context, userID int64, update *model.PreferenceUpdate) (*model.Preference, error)
}

// PreferenceHandler はユーザー設定のHTTPハンドラー。
type PreferenceHandler struct {
	service PreferenceServiceInterface
}

// NewPreferenceHandler はPreferenceHandlerを生成する。
func NewPreferenceHandler(service PreferenceServiceInterface) *PreferenceHandler {
	return &PreferenceHandler{
		service: service,
	}
}

// preferenceEnvelope は設定1件を返すレスポンス。
type preferenceEnvelope struct {
	Success     bool               `json:"success"`
	Preferences preferenceResponse `json:"preferences"`
}

// Get は認証済みユーザーの設定を返す。
// 設定行が無い場合はデフォルト値で作成して返す。
// GET /preferences
func (h *PreferenceHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteAPIError(w, model.NewMissingTokenError())
		return
	}

	pref, err := h.service.GetOrCreate(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, preferenceEnvelope{
		Success:     true,
		Preferences: toPreferenceResponse(pref),
	})
}

// updatePreferenceRequest は設定の部分更新リクエストのボディ。
// 省略されたフィールドは変更しない。
type updatePreferenceRequest struct {
	FavoriteLevel          *int    `json:"favorite_level"`
	DefaultDurationMinutes *int    `json:"default_duration_minutes"`
	HeatDefault            *bool   `json:"heat_default"`
	NotificationsEnabled   *bool   `json:"notifications_enabled"`
	NotificationTime       *string `json:"notification_time"`
	Theme                  *string `json:"theme"`
	Language               *string `json:"language"`
}

// Update は認証済みユーザーの設定を部分更新する。
// PUT /preferences
func (h *PreferenceHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteAPIError(w, model.NewMissingTokenError())
		return
	}

	var req updatePreferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteAPIError(w, model.NewInvalidRequestError())
		return
	}

	update := &model.PreferenceUpdate{
		FavoriteLevel:          req.FavoriteLevel,
		DefaultDurationMinutes: req.DefaultDurationMinutes,
		HeatDefault:            req.HeatDefault,
		NotificationsEnabled:   req.NotificationsEnabled,
		NotificationTime:       req.NotificationTime,
	}
	if req.Theme != nil {
		theme := model.Theme(*req.Theme)
		update.Theme = &theme
	}
	if req.Language != nil {
		language := model.Language(*req.Language)
		update.Language = &language
	}

	pref, err := h.service.Update(r.Context(), userID, update)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, preferenceEnvelope{
		Success:     true,
		Preferences: toPreferenceResponse(pref),
	})
}
