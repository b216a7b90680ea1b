// Package handler はHTTPハンドラーとルーティングを提供する。
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/massago/internal/middleware"
	"github.com/hitoshi/massago/internal/model"
)

// writeJSONResponse はJSONレスポンスを書き込む。
func writeJSONResponse(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
// APIError以外（ストア障害など）は詳細をログにのみ記録し、500を返す。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		middleware.WriteAPIError(w, apiErr)
		return
	}

	slog.Error("unexpected service error", slog.String("error", err.Error()))
	middleware.WriteInternalServerError(w)
}

// userResponse はユーザーのJSON表現。
type userResponse struct {
	ID          int64     `json:"id"`
	FirebaseUID string    `json:"firebase_uid"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Age         *int      `json:"age"`
	WeightKg    *float64  `json:"weight_kg"`
	HeightCm    *float64  `json:"height_cm"`
	Gender      *string   `json:"gender"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toUserResponse(user *model.User) userResponse {
	return userResponse{
		ID:          user.ID,
		FirebaseUID: user.FirebaseUID,
		Email:       user.Email,
		Name:        user.Name,
		Age:         user.Age,
		WeightKg:    user.WeightKg,
		HeightCm:    user.HeightCm,
		Gender:      user.Gender,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}

// sessionResponse はセッション記録のJSON表現。
type sessionResponse struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	Level           int       `json:"level"`
	DurationMinutes int       `json:"duration_minutes"`
	HeatEnabled     bool      `json:"heat_enabled"`
	RotationEnabled bool      `json:"rotation_enabled"`
	Calories        int       `json:"calories"`
	Note            *string   `json:"note"`
	StartedAt       time.Time `json:"started_at"`
	EndedAt         time.Time `json:"ended_at"`
	CreatedAt       time.Time `json:"created_at"`
}

func toSessionResponse(session *model.Session) sessionResponse {
	return sessionResponse{
		ID:              session.ID,
		UserID:          session.UserID,
		Level:           session.Level,
		DurationMinutes: session.DurationMinutes,
		HeatEnabled:     session.HeatEnabled,
		RotationEnabled: session.RotationEnabled,
		Calories:        session.Calories,
		Note:            session.Note,
		StartedAt:       session.StartedAt,
		EndedAt:         session.EndedAt,
		CreatedAt:       session.CreatedAt,
	}
}

// preferenceResponse はユーザー設定のJSON表現。
type preferenceResponse struct {
	ID                     int64     `json:"id"`
	UserID                 int64     `json:"user_id"`
	FavoriteLevel          int       `json:"favorite_level"`
	DefaultDurationMinutes int       `json:"default_duration_minutes"`
	HeatDefault            bool      `json:"heat_default"`
	NotificationsEnabled   bool      `json:"notifications_enabled"`
	NotificationTime       string    `json:"notification_time"`
	Theme                  string    `json:"theme"`
	Language               string    `json:"language"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

func toPreferenceResponse(pref *model.Preference) preferenceResponse {
	return preferenceResponse{
		ID:                     pref.ID,
		UserID:                 pref.UserID,
		FavoriteLevel:          pref.FavoriteLevel,
		DefaultDurationMinutes: pref.DefaultDurationMinutes,
		HeatDefault:            pref.HeatDefault,
		NotificationsEnabled:   pref.NotificationsEnabled,
		NotificationTime:       pref.NotificationTime,
		Theme:                  string(pref.Theme),
		Language:               string(pref.Language),
		CreatedAt:              pref.CreatedAt,
		UpdatedAt:              pref.UpdatedAt,
	}
}
