package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/massago/internal/middleware"
	"github.com/hitoshi/massago/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// Resolve はIDトークンを検証し、対応する内部ユーザーを返す。
	// 未登録のsubjectの場合はユーザーを自動作成する。
	Resolve(ctx context.Context, token string) (*model.User, error)

	// RequireUser は内部IDのユーザーを取得する。自動作成は行わない。
	RequireUser(ctx context.Context, userID int64) (*model.User, error)

	// UpdateProfile はプロフィールを全上書き更新し、更新後のユーザーを返す。
	UpdateProfile(ctx context.Context, userID int64, update *model.ProfileUpdate) (*model.User, error)

	// DeleteAccount はユーザーの全データを削除する。
	DeleteAccount(ctx context.Context, userID int64) error
}

// AuthHandler は認証・ユーザー管理のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{
		service: service,
	}
}

// verifyFirebaseRequest はトークン検証リクエストのボディ。
type verifyFirebaseRequest struct {
	Token string `json:"token"`
}

// verifyFirebaseResponse はトークン検証レスポンス。
// クライアントが後続リクエストで使うトークンをそのまま返す。
type verifyFirebaseResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token"`
	User    userResponse `json:"user"`
}

// VerifyFirebase はJSONボディのIDトークンを検証し、対応するユーザーを返す。
// 未登録のsubjectはユーザーを自動作成する。
// POST /auth/verify-firebase
func (h *AuthHandler) VerifyFirebase(w http.ResponseWriter, r *http.Request) {
	var req verifyFirebaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteAPIError(w, model.NewInvalidRequestError())
		return
	}
	if req.Token == "" {
		middleware.WriteAPIError(w, model.NewMissingTokenError())
		return
	}

	user, err := h.service.Resolve(r.Context(), req.Token)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, verifyFirebaseResponse{
		Success: true,
		Token:   req.Token,
		User:    toUserResponse(user),
	})
}

// meResponse はユーザー1件を返すレスポンス。
type meResponse struct {
	Success bool         `json:"success"`
	User    userResponse `json:"user"`
}

// Register は認証済みユーザーの登録を確定する。
// 登録は冪等であり、認証ミドルウェアの解決時点で作成済みのユーザーを返す。
// POST /auth/firebase-register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	h.respondWithCurrentUser(w, r)
}

// Me は認証済みユーザー自身のプロフィールを返す。
// 解決後に行が消えている場合（削除レース）は404を返す。
// GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	h.respondWithCurrentUser(w, r)
}

func (h *AuthHandler) respondWithCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteAPIError(w, model.NewMissingTokenError())
		return
	}

	user, err := h.service.RequireUser(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, meResponse{
		Success: true,
		User:    toUserResponse(user),
	})
}

// updateProfileRequest はプロフィール更新リクエストのボディ。
type updateProfileRequest struct {
	Name     string   `json:"name"`
	Age      *int     `json:"age"`
	WeightKg *float64 `json:"weight_kg"`
	HeightCm *float64 `json:"height_cm"`
}

// UpdateProfile はプロフィールを全上書き更新する。
// PUT /auth/profile
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteAPIError(w, model.NewMissingTokenError())
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteAPIError(w, model.NewInvalidRequestError())
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), userID, &model.ProfileUpdate{
		Name:     req.Name,
		Age:      req.Age,
		WeightKg: req.WeightKg,
		HeightCm: req.HeightCm,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, meResponse{
		Success: true,
		User:    toUserResponse(user),
	})
}

// deleteAccountResponse はアカウント削除レスポンス。
type deleteAccountResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// DeleteAccount はユーザーの全データ（セッション・設定・ユーザー本体）を削除する。
// DELETE /auth/account
func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteAPIError(w, model.NewMissingTokenError())
		return
	}

	if err := h.service.DeleteAccount(r.Context(), userID); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, deleteAccountResponse{
		Success: true,
		Message: "アカウントを削除しました。",
	})
}
