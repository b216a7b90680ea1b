package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/massago/internal/model"
)

// errorResponseBody はAPIエラーレスポンスの統一フォーマット。
// クライアントにはメッセージのみを返し、エラーコードはログに留める。
type errorResponseBody struct {
	Error string `json:"error"`
}

// WriteError は統一エラーフォーマット（{"error": "<message>"}）で
// HTTPエラーレスポンスを書き込む。
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(errorResponseBody{Error: message})
}

// WriteAPIError はAPIErrorのコードからHTTPステータスを決定して書き込む。
func WriteAPIError(w http.ResponseWriter, apiErr *model.APIError) {
	WriteError(w, StatusForErrorCode(apiErr.Code), apiErr.Message)
}

// WriteResolveError は認証解決時のエラーをレスポンスに変換する。
// APIError以外（ストア障害など）は500として扱う。
func WriteResolveError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		WriteAPIError(w, apiErr)
		return
	}
	slog.Error("identity resolution failed", slog.String("error", err.Error()))
	WriteInternalServerError(w)
}

// WriteInternalServerError は内部サーバーエラーの統一レスポンスを書き込む。
// 詳細はログのみに記録し、ユーザーには一般的なメッセージを返す。
func WriteInternalServerError(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, "内部エラーが発生しました。")
}

// StatusForErrorCode はエラーコードをHTTPステータスコードに対応付ける。
func StatusForErrorCode(code string) int {
	switch code {
	case model.ErrCodeMissingToken, model.ErrCodeInvalidToken:
		return http.StatusUnauthorized
	case model.ErrCodeUserNotFound, model.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case model.ErrCodeValidationFailed, model.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
