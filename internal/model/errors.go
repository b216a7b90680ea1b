package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// Messageはそのままエラーレスポンスボディ（{"error": "<message>"}）に載る。
type APIError struct {
	Code    string // エラーコード
	Message string // クライアント向けメッセージ
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeMissingToken     = "MISSING_TOKEN"
	ErrCodeInvalidToken     = "INVALID_TOKEN"
	ErrCodeUserNotFound     = "USER_NOT_FOUND"
	ErrCodeSessionNotFound  = "SESSION_NOT_FOUND"
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeInvalidRequest   = "INVALID_REQUEST"
)

// NewMissingTokenError はAuthorizationヘッダー欠落のエラーを生成する。
func NewMissingTokenError() *APIError {
	return &APIError{
		Code:    ErrCodeMissingToken,
		Message: "認証トークンがありません。",
	}
}

// NewInvalidTokenError はトークン検証失敗のエラーを生成する。
// 失敗原因（期限切れ・改ざん・失効・プロバイダー到達不能）は
// 区別せず単一のメッセージに畳み込む。
func NewInvalidTokenError() *APIError {
	return &APIError{
		Code:    ErrCodeInvalidToken,
		Message: "認証トークンが無効です。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:    ErrCodeUserNotFound,
		Message: "ユーザーが見つかりません。",
	}
}

// NewSessionNotFoundError はセッションが見つからない場合のエラーを生成する。
func NewSessionNotFoundError(sessionID int64) *APIError {
	return &APIError{
		Code:    ErrCodeSessionNotFound,
		Message: fmt.Sprintf("指定されたセッションが見つかりません: %d", sessionID),
	}
}

// NewValidationError は入力値検証失敗のエラーを生成する。
func NewValidationError(reason string) *APIError {
	return &APIError{
		Code:    ErrCodeValidationFailed,
		Message: fmt.Sprintf("入力値が不正です: %s", reason),
	}
}

// NewInvalidRequestError はリクエストボディ解析失敗のエラーを生成する。
func NewInvalidRequestError() *APIError {
	return &APIError{
		Code:    ErrCodeInvalidRequest,
		Message: "リクエストボディの解析に失敗しました。",
	}
}
