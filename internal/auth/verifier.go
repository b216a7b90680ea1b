// Package auth はIDトークン検証とユーザー解決を提供する。
package auth

import "context"

// VerifiedIdentity はIdPが検証したトークンから得られる識別情報を表す。
type VerifiedIdentity struct {
	SubjectID string // IdPが発行する安定した識別子
	Email     string
}

// TokenVerifier はIDトークン検証のインターフェース。
// 外部IdPとのサービス境界をこの狭いインターフェースに閉じ込めることで、
// 解決ロジックをフェイク実装でテストできるようにする。
type TokenVerifier interface {
	// Verify はトークンを検証し、識別情報を返す。
	// 期限切れ・改ざん・失効・プロバイダー到達不能はすべてエラーとして返す。
	Verify(ctx context.Context, token string) (*VerifiedIdentity, error)
}
