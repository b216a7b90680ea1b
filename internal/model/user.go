// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// FirebaseUIDは外部IdP（Firebase）が発行する安定した識別子で、
// 一度割り当てられると変更されない。内部IDはDBが生成する主キーで、
// すべての所有スコープ（外部キー）にはこの内部IDを使用する。
type User struct {
	ID          int64
	FirebaseUID string
	Email       string
	Name        string
	Age         *int
	WeightKg    *float64
	HeightCm    *float64
	Gender      *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProfileUpdate はプロフィール更新（PUT /auth/profile）の入力を表す。
// 名前・年齢・体重・身長の全上書き更新。
type ProfileUpdate struct {
	Name     string
	Age      *int
	WeightKg *float64
	HeightCm *float64
}
