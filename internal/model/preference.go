package model

import "time"

// Theme はUIテーマの列挙型。
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

// IsValid はテーマが定義済みの値であるかを返す。
func (t Theme) IsValid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeAuto:
		return true
	}
	return false
}

// Language は表示言語のロケールコード。
type Language string

const (
	LanguageVietnamese Language = "vi"
	LanguageEnglish    Language = "en"
)

// IsValid は言語がサポート対象であるかを返す。
func (l Language) IsValid() bool {
	switch l {
	case LanguageVietnamese, LanguageEnglish:
		return true
	}
	return false
}

// Preference はユーザーごとに1件の設定レコードを表す。
// 初回読み取り時にデフォルト値で暗黙的に作成される（upsert-on-read）。
type Preference struct {
	ID                     int64
	UserID                 int64
	FavoriteLevel          int
	DefaultDurationMinutes int
	HeatDefault            bool
	NotificationsEnabled   bool
	NotificationTime       string // "HH:MM" 形式
	Theme                  Theme
	Language               Language
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// DefaultPreference は初回読み取り時に作成されるデフォルト設定を返す。
func DefaultPreference(userID int64) *Preference {
	return &Preference{
		UserID:                 userID,
		FavoriteLevel:          3,
		DefaultDurationMinutes: 15,
		HeatDefault:            false,
		NotificationsEnabled:   true,
		NotificationTime:       "20:00",
		Theme:                  ThemeLight,
		Language:               LanguageVietnamese,
	}
}

// PreferenceUpdate は設定の部分更新を表す。
// nilのフィールドは変更せず既存の値を維持する。
// ストア層はここに存在するフィールドのみをパラメータ化された
// カラム割り当てに変換する（生のカラム名文字列連結は行わない）。
type PreferenceUpdate struct {
	FavoriteLevel          *int
	DefaultDurationMinutes *int
	HeatDefault            *bool
	NotificationsEnabled   *bool
	NotificationTime       *string
	Theme                  *Theme
	Language               *Language
}

// IsEmpty は更新対象フィールドが1つも指定されていないかを返す。
func (u *PreferenceUpdate) IsEmpty() bool {
	return u.FavoriteLevel == nil &&
		u.DefaultDurationMinutes == nil &&
		u.HeatDefault == nil &&
		u.NotificationsEnabled == nil &&
		u.NotificationTime == nil &&
		u.Theme == nil &&
		u.Language == nil
}
