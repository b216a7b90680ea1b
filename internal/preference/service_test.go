package preference

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/massago/internal/model"
)

// mockPreferenceRepo はrepository.PreferenceRepositoryのモック実装。
type mockPreferenceRepo struct {
	findByUserIDFn  func(ctx context.Context, userID int64) (*model.Preference, error)
	createDefaultFn func(ctx context.Context, userID int64) (*model.Preference, error)
	applyUpdateFn   func(ctx context.Context, userID int64, update *model.PreferenceUpdate) (*model.Preference, error)
}

func (m *mockPreferenceRepo) FindByUserID(ctx context.Context, userID int64) (*model.Preference, error) {
	if m.findByUserIDFn != nil {
		return m.findByUserIDFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockPreferenceRepo) CreateDefault(ctx context.Context, userID int64) (*model.Preference, error) {
	if m.createDefaultFn != nil {
		return m.createDefaultFn(ctx, userID)
	}
	return model.DefaultPreference(userID), nil
}

func (m *mockPreferenceRepo) ApplyUpdate(ctx context.Context, userID int64, update *model.PreferenceUpdate) (*model.Preference, error) {
	if m.applyUpdateFn != nil {
		return m.applyUpdateFn(ctx, userID, update)
	}
	return nil, nil
}

func TestGetOrCreate_ExistingRow(t *testing.T) {
	existing := &model.Preference{ID: 1, UserID: 7, FavoriteLevel: 8}
	repo := &mockPreferenceRepo{
		findByUserIDFn: func(ctx context.Context, userID int64) (*model.Preference, error) {
			return existing, nil
		},
		createDefaultFn: func(ctx context.Context, userID int64) (*model.Preference, error) {
			t.Error("既存行がある場合にCreateDefaultが呼ばれてはならない")
			return nil, nil
		},
	}
	svc := NewService(repo)

	pref, err := svc.GetOrCreate(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if pref.FavoriteLevel != 8 {
		t.Errorf("FavoriteLevel = %d, want 8", pref.FavoriteLevel)
	}
}

func TestGetOrCreate_MissingRow_CreatesDefaults(t *testing.T) {
	repo := &mockPreferenceRepo{
		createDefaultFn: func(ctx context.Context, userID int64) (*model.Preference, error) {
			pref := model.DefaultPreference(userID)
			pref.ID = 3
			return pref, nil
		},
	}
	svc := NewService(repo)

	pref, err := svc.GetOrCreate(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}

	if pref.UserID != 7 {
		t.Errorf("UserID = %d, want 7", pref.UserID)
	}
	if pref.FavoriteLevel != 3 || pref.DefaultDurationMinutes != 15 {
		t.Errorf("デフォルト値が設定されていない: %+v", pref)
	}
	if pref.Theme != model.ThemeLight || pref.Language != model.LanguageVietnamese {
		t.Errorf("デフォルトのテーマ・言語が設定されていない: %+v", pref)
	}
}

func TestUpdate_PartialFields(t *testing.T) {
	theme := model.ThemeDark
	var gotUpdate *model.PreferenceUpdate

	repo := &mockPreferenceRepo{
		applyUpdateFn: func(ctx context.Context, userID int64, update *model.PreferenceUpdate) (*model.Preference, error) {
			gotUpdate = update
			pref := model.DefaultPreference(userID)
			pref.Theme = *update.Theme
			return pref, nil
		},
	}
	svc := NewService(repo)

	pref, err := svc.Update(context.Background(), 1, &model.PreferenceUpdate{Theme: &theme})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if pref.Theme != model.ThemeDark {
		t.Errorf("Theme = %q, want dark", pref.Theme)
	}
	if gotUpdate.FavoriteLevel != nil || gotUpdate.Language != nil {
		t.Error("未指定フィールドがリポジトリに渡されている")
	}
}

func TestUpdate_EmptyUpdate_ReturnsCurrentState(t *testing.T) {
	current := &model.Preference{ID: 1, UserID: 2, FavoriteLevel: 6}
	repo := &mockPreferenceRepo{
		findByUserIDFn: func(ctx context.Context, userID int64) (*model.Preference, error) {
			return current, nil
		},
		applyUpdateFn: func(ctx context.Context, userID int64, update *model.PreferenceUpdate) (*model.Preference, error) {
			t.Error("空更新でApplyUpdateが呼ばれてはならない")
			return nil, nil
		},
	}
	svc := NewService(repo)

	pref, err := svc.Update(context.Background(), 2, &model.PreferenceUpdate{})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if pref.FavoriteLevel != 6 {
		t.Errorf("FavoriteLevel = %d, want 6", pref.FavoriteLevel)
	}
}

func TestUpdate_MissingRow_CreatesDefaultThenApplies(t *testing.T) {
	level := 9
	applyCalls := 0
	createCalled := false

	repo := &mockPreferenceRepo{
		applyUpdateFn: func(ctx context.Context, userID int64, update *model.PreferenceUpdate) (*model.Preference, error) {
			applyCalls++
			if applyCalls == 1 {
				return nil, nil // 行がまだない
			}
			pref := model.DefaultPreference(userID)
			pref.FavoriteLevel = *update.FavoriteLevel
			return pref, nil
		},
		createDefaultFn: func(ctx context.Context, userID int64) (*model.Preference, error) {
			createCalled = true
			return model.DefaultPreference(userID), nil
		},
	}
	svc := NewService(repo)

	pref, err := svc.Update(context.Background(), 1, &model.PreferenceUpdate{FavoriteLevel: &level})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if !createCalled {
		t.Error("行が無い場合はデフォルト行を作成してから更新する")
	}
	if applyCalls != 2 {
		t.Errorf("applyCalls = %d, want 2", applyCalls)
	}
	if pref.FavoriteLevel != 9 {
		t.Errorf("FavoriteLevel = %d, want 9", pref.FavoriteLevel)
	}
}

func TestUpdate_Validation(t *testing.T) {
	svc := NewService(&mockPreferenceRepo{
		applyUpdateFn: func(ctx context.Context, userID int64, update *model.PreferenceUpdate) (*model.Preference, error) {
			t.Error("検証失敗時にApplyUpdateが呼ばれてはならない")
			return nil, nil
		},
	})

	badLevel := 11
	badDuration := 0
	badTime := "25:00"
	badTime2 := "8:00"
	badTheme := model.Theme("neon")
	badLang := model.Language("fr")

	tests := []struct {
		name   string
		update *model.PreferenceUpdate
	}{
		{"レベル範囲外", &model.PreferenceUpdate{FavoriteLevel: &badLevel}},
		{"利用時間ゼロ", &model.PreferenceUpdate{DefaultDurationMinutes: &badDuration}},
		{"通知時刻が25時", &model.PreferenceUpdate{NotificationTime: &badTime}},
		{"通知時刻の桁不足", &model.PreferenceUpdate{NotificationTime: &badTime2}},
		{"未知のテーマ", &model.PreferenceUpdate{Theme: &badTheme}},
		{"未対応の言語", &model.PreferenceUpdate{Language: &badLang}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Update(context.Background(), 1, tt.update)
			var apiErr *model.APIError
			if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeValidationFailed {
				t.Errorf("expected VALIDATION_FAILED, got %v", err)
			}
		})
	}
}

func TestUpdate_ValidBoundaryValues(t *testing.T) {
	repo := &mockPreferenceRepo{
		applyUpdateFn: func(ctx context.Context, userID int64, update *model.PreferenceUpdate) (*model.Preference, error) {
			return model.DefaultPreference(userID), nil
		},
	}
	svc := NewService(repo)

	midnight := "00:00"
	lastMinute := "23:59"
	minLevel := model.LevelMin
	maxLevel := model.LevelMax

	updates := []*model.PreferenceUpdate{
		{NotificationTime: &midnight},
		{NotificationTime: &lastMinute},
		{FavoriteLevel: &minLevel},
		{FavoriteLevel: &maxLevel},
	}

	for _, update := range updates {
		if _, err := svc.Update(context.Background(), 1, update); err != nil {
			t.Errorf("境界値の更新が拒否された: %+v: %v", update, err)
		}
	}
}
