package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/massago/internal/model"
)

// mockResolver はIdentityResolverのモック実装。
type mockResolver struct {
	resolveFn func(ctx context.Context, token string) (*model.User, error)
}

func (m *mockResolver) Resolve(ctx context.Context, token string) (*model.User, error) {
	return m.resolveFn(ctx, token)
}

// authTestHandler はコンテキストからユーザーIDを読んで返すテスト用ハンドラー。
func authTestHandler(t *testing.T, gotUserID *int64) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := UserIDFromContext(r.Context())
		if err != nil {
			t.Errorf("UserIDFromContext failed: %v", err)
		}
		*gotUserID = userID
		w.WriteHeader(http.StatusOK)
	})
}

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	return body["error"]
}

func TestAuthMiddleware_ValidToken_InjectsUserID(t *testing.T) {
	resolver := &mockResolver{
		resolveFn: func(ctx context.Context, token string) (*model.User, error) {
			if token != "valid-token" {
				t.Errorf("token = %q, want %q", token, "valid-token")
			}
			return &model.User{ID: 42, Name: "a"}, nil
		},
	}

	var gotUserID int64
	handler := NewAuthMiddleware(resolver)(authTestHandler(t, &gotUserID))

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if gotUserID != 42 {
		t.Errorf("userID = %d, want 42", gotUserID)
	}
}

func TestAuthMiddleware_MissingHeader_Returns401(t *testing.T) {
	resolver := &mockResolver{
		resolveFn: func(ctx context.Context, token string) (*model.User, error) {
			t.Error("ヘッダー欠落時にResolveが呼ばれてはならない")
			return nil, nil
		},
	}
	handler := NewAuthMiddleware(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if msg := decodeErrorBody(t, rec); msg == "" {
		t.Error("エラーボディにerrorフィールドがない")
	}
}

func TestAuthMiddleware_MalformedHeader_Returns401(t *testing.T) {
	headers := []string{
		"valid-token",       // スキームなし
		"Basic dXNlcjpwYXNz", // 別スキーム
		"Bearer ",           // トークン空
		"Bearer",            // 区切りなし
	}

	for _, header := range headers {
		resolver := &mockResolver{
			resolveFn: func(ctx context.Context, token string) (*model.User, error) {
				return &model.User{ID: 1}, nil
			},
		}
		handler := NewAuthMiddleware(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Errorf("header %q で next handler が呼ばれた", header)
		}))

		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("header %q: status = %d, want 401", header, rec.Code)
		}
	}
}

func TestAuthMiddleware_CaseInsensitiveBearerScheme(t *testing.T) {
	resolver := &mockResolver{
		resolveFn: func(ctx context.Context, token string) (*model.User, error) {
			return &model.User{ID: 7}, nil
		},
	}

	var gotUserID int64
	handler := NewAuthMiddleware(resolver)(authTestHandler(t, &gotUserID))

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "bearer valid-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestAuthMiddleware_InvalidToken_Returns401(t *testing.T) {
	resolver := &mockResolver{
		resolveFn: func(ctx context.Context, token string) (*model.User, error) {
			return nil, model.NewInvalidTokenError()
		},
	}
	handler := NewAuthMiddleware(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthMiddleware_ResolveStoreFailure_Returns500(t *testing.T) {
	resolver := &mockResolver{
		resolveFn: func(ctx context.Context, token string) (*model.User, error) {
			return nil, errors.New("connection reset")
		},
	}
	handler := NewAuthMiddleware(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestUserIDFromContext_Missing(t *testing.T) {
	if _, err := UserIDFromContext(context.Background()); err == nil {
		t.Error("expected error for missing user ID")
	}
}

func TestContextWithUserID_RoundTrip(t *testing.T) {
	ctx := ContextWithUserID(context.Background(), 99)
	userID, err := UserIDFromContext(ctx)
	if err != nil {
		t.Fatalf("UserIDFromContext failed: %v", err)
	}
	if userID != 99 {
		t.Errorf("userID = %d, want 99", userID)
	}
}
