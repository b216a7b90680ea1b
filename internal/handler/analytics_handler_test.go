package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/massago/internal/model"
)

// mockAnalyticsService はAnalyticsServiceInterfaceのモック実装。
type mockAnalyticsService struct {
	summaryFn func(ctx context.Context, userID int64) (*model.AnalyticsSummary, error)
}

func (m *mockAnalyticsService) Summary(ctx context.Context, userID int64) (*model.AnalyticsSummary, error) {
	return m.summaryFn(ctx, userID)
}

func TestAnalyticsSummary_Success(t *testing.T) {
	first := time.Date(2026, 1, 5, 20, 0, 0, 0, time.UTC)
	h := NewAnalyticsHandler(&mockAnalyticsService{
		summaryFn: func(ctx context.Context, userID int64) (*model.AnalyticsSummary, error) {
			return &model.AnalyticsSummary{
				SessionCount: 12, TotalMinutes: 180, TotalCalories: 950,
				AverageLevel: 4.5, AverageDuration: 15.0,
				FirstSessionAt: &first,
			}, nil
		},
	})

	req := withUserID(httptest.NewRequest(http.MethodGet, "/analytics/summary", nil), 2)
	rec := httptest.NewRecorder()
	h.Summary(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	summary := body["summary"].(map[string]any)
	if summary["session_count"] != float64(12) || summary["average_duration"] != 15.0 {
		t.Errorf("summary payload = %v", summary)
	}
	if summary["last_session_at"] != nil {
		t.Errorf("last_session_at = %v, want null", summary["last_session_at"])
	}
}

func TestAnalyticsSummary_ServiceFailure_Returns500(t *testing.T) {
	h := NewAnalyticsHandler(&mockAnalyticsService{
		summaryFn: func(ctx context.Context, userID int64) (*model.AnalyticsSummary, error) {
			return nil, errors.New("connection reset")
		},
	})

	req := withUserID(httptest.NewRequest(http.MethodGet, "/analytics/summary", nil), 2)
	rec := httptest.NewRecorder()
	h.Summary(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["error"] == "connection reset" {
		t.Error("内部エラーの詳細をレスポンスに含めてはならない")
	}
}

func TestAnalyticsSummary_NoUserInContext_Returns401(t *testing.T) {
	h := NewAnalyticsHandler(&mockAnalyticsService{})

	req := httptest.NewRequest(http.MethodGet, "/analytics/summary", nil)
	rec := httptest.NewRecorder()
	h.Summary(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
