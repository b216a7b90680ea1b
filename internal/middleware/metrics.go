package middleware

import (
	"net/http"
	"time"

	"github.com/hitoshi/massago/internal/metrics"
)

// NewMetricsMiddleware はリクエスト数とレイテンシをPrometheusに記録する
// ミドルウェアを返す。
func NewMetricsMiddleware(collector metrics.MetricsCollector) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rec := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rec, r)

			collector.RecordHTTPRequest(r.Method, r.URL.Path, rec.statusCode)
			collector.RecordHTTPLatency(time.Since(start))
		})
	}
}
