package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/massago/internal/metrics"
	"github.com/hitoshi/massago/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	Resolver          middleware.IdentityResolver
	RateLimiter       *middleware.RateLimiter
	CORSAllowedOrigin string

	// 監視
	HealthChecker HealthChecker
	Collector     metrics.MetricsCollector
	Gatherer      prometheus.Gatherer

	// ドメインサービス
	AuthService       AuthServiceInterface
	SessionService    SessionServiceInterface
	PreferenceService PreferenceServiceInterface
	AnalyticsService  AnalyticsServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RequestID → Recovery → SecurityHeaders → CORS → Logging → Metrics
//	→（保護ルートのみ）Auth → RateLimit
//
// /health、/metrics、/auth/verify-firebase は認証チェーンの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRequestIDMiddleware())
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	r.Use(middleware.NewMetricsMiddleware(deps.Collector))

	authHandler := NewAuthHandler(deps.AuthService)
	sessionHandler := NewSessionHandler(deps.SessionService)
	preferenceHandler := NewPreferenceHandler(deps.PreferenceService)
	analyticsHandler := NewAnalyticsHandler(deps.AnalyticsService)

	// --- 認証不要のルート ---

	r.Get("/health", NewHealthHandler(deps.HealthChecker))
	r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))

	// トークンをボディで受け取る検証エンドポイント
	r.Post("/auth/verify-firebase", authHandler.VerifyFirebase)

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Auth → RateLimit
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.Resolver))
		r.Use(deps.RateLimiter.Middleware())

		// 認証・アカウント管理
		r.Route("/auth", func(r chi.Router) {
			r.Post("/firebase-register", authHandler.Register)
			r.Get("/me", authHandler.Me)
			r.Put("/profile", authHandler.UpdateProfile)
			r.Delete("/account", authHandler.DeleteAccount)
		})

		// セッション記録
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", sessionHandler.Create)
			r.Get("/", sessionHandler.List)
			r.Get("/statistics", sessionHandler.Statistics)
		})

		// ユーザー設定
		r.Route("/preferences", func(r chi.Router) {
			r.Get("/", preferenceHandler.Get)
			r.Put("/", preferenceHandler.Update)
		})

		// 利用分析
		r.Get("/analytics/summary", analyticsHandler.Summary)
	})

	return r
}
