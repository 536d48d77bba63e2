package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/hitoshi/skatebio/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	Service  SkaterService
	Renderer PageRenderer
	Health   HealthChecker

	// 以下は省略可能
	Logger         *slog.Logger
	RateLimiter    *middleware.RateLimiter
	Metrics        middleware.HTTPRecorder
	MetricsHandler http.Handler

	// TrustProxyHeaders がtrueの場合のみRealIPでX-Forwarded-For等をRemoteAddrへ反映する。
	// falseの場合はソケットのアドレスでクライアントを識別する。
	TrustProxyHeaders bool
}

// NewRouter は全エンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RequestID → RealIP（TrustProxyHeaders時のみ） → GetHead → Logging → Metrics → Recovery → SecurityHeaders
//
// ページと公開APIにはさらにクライアントIPごとのレート制限を適用し、
// /api/public 配下にはCORSを適用する。/health と /metrics はレート制限の外に置く。
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	if deps.TrustProxyHeaders {
		r.Use(chimw.RealIP)
	}
	r.Use(chimw.GetHead)
	r.Use(middleware.NewLoggingMiddleware(logger))
	if deps.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	}
	r.Use(middleware.NewRecoveryMiddleware(logger))
	r.Use(middleware.NewSecurityHeadersMiddleware())

	r.Get("/health", NewHealthHandler(deps.Health))
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	apiHandler := NewAPIHandler(deps.Service)
	pageHandler := NewPageHandler(deps.Service, deps.Renderer)

	r.Group(func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.Middleware())
		}

		r.Route("/api/public", func(r chi.Router) {
			r.Use(middleware.NewCORSMiddleware())

			r.Get("/skater", apiHandler.GetSkater)
			r.Get("/media", apiHandler.ListMedia)
			r.Get("/timeline", apiHandler.ListTimeline)
			r.Get("/parts", apiHandler.ListParts)
			r.Get("/contests", apiHandler.ListContests)
			r.Get("/directory", apiHandler.ListDirectory)

			// プリフライトはCORSミドルウェアが204で応答する
			r.Options("/*", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})
		})

		r.Get("/", pageHandler.ServeHTTP)
		r.Get("/*", pageHandler.ServeHTTP)
	})

	return r
}
