package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/skatebio/internal/middleware"
)

// healthCheckTimeout はヘルスチェック時のデータストア疎通確認のタイムアウト。
const healthCheckTimeout = 2 * time.Second

type healthResponse struct {
	Status string `json:"status"`
}

// NewHealthHandler はデータストアの疎通を確認するヘルスチェックハンドラーを生成する。
// GET /health
func NewHealthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		if err := checker.PingContext(ctx); err != nil {
			slog.Warn("health check failed",
				slog.String("request_id", middleware.RequestID(r)),
				slog.String("error", err.Error()),
			)
			writeJSON(w, r, http.StatusServiceUnavailable, "no-store", healthResponse{Status: "unavailable"})
			return
		}
		writeJSON(w, r, http.StatusOK, "no-store", healthResponse{Status: "ok"})
	}
}
