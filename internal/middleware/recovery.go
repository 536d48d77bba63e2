package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
)

// NewRecoveryMiddleware はパニックを回復して500を返すミドルウェアを生成する。
// APIパスでは統一エラーフォーマットのJSON、それ以外ではプレーンテキストを返す。
func NewRecoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rv := recover(); rv != nil {
					if rv == http.ErrAbortHandler {
						panic(rv)
					}
					logger.Error("panic recovered",
						slog.String("request_id", RequestID(r)),
						slog.Any("panic", rv),
						slog.String("stack", string(debug.Stack())),
						slog.String("path", r.URL.Path),
					)
					if strings.HasPrefix(r.URL.Path, "/api/") {
						WriteInternalServerError(w)
						return
					}
					SetNoStore(w)
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
