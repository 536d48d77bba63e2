package middleware

import "net/http"

// NewCORSMiddleware は公開API向けのCORSミドルウェアを生成する。
// 読み取り専用の公開データのため任意のオリジンを許可し、資格情報は扱わない。
// OPTIONSプリフライトには204を返し、後続ハンドラは呼び出さない。
func NewCORSMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", "*")
			h.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type")
			h.Set("Access-Control-Max-Age", "86400")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
