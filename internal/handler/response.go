package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/hitoshi/skatebio/internal/middleware"
	"github.com/hitoshi/skatebio/internal/model"
)

// Cache-Controlの値。
const (
	cachePage = "public, max-age=600"
	cacheAPI  = "public, max-age=300"
)

// writeJSON は値をJSONにエンコードしてレスポンスに書き込む。
// エンコードに失敗した場合は500を返す。
func writeJSON(w http.ResponseWriter, r *http.Request, status int, cacheControl string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to encode response",
			slog.String("request_id", middleware.RequestID(r)),
			slog.String("error", err.Error()),
		)
		middleware.WriteInternalServerError(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", cacheControl)
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// redirectToRoot はルートの一覧ページへ302でリダイレクトする。本文は書き込まない。
func redirectToRoot(w http.ResponseWriter) {
	w.Header().Set("Location", "/")
	middleware.SetNoStore(w)
	w.WriteHeader(http.StatusFound)
}

// handleServiceError はサービス層から返されたエラーをJSONエラーレスポンスに変換する。
// APIError以外は内部エラーとしてログに記録し、汎用メッセージのみ返す。
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		middleware.WriteErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	logInternalError(r, err)
	middleware.WriteInternalServerError(w)
}

func logInternalError(r *http.Request, err error) {
	slog.Error("internal server error",
		slog.String("request_id", middleware.RequestID(r)),
		slog.String("path", r.URL.Path),
		slog.Bool("infrastructure", model.IsInfrastructure(err)),
		slog.String("error", err.Error()),
	)
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeSkaterNotFound:
		return http.StatusNotFound
	case model.ErrCodeInvalidYear, model.ErrCodeInvalidMediaType:
		return http.StatusBadRequest
	case model.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
