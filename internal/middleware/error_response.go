package middleware

import (
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/hitoshi/skatebio/internal/model"
)

// ErrorResponseBody はAPIエラーレスポンスのJSON構造。
// error にはクライアント向けメッセージが入り、内部の原因は含めない。
type ErrorResponseBody struct {
	Error    string `json:"error"`
	Code     string `json:"code"`
	Category string `json:"category"`
	Action   string `json:"action,omitempty"`
}

// SetNoStore はレスポンスをキャッシュさせないCache-Controlを設定する。
func SetNoStore(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
}

// WriteErrorResponse は統一エラーフォーマットでJSONエラーレスポンスを書き込む。
// エラーレスポンスはキャッシュさせない。
func WriteErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	body := ErrorResponseBody{
		Error:    apiErr.Message,
		Code:     apiErr.Code,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	}

	data, err := json.Marshal(body)
	if err != nil {
		slog.Error("failed to encode error response", slog.String("error", err.Error()))
		SetNoStore(w)
		http.Error(w, `{"error":"Internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	SetNoStore(w)
	w.WriteHeader(statusCode)
	_, _ = w.Write(data)
}

// WriteInternalServerError は汎用の500レスポンスを書き込む。
func WriteInternalServerError(w http.ResponseWriter) {
	WriteErrorResponse(w, http.StatusInternalServerError, model.NewInternalError())
}
