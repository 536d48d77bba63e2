package handler

import (
	"bytes"
	"net/http"

	"github.com/hitoshi/skatebio/internal/middleware"
	"github.com/hitoshi/skatebio/internal/model"
	"github.com/hitoshi/skatebio/internal/skater"
)

// PageHandler はHTMLページ（ディレクトリ・プロフィール）のHTTPハンドラー。
// ページ用のホストはHostヘッダーのみから決定し、クエリによる上書きは受け付けない。
type PageHandler struct {
	service  SkaterService
	renderer PageRenderer
}

// NewPageHandler はPageHandlerを生成する。
func NewPageHandler(service SkaterService, renderer PageRenderer) *PageHandler {
	return &PageHandler{
		service:  service,
		renderer: renderer,
	}
}

// ServeHTTP はホストに応じてページを出し分ける。
//
//	ルートドメインの "/"        → ディレクトリ
//	ルートドメインのその他のパス → "/" へ302
//	テナントドメインの任意のパス → プロフィール（未登録なら404ページ）
func (h *PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.service.IsRoot(r.Host) {
		if r.URL.Path == "/" {
			h.directory(w, r)
			return
		}
		redirectToRoot(w)
		return
	}

	h.profile(w, r)
}

func (h *PageHandler) directory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.Directory(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.Directory(&buf, entries); err != nil {
		h.renderError(w, r, err)
		return
	}
	writeHTML(w, http.StatusOK, cachePage, buf.Bytes())
}

func (h *PageHandler) profile(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Resolve(r.Context(), r.Host, "")
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	switch res.Kind {
	case skater.KindRedirect:
		redirectToRoot(w)
		return
	case skater.KindNotFound:
		h.renderNotFound(w, r, res.Host)
		return
	}

	profile, err := h.service.Profile(r.Context(), res)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.Profile(&buf, profile); err != nil {
		h.renderError(w, r, err)
		return
	}
	writeHTML(w, http.StatusOK, cachePage, buf.Bytes())
}

func (h *PageHandler) renderNotFound(w http.ResponseWriter, r *http.Request, host string) {
	var buf bytes.Buffer
	if err := h.renderer.NotFound(&buf, host); err != nil {
		h.renderError(w, r, err)
		return
	}
	writeHTML(w, http.StatusNotFound, "no-store", buf.Bytes())
}

// renderError は汎用のエラーページを500で返す。
// 原因はログにのみ記録する。エラーページ自体の描画に失敗した場合はプレーンテキストを返す。
func (h *PageHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	logInternalError(r, err)

	var buf bytes.Buffer
	if rerr := h.renderer.Error(&buf); rerr != nil {
		logInternalError(r, rerr)
		middleware.SetNoStore(w)
		http.Error(w, model.NewInternalError().Message, http.StatusInternalServerError)
		return
	}
	writeHTML(w, http.StatusInternalServerError, "no-store", buf.Bytes())
}

func writeHTML(w http.ResponseWriter, status int, cacheControl string, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", cacheControl)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
