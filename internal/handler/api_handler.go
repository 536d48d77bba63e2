package handler

import (
	"net/http"

	"github.com/hitoshi/skatebio/internal/middleware"
	"github.com/hitoshi/skatebio/internal/model"
	"github.com/hitoshi/skatebio/internal/skater"
)

// APIHandler は公開JSON APIのHTTPハンドラー。
// ホストは ?host= クエリを優先し、なければHostヘッダーから決定する。
type APIHandler struct {
	service SkaterService
}

// NewAPIHandler はAPIHandlerを生成する。
func NewAPIHandler(service SkaterService) *APIHandler {
	return &APIHandler{service: service}
}

// resolve はリクエストのホストを解決する。
// 解決できなかった場合はレスポンスを書き込み、falseを返す。
func (h *APIHandler) resolve(w http.ResponseWriter, r *http.Request) (skater.Resolution, bool) {
	res, err := h.service.Resolve(r.Context(), r.Host, r.URL.Query().Get("host"))
	if err != nil {
		handleServiceError(w, r, err)
		return res, false
	}

	switch res.Kind {
	case skater.KindRedirect:
		redirectToRoot(w)
		return res, false
	case skater.KindNotFound:
		middleware.WriteErrorResponse(w, http.StatusNotFound, model.NewSkaterNotFoundError(res.Host))
		return res, false
	}
	return res, true
}

// GetSkater はスケーター本体を返す。
// GET /api/public/skater?host=tonyhawk.bio
func (h *APIHandler) GetSkater(w http.ResponseWriter, r *http.Request) {
	res, ok := h.resolve(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, cacheAPI, res.Skater)
}

// ListMedia はメディア一覧を返す。
// GET /api/public/media?host=tonyhawk.bio&type=image|video|gif
func (h *APIHandler) ListMedia(w http.ResponseWriter, r *http.Request) {
	// フィルタはホスト解決より先に検証する
	filter, err := skater.ParseMediaType(r.URL.Query().Get("type"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	res, ok := h.resolve(w, r)
	if !ok {
		return
	}

	items, err := h.service.ListMedia(r.Context(), res.Skater.ID, filter)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, cacheAPI, items)
}

// ListTimeline は年表を返す。
// GET /api/public/timeline?host=tonyhawk.bio&year=1999
func (h *APIHandler) ListTimeline(w http.ResponseWriter, r *http.Request) {
	filter, err := skater.ParseYear(r.URL.Query().Get("year"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	res, ok := h.resolve(w, r)
	if !ok {
		return
	}

	items, err := h.service.ListTimeline(r.Context(), res.Skater.ID, filter)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, cacheAPI, items)
}

// ListParts はビデオパート一覧を返す。
// GET /api/public/parts?host=tonyhawk.bio
func (h *APIHandler) ListParts(w http.ResponseWriter, r *http.Request) {
	res, ok := h.resolve(w, r)
	if !ok {
		return
	}

	items, err := h.service.ListParts(r.Context(), res.Skater.ID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, cacheAPI, items)
}

// ListContests はコンテスト成績を返す。
// GET /api/public/contests?host=tonyhawk.bio&year=1999
func (h *APIHandler) ListContests(w http.ResponseWriter, r *http.Request) {
	filter, err := skater.ParseYear(r.URL.Query().Get("year"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	res, ok := h.resolve(w, r)
	if !ok {
		return
	}

	items, err := h.service.ListContests(r.Context(), res.Skater.ID, filter)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, cacheAPI, items)
}

// ListDirectory は有効なスケーターの一覧を返す。ホスト解決は行わない。
// GET /api/public/directory
func (h *APIHandler) ListDirectory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.Directory(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, cacheAPI, entries)
}
