package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/skatebio/internal/host"
	"github.com/hitoshi/skatebio/internal/model"
	"github.com/hitoshi/skatebio/internal/render"
	"github.com/hitoshi/skatebio/internal/security"
	"github.com/hitoshi/skatebio/internal/skater"
)

// --- モック定義 ---

// mockSkaterService はSkaterServiceのモック実装。
// 関数フィールドが未設定の場合は空の結果を返す。
type mockSkaterService struct {
	resolveFn      func(ctx context.Context, rawHost, override string) (skater.Resolution, error)
	isRootFn       func(rawHost string) bool
	profileFn      func(ctx context.Context, res skater.Resolution) (*skater.Profile, error)
	directoryFn    func(ctx context.Context) ([]model.DirectoryEntry, error)
	listMediaFn    func(ctx context.Context, skaterID int64, filter model.MediaFilter) ([]model.MediaAsset, error)
	listTimelineFn func(ctx context.Context, skaterID int64, filter model.YearFilter) ([]model.TimelineEvent, error)
	listPartsFn    func(ctx context.Context, skaterID int64) ([]model.VideoPart, error)
	listContestsFn func(ctx context.Context, skaterID int64, filter model.YearFilter) ([]model.ContestResult, error)
}

var testRoots = host.NewRootSet(host.DefaultRootDomains)

func (m *mockSkaterService) Resolve(ctx context.Context, rawHost, override string) (skater.Resolution, error) {
	if m.resolveFn != nil {
		return m.resolveFn(ctx, rawHost, override)
	}
	return skater.Resolution{Kind: skater.KindNotFound, Host: host.Normalize(rawHost, override)}, nil
}

func (m *mockSkaterService) IsRoot(rawHost string) bool {
	if m.isRootFn != nil {
		return m.isRootFn(rawHost)
	}
	return testRoots.Contains(host.Normalize(rawHost, ""))
}

func (m *mockSkaterService) Profile(ctx context.Context, res skater.Resolution) (*skater.Profile, error) {
	if m.profileFn != nil {
		return m.profileFn(ctx, res)
	}
	return &skater.Profile{Host: res.Host, Skater: res.Skater}, nil
}

func (m *mockSkaterService) Directory(ctx context.Context) ([]model.DirectoryEntry, error) {
	if m.directoryFn != nil {
		return m.directoryFn(ctx)
	}
	return []model.DirectoryEntry{}, nil
}

func (m *mockSkaterService) ListMedia(ctx context.Context, skaterID int64, filter model.MediaFilter) ([]model.MediaAsset, error) {
	if m.listMediaFn != nil {
		return m.listMediaFn(ctx, skaterID, filter)
	}
	return []model.MediaAsset{}, nil
}

func (m *mockSkaterService) ListTimeline(ctx context.Context, skaterID int64, filter model.YearFilter) ([]model.TimelineEvent, error) {
	if m.listTimelineFn != nil {
		return m.listTimelineFn(ctx, skaterID, filter)
	}
	return []model.TimelineEvent{}, nil
}

func (m *mockSkaterService) ListParts(ctx context.Context, skaterID int64) ([]model.VideoPart, error) {
	if m.listPartsFn != nil {
		return m.listPartsFn(ctx, skaterID)
	}
	return []model.VideoPart{}, nil
}

func (m *mockSkaterService) ListContests(ctx context.Context, skaterID int64, filter model.YearFilter) ([]model.ContestResult, error) {
	if m.listContestsFn != nil {
		return m.listContestsFn(ctx, skaterID, filter)
	}
	return []model.ContestResult{}, nil
}

// failingRenderer は常に描画エラーを返すPageRendererの実装。
type failingRenderer struct{}

var errRender = errors.New("render failed")

func (failingRenderer) Profile(io.Writer, *skater.Profile) error {
	return errRender
}

func (failingRenderer) Directory(io.Writer, []model.DirectoryEntry) error {
	return errRender
}

func (failingRenderer) NotFound(io.Writer, string) error {
	return errRender
}

func (failingRenderer) Error(io.Writer) error {
	return errRender
}

// mockHealthChecker はHealthCheckerのモック実装。
type mockHealthChecker struct {
	pingFn func(ctx context.Context) error
}

func (m *mockHealthChecker) PingContext(ctx context.Context) error {
	if m.pingFn != nil {
		return m.pingFn(ctx)
	}
	return nil
}

// --- テストデータ ---

func strPtr(s string) *string { return &s }

func tonyHawk() *model.Skater {
	return &model.Skater{
		ID:          1,
		Slug:        "tonyhawk",
		FullName:    "Tony Hawk",
		Nickname:    strPtr("Birdman"),
		Hometown:    strPtr("San Diego, CA"),
		Sponsors:    []string{"Birdhouse"},
		SocialLinks: map[string]string{},
		IsActive:    true,
	}
}

// tonyHawkMedia は3件のメディア（1件が注目）を並び順どおりに返す。
func tonyHawkMedia() []model.MediaAsset {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []model.MediaAsset{
		{ID: 3, Type: model.MediaTypeVideo, URL: "https://cdn/900.mp4", IsFeatured: true, CreatedAt: created},
		{ID: 1, Type: model.MediaTypeImage, URL: "https://cdn/1.jpg", CreatedAt: created},
		{ID: 2, Type: model.MediaTypeImage, URL: "https://cdn/2.jpg", CreatedAt: created},
	}
}

// resolveTonyHawk は tonyhawk.bio のみを解決するresolveFnを返す。
func resolveTonyHawk() func(ctx context.Context, rawHost, override string) (skater.Resolution, error) {
	return func(ctx context.Context, rawHost, override string) (skater.Resolution, error) {
		key := host.Normalize(rawHost, override)
		if testRoots.Contains(key) {
			return skater.Resolution{Kind: skater.KindRedirect, Host: key}, nil
		}
		if key == "tonyhawk.bio" {
			return skater.Resolution{Kind: skater.KindFound, Host: key, Skater: tonyHawk()}, nil
		}
		return skater.Resolution{Kind: skater.KindNotFound, Host: key}, nil
	}
}

func newTestRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	r, err := render.New(security.NewContentSanitizer(), render.Options{
		RootHost: "skateboard.bio",
		Now:      func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("render.New() returned error: %v", err)
	}
	return r
}

func newGetRequest(target, hostHeader string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Host = hostHeader
	req.RemoteAddr = "192.0.2.1:1234"
	return req
}
