package handler

import (
	"context"
	"io"

	"github.com/hitoshi/skatebio/internal/model"
	"github.com/hitoshi/skatebio/internal/skater"
)

// SkaterService はハンドラーが必要とするテナント解決・集約サービスのインターフェース。
// *skater.Service が実装する。
type SkaterService interface {
	// Resolve はHostヘッダー値とオーバーライド値からスケーターを解決する。
	Resolve(ctx context.Context, rawHost, override string) (skater.Resolution, error)
	// IsRoot はHostヘッダー値がプラットフォームのルートドメインかどうかを返す。
	IsRoot(rawHost string) bool
	// Profile は解決済みスケーターのプロフィールを集約する。
	Profile(ctx context.Context, res skater.Resolution) (*skater.Profile, error)
	// Directory は有効なスケーターの一覧を返す。
	Directory(ctx context.Context) ([]model.DirectoryEntry, error)

	ListMedia(ctx context.Context, skaterID int64, filter model.MediaFilter) ([]model.MediaAsset, error)
	ListTimeline(ctx context.Context, skaterID int64, filter model.YearFilter) ([]model.TimelineEvent, error)
	ListParts(ctx context.Context, skaterID int64) ([]model.VideoPart, error)
	ListContests(ctx context.Context, skaterID int64, filter model.YearFilter) ([]model.ContestResult, error)
}

// PageRenderer はHTMLページの描画を行うインターフェース。
// *render.Renderer が実装する。
type PageRenderer interface {
	Profile(w io.Writer, p *skater.Profile) error
	Directory(w io.Writer, entries []model.DirectoryEntry) error
	NotFound(w io.Writer, host string) error
	Error(w io.Writer) error
}

// HealthChecker はデータストアの疎通確認を行うインターフェース。
// *database.Pool が実装する。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// compile-time interface check
var _ SkaterService = (*skater.Service)(nil)
