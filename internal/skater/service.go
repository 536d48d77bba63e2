// Package skater はホストからスケーターを解決し、関連コレクションを集約するドメインロジックを提供する。
package skater

import (
	"context"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hitoshi/skatebio/internal/host"
	"github.com/hitoshi/skatebio/internal/model"
	"github.com/hitoshi/skatebio/internal/repository"
)

// Kind は解決結果の種別を表す。
type Kind int

const (
	// KindFound はホストに紐付くスケーターが見つかったことを示す。
	KindFound Kind = iota
	// KindNotFound は有効な紐付けが存在しないことを示す。エラーではない。
	KindNotFound
	// KindRedirect はプラットフォームのルートドメインであり、一覧ページへ誘導すべきことを示す。
	KindRedirect
)

// String はメトリクスやログで使用する種別名を返す。
func (k Kind) String() string {
	switch k {
	case KindFound:
		return "found"
	case KindNotFound:
		return "not_found"
	case KindRedirect:
		return "redirect"
	}
	return "unknown"
}

// Resolution はホスト解決の結果。
// KindFoundの場合のみSkaterが設定される。
type Resolution struct {
	Kind   Kind
	Host   string
	Skater *model.Skater
}

// Profile はプロフィールページに表示する集約済みデータ。
type Profile struct {
	Host     string
	Skater   *model.Skater
	Media    []model.MediaAsset
	Timeline []model.TimelineEvent
	Parts    []model.VideoPart
	Contests []model.ContestResult
}

// Observer は解決結果とコレクション取得を観測するフック。
type Observer interface {
	ObserveResolution(outcome string)
	ObserveFetch(collection string, elapsed time.Duration, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveResolution(string)                  {}
func (nopObserver) ObserveFetch(string, time.Duration, error) {}

// Repositories はServiceが使用する読み取りリポジトリの組。
type Repositories struct {
	Skaters  repository.SkaterRepository
	Media    repository.MediaRepository
	Timeline repository.TimelineRepository
	Parts    repository.PartsRepository
	Contests repository.ContestRepository
}

// Service はテナント解決とコレクション集約のサービス層。
// リクエスト間で共有する可変状態を持たない。
type Service struct {
	repos    Repositories
	roots    *host.RootSet
	observer Observer
}

// NewService はServiceの新しいインスタンスを生成する。
// observerがnilの場合は観測を行わない。
func NewService(repos Repositories, roots *host.RootSet, observer Observer) *Service {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Service{
		repos:    repos,
		roots:    roots,
		observer: observer,
	}
}

// Resolve はHostヘッダー値とオーバーライド値からスケーターを解決する。
// ルートドメインはKindRedirect、紐付けなしはKindNotFoundを返す。
// データストアの障害はInfrastructureErrorとして返す。
func (s *Service) Resolve(ctx context.Context, rawHost, override string) (Resolution, error) {
	key := host.Normalize(rawHost, override)

	if s.roots.Contains(key) {
		s.observer.ObserveResolution(KindRedirect.String())
		return Resolution{Kind: KindRedirect, Host: key}, nil
	}
	if key == "" {
		s.observer.ObserveResolution(KindNotFound.String())
		return Resolution{Kind: KindNotFound, Host: displayHost(rawHost, override)}, nil
	}

	start := time.Now()
	skater, err := s.repos.Skaters.FindByHost(ctx, key)
	s.observer.ObserveFetch("skater", time.Since(start), err)
	if err != nil {
		s.observer.ObserveResolution("error")
		return Resolution{}, model.NewInfrastructureError("resolve", err)
	}
	if skater == nil {
		s.observer.ObserveResolution(KindNotFound.String())
		return Resolution{Kind: KindNotFound, Host: key}, nil
	}

	s.observer.ObserveResolution(KindFound.String())
	return Resolution{Kind: KindFound, Host: key, Skater: skater}, nil
}

// IsRoot は生のHostヘッダー値がプラットフォームのルートドメインかどうかを返す。
func (s *Service) IsRoot(rawHost string) bool {
	return s.roots.Contains(host.Normalize(rawHost, ""))
}

// displayHost は正規化できなかったホストをNotFound表示用に整形する。
func displayHost(rawHost, override string) string {
	if h := strings.TrimSpace(override); h != "" {
		return h
	}
	return strings.TrimSpace(rawHost)
}

// ParseYear はyearクエリパラメータを解釈する。
// 空文字は絞り込みなし、整数として解釈できない値はBadInputエラーを返す。
// 年の列はPostgreSQLのinteger型のため、32bitに収まらない値もBadInputとする。
func ParseYear(raw string) (model.YearFilter, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return model.YearFilter{}, nil
	}
	parsed, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return model.YearFilter{}, model.NewInvalidYearError(raw)
	}
	year := int(parsed)
	return model.YearFilter{Year: &year}, nil
}

// ParseMediaType はtypeクエリパラメータを解釈する。
// 空文字は絞り込みなし、未知の種別はBadInputエラーを返す。
func ParseMediaType(raw string) (model.MediaFilter, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return model.MediaFilter{}, nil
	}
	t := model.MediaType(strings.ToLower(raw))
	if !t.Valid() {
		return model.MediaFilter{}, model.NewInvalidMediaTypeError(raw)
	}
	return model.MediaFilter{Type: t}, nil
}

// ListMedia はスケーターのメディアを件数制限なしで取得する。
func (s *Service) ListMedia(ctx context.Context, skaterID int64, filter model.MediaFilter) ([]model.MediaAsset, error) {
	return s.media(ctx, skaterID, filter, model.Unlimited)
}

// ListTimeline はスケーターの年表を件数制限なしで取得する。
func (s *Service) ListTimeline(ctx context.Context, skaterID int64, filter model.YearFilter) ([]model.TimelineEvent, error) {
	return s.timeline(ctx, skaterID, filter, model.Unlimited)
}

// ListParts はスケーターのビデオパートを件数制限なしで取得する。
func (s *Service) ListParts(ctx context.Context, skaterID int64) ([]model.VideoPart, error) {
	return s.parts(ctx, skaterID, model.Unlimited)
}

// ListContests はスケーターのコンテスト成績を件数制限なしで取得する。
func (s *Service) ListContests(ctx context.Context, skaterID int64, filter model.YearFilter) ([]model.ContestResult, error) {
	return s.contests(ctx, skaterID, filter, model.Unlimited)
}

func (s *Service) media(ctx context.Context, skaterID int64, filter model.MediaFilter, limit int) ([]model.MediaAsset, error) {
	start := time.Now()
	items, err := s.repos.Media.ListBySkater(ctx, skaterID, filter, limit)
	s.observer.ObserveFetch("media", time.Since(start), err)
	if err != nil {
		return nil, model.NewInfrastructureError("media", err)
	}
	return items, nil
}

func (s *Service) timeline(ctx context.Context, skaterID int64, filter model.YearFilter, limit int) ([]model.TimelineEvent, error) {
	start := time.Now()
	items, err := s.repos.Timeline.ListBySkater(ctx, skaterID, filter, limit)
	s.observer.ObserveFetch("timeline", time.Since(start), err)
	if err != nil {
		return nil, model.NewInfrastructureError("timeline", err)
	}
	return items, nil
}

func (s *Service) parts(ctx context.Context, skaterID int64, limit int) ([]model.VideoPart, error) {
	start := time.Now()
	items, err := s.repos.Parts.ListBySkater(ctx, skaterID, limit)
	s.observer.ObserveFetch("parts", time.Since(start), err)
	if err != nil {
		return nil, model.NewInfrastructureError("parts", err)
	}
	return items, nil
}

func (s *Service) contests(ctx context.Context, skaterID int64, filter model.YearFilter, limit int) ([]model.ContestResult, error) {
	start := time.Now()
	items, err := s.repos.Contests.ListBySkater(ctx, skaterID, filter, limit)
	s.observer.ObserveFetch("contests", time.Since(start), err)
	if err != nil {
		return nil, model.NewInfrastructureError("contests", err)
	}
	return items, nil
}

// Profile は解決済みスケーターの4コレクションを並行に取得し、プロフィールに集約する。
// いずれかの取得が失敗した場合は残りをキャンセルし、最初のエラーを返す。
func (s *Service) Profile(ctx context.Context, res Resolution) (*Profile, error) {
	if res.Kind != KindFound || res.Skater == nil {
		return nil, model.NewSkaterNotFoundError(res.Host)
	}

	p := &Profile{Host: res.Host, Skater: res.Skater}
	id := res.Skater.ID

	// 各goroutineは自分専用のフィールドにのみ書き込む
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		p.Media, err = s.media(gctx, id, model.MediaFilter{}, model.ProfileMediaLimit)
		return err
	})
	g.Go(func() error {
		var err error
		p.Timeline, err = s.timeline(gctx, id, model.YearFilter{}, model.ProfileTimelineLimit)
		return err
	})
	g.Go(func() error {
		var err error
		p.Parts, err = s.parts(gctx, id, model.ProfilePartsLimit)
		return err
	})
	g.Go(func() error {
		var err error
		p.Contests, err = s.contests(gctx, id, model.YearFilter{}, model.ProfileContestsLimit)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return p, nil
}

// Directory は有効なスケーターの一覧を返す。
// 紐付けドメインがない場合は "{slug}.bio"、プロフィール画像がない場合は生成アバターを補う。
func (s *Service) Directory(ctx context.Context) ([]model.DirectoryEntry, error) {
	start := time.Now()
	entries, err := s.repos.Skaters.ListDirectory(ctx)
	s.observer.ObserveFetch("directory", time.Since(start), err)
	if err != nil {
		return nil, model.NewInfrastructureError("directory", err)
	}

	for i := range entries {
		e := &entries[i]
		if e.Host != nil && *e.Host != "" {
			e.DisplayHost = *e.Host
		} else {
			e.DisplayHost = model.FallbackHost(e.Slug)
		}
		if e.ProfileImageURL != nil && *e.ProfileImageURL != "" {
			e.AvatarURL = *e.ProfileImageURL
		} else {
			e.AvatarURL = model.FallbackAvatarURL(e.FullName, model.DirectoryAvatarSize)
		}
	}
	return entries, nil
}
