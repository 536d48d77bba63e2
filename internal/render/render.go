// Package render はプロフィール・ディレクトリ・エラーページのHTMLを生成する。
// テンプレートはバイナリに埋め込み、起動時に1回だけ解析する。
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"sort"
	"time"

	"github.com/hitoshi/skatebio/internal/model"
	"github.com/hitoshi/skatebio/internal/security"
	"github.com/hitoshi/skatebio/internal/skater"
)

//go:embed templates/*.html
var templateFS embed.FS

// ページ名。layout.htmlと組み合わせて個別のテンプレートセットとして解析する。
const (
	pageProfile   = "profile.html"
	pageDirectory = "directory.html"
	pageNotFound  = "notfound.html"
	pageError     = "error.html"
)

// ogDescriptionMaxRunes はOpenGraph説明文の最大文字数。
const ogDescriptionMaxRunes = 160

// Options はRendererの設定。
type Options struct {
	// RootHost はディレクトリへのリンク先ホスト（例: "skateboard.bio"）。
	RootHost string
	// Now は年齢計算に使用する現在時刻（nilの場合はtime.Now）。
	Now func() time.Time
}

// Renderer はHTMLページを生成する。
// 解析済みテンプレートは読み取り専用で、複数goroutineから同時に使用できる。
type Renderer struct {
	pages     map[string]*template.Template
	sanitizer security.BioSanitizer
	rootURL   string
	now       func() time.Time
}

// New はRendererを生成する。テンプレートの解析に失敗した場合はエラーを返す。
func New(sanitizer security.BioSanitizer, opts Options) (*Renderer, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	rootHost := opts.RootHost
	if rootHost == "" {
		rootHost = "skateboard.bio"
	}

	pages := make(map[string]*template.Template)
	for _, name := range []string{pageProfile, pageDirectory, pageNotFound, pageError} {
		t, err := template.New(name).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("テンプレート %s の解析に失敗しました: %w", name, err)
		}
		pages[name] = t
	}

	return &Renderer{
		pages:     pages,
		sanitizer: sanitizer,
		rootURL:   "https://" + rootHost,
		now:       opts.Now,
	}, nil
}

func (r *Renderer) execute(w io.Writer, page string, data any) error {
	if err := r.pages[page].ExecuteTemplate(w, "layout", data); err != nil {
		return fmt.Errorf("%s の描画に失敗しました: %w", page, err)
	}
	return nil
}

// Profile はスケーターのプロフィールページを描画する。
func (r *Renderer) Profile(w io.Writer, p *skater.Profile) error {
	return r.execute(w, pageProfile, r.profileView(p))
}

// Directory はスケーター一覧ページを描画する。
func (r *Renderer) Directory(w io.Writer, entries []model.DirectoryEntry) error {
	return r.execute(w, pageDirectory, r.directoryView(entries))
}

// NotFound はホストに紐付くスケーターがいない場合のページを描画する。
func (r *Renderer) NotFound(w io.Writer, host string) error {
	return r.execute(w, pageNotFound, notFoundView{
		Title:   "Skater Not Found - " + host,
		Host:    host,
		RootURL: r.rootURL,
	})
}

// Error は内部エラー時の汎用ページを描画する。原因の詳細は含めない。
func (r *Renderer) Error(w io.Writer) error {
	return r.execute(w, pageError, errorView{
		Title:   "Error - Skateboard.bio",
		RootURL: r.rootURL,
	})
}

// --- ビューモデル ---

type notFoundView struct {
	Title   string
	Host    string
	RootURL string
}

type errorView struct {
	Title   string
	RootURL string
}

type profileView struct {
	Title           string
	MetaDescription string
	OGTitle         string
	OGDescription   string
	OGImage         string
	OGURL           string
	RootURL         string

	FullName    string
	Nickname    string
	HeaderImage string
	Avatar      string
	Hometown    string
	Age         int
	HasAge      bool
	Stance      string
	TurnedPro   int
	Bio         template.HTML

	Sponsors []string
	Media    []mediaView
	Parts    []partView
	Timeline []timelineView
	Contests []contestView
	Social   []socialView
}

type mediaView struct {
	Src     string
	Alt     string
	Caption string
	IsVideo bool
}

type partView struct {
	Name      string
	Company   string
	Year      int
	Thumbnail string
	URL       string
}

type timelineView struct {
	Title       string
	Year        int
	Description string
	Location    string
	EventType   string
}

type contestView struct {
	Name     string
	Year     string
	Location string
	Place    string
	Tier     string
	Prize    string
}

type socialView struct {
	Platform string
	Label    string
	URL      string
}

type directoryView struct {
	Title   string
	Count   int
	RootURL string
	Cards   []directoryCard
}

type directoryCard struct {
	Href         string
	Name         string
	Nickname     string
	Hometown     string
	Avatar       string
	Sponsors     []string
	MoreSponsors int
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (r *Renderer) profileView(p *skater.Profile) profileView {
	s := p.Skater
	v := profileView{
		FullName:    s.FullName,
		Nickname:    deref(s.Nickname),
		Hometown:    deref(s.Hometown),
		HeaderImage: model.DefaultHeaderImageURL,
		Avatar:      model.FallbackAvatarURL(s.FullName, model.ProfileAvatarSize),
		OGURL:       "https://" + p.Host,
		RootURL:     r.rootURL,
		Sponsors:    s.Sponsors,
	}

	v.Title = s.FullName
	if v.Nickname != "" {
		v.Title += ` "` + v.Nickname + `"`
	}
	v.Title += " - Professional Skateboarder"
	v.OGTitle = s.FullName + " - Professional Skateboarder"

	if s.HeaderImageURL != nil && *s.HeaderImageURL != "" {
		v.HeaderImage = *s.HeaderImageURL
	}
	if s.ProfileImageURL != nil && *s.ProfileImageURL != "" {
		v.Avatar = *s.ProfileImageURL
	}
	v.OGImage = v.Avatar

	if s.BirthDate != nil {
		v.Age = Age(*s.BirthDate, r.now())
		v.HasAge = true
	}
	if s.Stance != nil && *s.Stance != "" {
		v.Stance = Capitalize(*s.Stance)
	}
	if s.TurnedProYear != nil {
		v.TurnedPro = *s.TurnedProYear
	}

	plainBio := ""
	if s.Bio != nil && *s.Bio != "" {
		// サニタイズ済みのHTMLのみtemplate.HTMLとして扱う
		v.Bio = template.HTML(r.sanitizer.Sanitize(*s.Bio))
		plainBio = r.sanitizer.PlainText(*s.Bio)
	}
	if plainBio != "" {
		v.MetaDescription = plainBio
	} else {
		v.MetaDescription = s.FullName + " is a professional skateboarder"
		if v.Hometown != "" {
			v.MetaDescription += " from " + v.Hometown
		}
		v.MetaDescription += "."
	}
	v.OGDescription = truncateRunes(plainBio, ogDescriptionMaxRunes)

	for _, m := range p.Media {
		mv := mediaView{
			Src:     m.URL,
			Alt:     "Media",
			Caption: deref(m.Caption),
			IsVideo: m.Type == model.MediaTypeVideo,
		}
		if mv.IsVideo && m.ThumbnailURL != nil && *m.ThumbnailURL != "" {
			mv.Src = *m.ThumbnailURL
		}
		if m.Title != nil && *m.Title != "" {
			mv.Alt = *m.Title
		}
		v.Media = append(v.Media, mv)
	}

	for _, part := range p.Parts {
		pv := partView{
			Name:      part.VideoName,
			Company:   deref(part.VideoCompany),
			Thumbnail: deref(part.ThumbnailURL),
			URL:       part.VideoURL,
		}
		if part.ReleaseYear != nil {
			pv.Year = *part.ReleaseYear
		}
		v.Parts = append(v.Parts, pv)
	}

	for _, e := range p.Timeline {
		tv := timelineView{
			Title:       e.Title,
			Year:        e.EventYear,
			Description: deref(e.Description),
			Location:    deref(e.Location),
		}
		if e.EventType != nil {
			tv.EventType = Capitalize(*e.EventType)
		}
		v.Timeline = append(v.Timeline, tv)
	}

	for _, c := range p.Contests {
		cv := contestView{
			Name:     c.ContestName,
			Year:     "-",
			Location: "-",
			Place:    PlacementLabel(c.Placement, c.PlacementText),
			Tier:     PlacementTier(c.Placement),
			Prize:    "-",
		}
		if c.ContestYear != nil {
			cv.Year = fmt.Sprint(*c.ContestYear)
		}
		if c.Location != nil && *c.Location != "" {
			cv.Location = *c.Location
		}
		if c.PrizeMoney != nil && *c.PrizeMoney > 0 {
			cv.Prize = FormatMoney(*c.PrizeMoney, deref(c.Currency))
		}
		v.Contests = append(v.Contests, cv)
	}

	// マップの走査順は不定なのでプラットフォーム名でソートする
	platforms := make([]string, 0, len(s.SocialLinks))
	for platform := range s.SocialLinks {
		platforms = append(platforms, platform)
	}
	sort.Strings(platforms)
	for _, platform := range platforms {
		v.Social = append(v.Social, socialView{
			Platform: platform,
			Label:    Capitalize(platform),
			URL:      s.SocialLinks[platform],
		})
	}

	return v
}

func (r *Renderer) directoryView(entries []model.DirectoryEntry) directoryView {
	v := directoryView{
		Title:   "Skateboard.bio - Directory of Professional Skateboarders",
		Count:   len(entries),
		RootURL: r.rootURL,
	}
	for _, e := range entries {
		card := directoryCard{
			Href:     "https://" + e.DisplayHost,
			Name:     e.FullName,
			Nickname: deref(e.Nickname),
			Hometown: deref(e.Hometown),
			Avatar:   e.AvatarURL,
		}
		if len(e.Sponsors) > 2 {
			card.Sponsors = e.Sponsors[:2]
			card.MoreSponsors = len(e.Sponsors) - 2
		} else {
			card.Sponsors = e.Sponsors
		}
		v.Cards = append(v.Cards, card)
	}
	return v
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
