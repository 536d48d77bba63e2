package model

import "time"

// MediaType はメディア素材の種別を表す。
type MediaType string

const (
	// MediaTypeImage は静止画。
	MediaTypeImage MediaType = "image"
	// MediaTypeVideo は動画。
	MediaTypeVideo MediaType = "video"
	// MediaTypeGIF はアニメーションGIF。
	MediaTypeGIF MediaType = "gif"
)

// Valid は既知のメディア種別かどうかを返す。
func (t MediaType) Valid() bool {
	switch t {
	case MediaTypeImage, MediaTypeVideo, MediaTypeGIF:
		return true
	}
	return false
}

// MediaAsset はスケーターに属する写真・動画素材を表す。
type MediaAsset struct {
	ID           int64     `json:"id"`
	Type         MediaType `json:"type"`
	URL          string    `json:"url"`
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	Caption      *string   `json:"caption"`
	ThumbnailURL *string   `json:"thumbnail_url"`
	Width        *int      `json:"width"`
	Height       *int      `json:"height"`
	Duration     *int      `json:"duration"`
	FileSize     *int64    `json:"file_size"`
	Tags         []string  `json:"tags"`
	IsFeatured   bool      `json:"is_featured"`
	SortOrder    *int      `json:"sort_order"`
	CreatedAt    time.Time `json:"created_at"`
}

// TimelineEvent はキャリア年表の1イベントを表す。
type TimelineEvent struct {
	ID          int64     `json:"id"`
	EventDate   Date      `json:"event_date"`
	EventYear   int       `json:"event_year"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	EventType   *string   `json:"event_type"`
	Location    *string   `json:"location"`
	MediaURL    *string   `json:"media_url"`
	SortOrder   *int      `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
}

// VideoPart はビデオパート（映像作品への出演）を表す。
type VideoPart struct {
	ID           int64     `json:"id"`
	VideoName    string    `json:"video_name"`
	VideoCompany *string   `json:"video_company"`
	ReleaseYear  *int      `json:"release_year"`
	ReleaseDate  *Date     `json:"release_date"`
	PartTitle    *string   `json:"part_title"`
	VideoURL     string    `json:"video_url"`
	ThumbnailURL *string   `json:"thumbnail_url"`
	Duration     *int      `json:"duration"`
	IsFeatured   bool      `json:"is_featured"`
	SortOrder    *int      `json:"sort_order"`
	CreatedAt    time.Time `json:"created_at"`
}

// ContestResult はコンテスト成績を表す。
type ContestResult struct {
	ID            int64     `json:"id"`
	ContestName   string    `json:"contest_name"`
	ContestSeries *string   `json:"contest_series"`
	EventType     *string   `json:"event_type"`
	ContestDate   *Date     `json:"contest_date"`
	ContestYear   *int      `json:"contest_year"`
	Location      *string   `json:"location"`
	Placement     *int      `json:"placement"`
	PlacementText *string   `json:"placement_text"`
	PrizeMoney    *float64  `json:"prize_money"`
	Currency      *string   `json:"currency"`
	Notes         *string   `json:"notes"`
	MediaURL      *string   `json:"media_url"`
	CreatedAt     time.Time `json:"created_at"`
}

// MediaFilter はメディア一覧の絞り込み条件。
// Typeが空の場合は全種別を返す。
type MediaFilter struct {
	Type MediaType
}

// YearFilter は年による絞り込み条件。
// Yearがnilの場合は全件を返す。
type YearFilter struct {
	Year *int
}

// プロフィール画面で各コレクションを表示する最大件数。
// APIでは上限を設けない（0 = 無制限）。
const (
	ProfileMediaLimit    = 12
	ProfileTimelineLimit = 10
	ProfilePartsLimit    = 6
	ProfileContestsLimit = 10
	Unlimited            = 0
)
