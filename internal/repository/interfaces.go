// Package repository はデータストアからの読み取りインターフェースを定義する。
// すべての操作は読み取り専用のパラメータ化クエリで行い、書き込みは持たない。
package repository

import (
	"context"

	"github.com/hitoshi/skatebio/internal/model"
)

// SkaterRepository はスケーターとドメイン紐付けの読み取りインターフェース。
type SkaterRepository interface {
	// FindByHost は正規化済みホストに有効な紐付けを持つスケーターを取得する。
	// 紐付けが存在しない場合はnilを返す（エラーではない）。
	FindByHost(ctx context.Context, host string) (*model.Skater, error)

	// ListDirectory は有効なスケーターを氏名の昇順で全件取得する。
	// 有効なドメイン紐付けがない場合はHostがnilになる。
	ListDirectory(ctx context.Context) ([]model.DirectoryEntry, error)
}

// MediaRepository はメディア素材の読み取りインターフェース。
type MediaRepository interface {
	// ListBySkater は注目素材を先頭にした順序でメディアを取得する。
	// limitが0の場合は件数制限なし。
	ListBySkater(ctx context.Context, skaterID int64, filter model.MediaFilter, limit int) ([]model.MediaAsset, error)
}

// TimelineRepository は年表イベントの読み取りインターフェース。
type TimelineRepository interface {
	// ListBySkater はイベント日付の降順で年表を取得する。
	// limitが0の場合は件数制限なし。
	ListBySkater(ctx context.Context, skaterID int64, filter model.YearFilter, limit int) ([]model.TimelineEvent, error)
}

// PartsRepository はビデオパートの読み取りインターフェース。
type PartsRepository interface {
	// ListBySkater は注目パートを先頭に、公開日の降順でパートを取得する。
	// limitが0の場合は件数制限なし。
	ListBySkater(ctx context.Context, skaterID int64, limit int) ([]model.VideoPart, error)
}

// ContestRepository はコンテスト成績の読み取りインターフェース。
type ContestRepository interface {
	// ListBySkater は開催日の降順、同日内は順位の昇順で成績を取得する。
	// limitが0の場合は件数制限なし。
	ListBySkater(ctx context.Context, skaterID int64, filter model.YearFilter, limit int) ([]model.ContestResult, error)
}
