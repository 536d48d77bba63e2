package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/skatebio/internal/database"
	"github.com/hitoshi/skatebio/internal/model"
)

// PostgresMediaRepo はPostgreSQLを使用したメディアリポジトリ。
type PostgresMediaRepo struct {
	db database.Runner
}

// NewPostgresMediaRepo はPostgresMediaRepoを生成する。
func NewPostgresMediaRepo(db database.Runner) *PostgresMediaRepo {
	return &PostgresMediaRepo{db: db}
}

// $2 が空文字の場合は種別で絞り込まない。
const listMediaSQL = `
SELECT id, type, url, title, description, caption, thumbnail_url,
       width, height, duration, file_size, tags, is_featured, sort_order, created_at
FROM media_assets
WHERE skater_id = $1 AND ($2::text = '' OR type = $2::text)
ORDER BY is_featured DESC, sort_order ASC NULLS LAST, created_at DESC, id ASC`

// ListBySkater はメディアを注目素材→表示順→作成日時の降順で取得する。
func (r *PostgresMediaRepo) ListBySkater(ctx context.Context, skaterID int64, filter model.MediaFilter, limit int) ([]model.MediaAsset, error) {
	query := listMediaSQL + limitClause(limit, 3)
	args := withLimit([]any{skaterID, string(filter.Type)}, limit)

	var assets []model.MediaAsset
	err := r.db.Do(ctx, "list media", func(ctx context.Context, q database.Querier) error {
		rows, err := q.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("メディア一覧の取得に失敗しました: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var a model.MediaAsset
			var mediaType string
			var title, description, caption, thumbnail sql.NullString
			var width, height, duration, fileSize, sortOrder sql.NullInt64
			if err := rows.Scan(
				&a.ID, &mediaType, &a.URL, &title, &description, &caption, &thumbnail,
				&width, &height, &duration, &fileSize, pq.Array(&a.Tags),
				&a.IsFeatured, &sortOrder, &a.CreatedAt,
			); err != nil {
				return fmt.Errorf("メディアのスキャンに失敗しました: %w", err)
			}

			a.Type = model.MediaType(mediaType)
			if !a.Type.Valid() {
				return fmt.Errorf("%w: media_assets.type %q", model.ErrSchemaMismatch, mediaType)
			}
			a.Title = nullStringPtr(title)
			a.Description = nullStringPtr(description)
			a.Caption = nullStringPtr(caption)
			a.ThumbnailURL = nullStringPtr(thumbnail)
			a.Width = nullIntPtr(width)
			a.Height = nullIntPtr(height)
			a.Duration = nullIntPtr(duration)
			a.FileSize = nullInt64Ptr(fileSize)
			a.SortOrder = nullIntPtr(sortOrder)
			if a.Tags == nil {
				a.Tags = []string{}
			}
			assets = append(assets, a)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	if assets == nil {
		assets = []model.MediaAsset{}
	}
	return assets, nil
}

// compile-time interface check
var _ MediaRepository = (*PostgresMediaRepo)(nil)
