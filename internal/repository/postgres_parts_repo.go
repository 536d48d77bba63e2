package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/skatebio/internal/database"
	"github.com/hitoshi/skatebio/internal/model"
)

// PostgresPartsRepo はPostgreSQLを使用したビデオパートリポジトリ。
type PostgresPartsRepo struct {
	db database.Runner
}

// NewPostgresPartsRepo はPostgresPartsRepoを生成する。
func NewPostgresPartsRepo(db database.Runner) *PostgresPartsRepo {
	return &PostgresPartsRepo{db: db}
}

const listPartsSQL = `
SELECT id, video_name, video_company, release_year, release_date, part_title,
       video_url, thumbnail_url, duration, is_featured, sort_order, created_at
FROM parts
WHERE skater_id = $1
ORDER BY is_featured DESC, release_date DESC NULLS LAST, sort_order ASC NULLS LAST, id ASC`

// ListBySkater はビデオパートを注目パート→公開日の降順で取得する。
func (r *PostgresPartsRepo) ListBySkater(ctx context.Context, skaterID int64, limit int) ([]model.VideoPart, error) {
	query := listPartsSQL + limitClause(limit, 2)
	args := withLimit([]any{skaterID}, limit)

	var parts []model.VideoPart
	err := r.db.Do(ctx, "list parts", func(ctx context.Context, q database.Querier) error {
		rows, err := q.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("ビデオパートの取得に失敗しました: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var p model.VideoPart
			var company, partTitle, thumbnail sql.NullString
			var releaseYear, duration, sortOrder sql.NullInt64
			var releaseDate sql.NullTime
			if err := rows.Scan(
				&p.ID, &p.VideoName, &company, &releaseYear, &releaseDate, &partTitle,
				&p.VideoURL, &thumbnail, &duration, &p.IsFeatured, &sortOrder, &p.CreatedAt,
			); err != nil {
				return fmt.Errorf("ビデオパートのスキャンに失敗しました: %w", err)
			}

			p.VideoCompany = nullStringPtr(company)
			p.ReleaseYear = nullIntPtr(releaseYear)
			p.ReleaseDate = nullDatePtr(releaseDate)
			p.PartTitle = nullStringPtr(partTitle)
			p.ThumbnailURL = nullStringPtr(thumbnail)
			p.Duration = nullIntPtr(duration)
			p.SortOrder = nullIntPtr(sortOrder)
			parts = append(parts, p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	if parts == nil {
		parts = []model.VideoPart{}
	}
	return parts, nil
}

// compile-time interface check
var _ PartsRepository = (*PostgresPartsRepo)(nil)
