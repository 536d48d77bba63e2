package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/skatebio/internal/database"
	"github.com/hitoshi/skatebio/internal/model"
)

// PostgresTimelineRepo はPostgreSQLを使用した年表リポジトリ。
type PostgresTimelineRepo struct {
	db database.Runner
}

// NewPostgresTimelineRepo はPostgresTimelineRepoを生成する。
func NewPostgresTimelineRepo(db database.Runner) *PostgresTimelineRepo {
	return &PostgresTimelineRepo{db: db}
}

// $2 がNULLの場合は年で絞り込まない。
const listTimelineSQL = `
SELECT id, event_date, event_year, title, description, event_type, location,
       media_url, sort_order, created_at
FROM timeline
WHERE skater_id = $1 AND ($2::integer IS NULL OR event_year = $2)
ORDER BY event_date DESC, sort_order ASC NULLS LAST, id ASC`

// ListBySkater は年表をイベント日付の降順で取得する。
func (r *PostgresTimelineRepo) ListBySkater(ctx context.Context, skaterID int64, filter model.YearFilter, limit int) ([]model.TimelineEvent, error) {
	query := listTimelineSQL + limitClause(limit, 3)
	args := withLimit([]any{skaterID, yearArg(filter)}, limit)

	var events []model.TimelineEvent
	err := r.db.Do(ctx, "list timeline", func(ctx context.Context, q database.Querier) error {
		rows, err := q.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("年表の取得に失敗しました: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var e model.TimelineEvent
			var eventDate sql.NullTime
			var description, eventType, location, mediaURL sql.NullString
			var sortOrder sql.NullInt64
			if err := rows.Scan(
				&e.ID, &eventDate, &e.EventYear, &e.Title, &description, &eventType,
				&location, &mediaURL, &sortOrder, &e.CreatedAt,
			); err != nil {
				return fmt.Errorf("年表のスキャンに失敗しました: %w", err)
			}
			if !eventDate.Valid {
				return fmt.Errorf("%w: timeline.event_date is null", model.ErrSchemaMismatch)
			}

			e.EventDate = model.DateFromTime(eventDate.Time)
			e.Description = nullStringPtr(description)
			e.EventType = nullStringPtr(eventType)
			e.Location = nullStringPtr(location)
			e.MediaURL = nullStringPtr(mediaURL)
			e.SortOrder = nullIntPtr(sortOrder)
			events = append(events, e)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []model.TimelineEvent{}
	}
	return events, nil
}

// yearArg は年フィルタをクエリ引数に変換する。未指定の場合はNULLを渡す。
func yearArg(filter model.YearFilter) sql.NullInt64 {
	if filter.Year == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*filter.Year), Valid: true}
}

// compile-time interface check
var _ TimelineRepository = (*PostgresTimelineRepo)(nil)
