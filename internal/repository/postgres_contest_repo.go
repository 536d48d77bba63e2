package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/hitoshi/skatebio/internal/database"
	"github.com/hitoshi/skatebio/internal/model"
)

// PostgresContestRepo はPostgreSQLを使用したコンテスト成績リポジトリ。
type PostgresContestRepo struct {
	db database.Runner
}

// NewPostgresContestRepo はPostgresContestRepoを生成する。
func NewPostgresContestRepo(db database.Runner) *PostgresContestRepo {
	return &PostgresContestRepo{db: db}
}

// 開催日が未設定の成績は降順の先頭に来る（PostgreSQLのDESCはNULLS FIRSTが既定）。
const listContestsSQL = `
SELECT id, contest_name, contest_series, event_type, contest_date, contest_year,
       location, placement, placement_text, prize_money, currency, notes, media_url, created_at
FROM contests
WHERE skater_id = $1 AND ($2::integer IS NULL OR contest_year = $2)
ORDER BY contest_date DESC, placement ASC, id ASC`

// ListBySkater はコンテスト成績を開催日の降順、同日内は順位の昇順で取得する。
func (r *PostgresContestRepo) ListBySkater(ctx context.Context, skaterID int64, filter model.YearFilter, limit int) ([]model.ContestResult, error) {
	query := listContestsSQL + limitClause(limit, 3)
	args := withLimit([]any{skaterID, yearArg(filter)}, limit)

	var results []model.ContestResult
	err := r.db.Do(ctx, "list contests", func(ctx context.Context, q database.Querier) error {
		rows, err := q.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("コンテスト成績の取得に失敗しました: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var c model.ContestResult
			var series, eventType, location, placementText, currency, notes, mediaURL sql.NullString
			var contestDate sql.NullTime
			var contestYear, placement sql.NullInt64
			var prize sql.NullFloat64
			if err := rows.Scan(
				&c.ID, &c.ContestName, &series, &eventType, &contestDate, &contestYear,
				&location, &placement, &placementText, &prize, &currency, &notes, &mediaURL, &c.CreatedAt,
			); err != nil {
				return fmt.Errorf("コンテスト成績のスキャンに失敗しました: %w", err)
			}

			c.ContestSeries = nullStringPtr(series)
			c.EventType = nullStringPtr(eventType)
			c.ContestDate = nullDatePtr(contestDate)
			c.ContestYear = nullIntPtr(contestYear)
			c.Location = nullStringPtr(location)
			c.Placement = nullIntPtr(placement)
			c.PlacementText = nullStringPtr(placementText)
			c.PrizeMoney = nullFloatPtr(prize)
			c.Notes = nullStringPtr(notes)
			c.MediaURL = nullStringPtr(mediaURL)
			// CHAR(3)は空白埋めされるため除去する
			if currency.Valid {
				code := strings.TrimSpace(currency.String)
				c.Currency = &code
			}
			results = append(results, c)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []model.ContestResult{}
	}
	return results, nil
}

// compile-time interface check
var _ ContestRepository = (*PostgresContestRepo)(nil)
