package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/skatebio/internal/database"
	"github.com/hitoshi/skatebio/internal/model"
)

// PostgresSkaterRepo はPostgreSQLを使用したスケーターリポジトリ。
type PostgresSkaterRepo struct {
	db database.Runner
}

// NewPostgresSkaterRepo はPostgresSkaterRepoを生成する。
func NewPostgresSkaterRepo(db database.Runner) *PostgresSkaterRepo {
	return &PostgresSkaterRepo{db: db}
}

// 同一ホストに有効な紐付けが複数あった場合は最も古い紐付けを採用する。
const findSkaterByHostSQL = `
SELECT s.id, s.slug, s.full_name, s.nickname, s.bio, s.birth_date, s.birthplace,
       s.hometown, s.stance, s.turned_pro_year, s.sponsors, s.social_links,
       s.profile_image_url, s.header_image_url, s.is_active, s.created_at, s.updated_at
FROM domains d
JOIN skaters s ON s.id = d.skater_id
WHERE d.host = $1 AND d.is_active = true
ORDER BY d.id
LIMIT 1`

// FindByHost は正規化済みホストに有効な紐付けを持つスケーターを取得する。
// 見つからない場合はnilを返す。
func (r *PostgresSkaterRepo) FindByHost(ctx context.Context, host string) (*model.Skater, error) {
	if host == "" {
		return nil, nil
	}

	var skater *model.Skater
	err := r.db.Do(ctx, "find skater by host", func(ctx context.Context, q database.Querier) error {
		s := &model.Skater{}
		var nickname, bio, birthplace, hometown, stance, profileImage, headerImage sql.NullString
		var birthDate sql.NullTime
		var turnedPro sql.NullInt64
		var socialLinks []byte

		err := q.QueryRowContext(ctx, findSkaterByHostSQL, host).Scan(
			&s.ID, &s.Slug, &s.FullName, &nickname, &bio, &birthDate, &birthplace,
			&hometown, &stance, &turnedPro, pq.Array(&s.Sponsors), &socialLinks,
			&profileImage, &headerImage, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
		)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("スケーターの取得に失敗しました: %w", err)
		}

		links, err := decodeSocialLinks(socialLinks)
		if err != nil {
			return err
		}

		s.Nickname = nullStringPtr(nickname)
		s.Bio = nullStringPtr(bio)
		s.BirthDate = nullDatePtr(birthDate)
		s.Birthplace = nullStringPtr(birthplace)
		s.Hometown = nullStringPtr(hometown)
		s.Stance = nullStringPtr(stance)
		s.TurnedProYear = nullIntPtr(turnedPro)
		s.SocialLinks = links
		s.ProfileImageURL = nullStringPtr(profileImage)
		s.HeaderImageURL = nullStringPtr(headerImage)
		if s.Sponsors == nil {
			s.Sponsors = []string{}
		}
		skater = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return skater, nil
}

// スケーターごとに最も古い有効な紐付けを1件だけ結合するため、
// 複数ドメインを持つスケーターも一覧に1回だけ現れる。
const listDirectorySQL = `
SELECT s.full_name, s.slug, s.nickname, s.hometown, s.sponsors, s.profile_image_url, d.host
FROM skaters s
LEFT JOIN LATERAL (
    SELECT host FROM domains
    WHERE skater_id = s.id AND is_active = true
    ORDER BY id
    LIMIT 1
) d ON true
WHERE s.is_active = true
ORDER BY s.full_name ASC, s.id ASC`

// ListDirectory は有効なスケーターを氏名の昇順で全件取得する。
func (r *PostgresSkaterRepo) ListDirectory(ctx context.Context) ([]model.DirectoryEntry, error) {
	var entries []model.DirectoryEntry
	err := r.db.Do(ctx, "list directory", func(ctx context.Context, q database.Querier) error {
		rows, err := q.QueryContext(ctx, listDirectorySQL)
		if err != nil {
			return fmt.Errorf("スケーター一覧の取得に失敗しました: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var e model.DirectoryEntry
			var nickname, hometown, profileImage, host sql.NullString
			if err := rows.Scan(
				&e.FullName, &e.Slug, &nickname, &hometown,
				pq.Array(&e.Sponsors), &profileImage, &host,
			); err != nil {
				return fmt.Errorf("スケーター一覧のスキャンに失敗しました: %w", err)
			}
			e.Nickname = nullStringPtr(nickname)
			e.Hometown = nullStringPtr(hometown)
			e.ProfileImageURL = nullStringPtr(profileImage)
			e.Host = nullStringPtr(host)
			if e.Sponsors == nil {
				e.Sponsors = []string{}
			}
			entries = append(entries, e)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []model.DirectoryEntry{}
	}
	return entries, nil
}

// compile-time interface check
var _ SkaterRepository = (*PostgresSkaterRepo)(nil)
