// Package model はドメインモデルを定義する。
package model

import (
	"time"
)

// Skater はテナント（プロスケーター）を表す。
// 識別子はIDであり、slugとドメインは別名の検索キーにすぎない。
type Skater struct {
	ID              int64             `json:"id"`
	Slug            string            `json:"slug"`
	FullName        string            `json:"full_name"`
	Nickname        *string           `json:"nickname"`
	Bio             *string           `json:"bio"`
	BirthDate       *Date             `json:"birth_date"`
	Birthplace      *string           `json:"birthplace"`
	Hometown        *string           `json:"hometown"`
	Stance          *string           `json:"stance"`
	TurnedProYear   *int              `json:"turned_pro_year"`
	Sponsors        []string          `json:"sponsors"`
	SocialLinks     map[string]string `json:"social_links"`
	ProfileImageURL *string           `json:"profile_image_url"`
	HeaderImageURL  *string           `json:"header_image_url"`
	IsActive        bool              `json:"is_active"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// DomainBinding はホスト名とスケーターの紐付けを表す。
// 同一ホストに対して有効な紐付けは高々1件（データストア側で保証）。
type DomainBinding struct {
	Host     string
	SkaterID int64
	IsActive bool
}

// DirectoryEntry はトップページの一覧に表示する1件分のスケーター情報。
// DisplayHostとAvatarURLは欠損時のフォールバックを適用済みの値。
type DirectoryEntry struct {
	FullName        string   `json:"full_name"`
	Slug            string   `json:"slug"`
	Nickname        *string  `json:"nickname"`
	Hometown        *string  `json:"hometown"`
	Sponsors        []string `json:"sponsors"`
	ProfileImageURL *string  `json:"profile_image_url"`
	Host            *string  `json:"host"`
	DisplayHost     string   `json:"display_host"`
	AvatarURL       string   `json:"avatar_url"`
}
