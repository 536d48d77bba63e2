// Package database はデータベース接続、スコープ付き接続取得、開発用スキーマのマイグレーションを提供する。
package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SchemaVersion は埋め込まれた読み取りモデルスキーマの最新バージョン。
// migrations/ に新しいファイルを追加したら合わせて更新する。
const SchemaVersion uint = 2

// NewMigrator は読み取りモデル（skaters, domains, 各コレクション）用のmigrateインスタンスを生成する。
func NewMigrator(databaseURL string) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded read-model migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect migrator to %s: %w", MaskURL(databaseURL), err)
	}

	return m, nil
}

// RunMigrations は読み取りモデルのスキーマを最新まで適用し、適用後のバージョンを返す。
// 本番スキーマは外部で管理されるため、ローカル環境と統合テストでのみ使用する。
// すでに最新の場合はエラーなしで現在のバージョンを返す。
func RunMigrations(databaseURL string) (uint, error) {
	m, err := NewMigrator(databaseURL)
	if err != nil {
		return 0, err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("failed to apply read-model schema: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("failed to read read-model schema version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("read-model schema is dirty at version %d", version)
	}
	return version, nil
}
