// Command skatebio はskateboard.bioのマルチテナントプロフィールサーバー。
//
// サブコマンド:
//
//	skatebio [serve]     HTTPサーバーを起動する（デフォルト）
//	skatebio migrate     読み取りモデルのスキーマを適用する
//	skatebio healthcheck 起動中のサーバーの /health を確認する
package main

import (
	"fmt"
	"os"

	"github.com/hitoshi/skatebio/internal/app"
)

func main() {
	if err := app.Run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "skatebio: %v\n", err)
		os.Exit(1)
	}
}
