// Package security はアプリケーションのセキュリティ機能を提供する。
//
// BioSanitizer はスケーターの自己紹介文（管理側で登録される自由記述のHTML）を
// 表示前にサニタイズする。bluemondayの許可リストポリシーで、
// 段落・改行・強調・外部リンクのみを通過させる。
package security

import (
	"html"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// BioSanitizer は自己紹介文のサニタイズ機能のインターフェースを定義する。
type BioSanitizer interface {
	// Sanitize はHTMLをサニタイズして安全なHTMLを返す。
	// 許可タグ（p, br, a, strong, em, b, i）のみを通過させ、
	// script, iframe, style, imgタグおよびon*イベント属性を除去する。
	// aタグのhrefはhttpsスキームのみ許可し、target="_blank"とrel="noopener noreferrer"を付与する。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(rawHTML string) string

	// PlainText はタグをすべて除去した未エスケープのテキストを返す。
	// metaタグやOpenGraphの説明文に使用する。
	PlainText(rawHTML string) string
}

// contentSanitizer はBioSanitizerの実装。
// bluemondayのポリシーはスレッドセーフで、プロセス全体で共有できる。
type contentSanitizer struct {
	policy *bluemonday.Policy
	strict *bluemonday.Policy
}

// NewContentSanitizer はBioSanitizerの新しいインスタンスを生成する。
func NewContentSanitizer() *contentSanitizer {
	p := bluemonday.NewPolicy()

	// script, iframe, style, img等は許可リストに含めないことで除去される
	p.AllowElements("p", "br", "strong", "em", "b", "i")

	p.AllowAttrs("href").OnElements("a")
	p.AllowRelativeURLs(false)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoReferrerOnLinks(true)
	p.AllowURLSchemeWithCustomPolicy("https", func(u *url.URL) bool {
		return u.Host != ""
	})

	strict := bluemonday.StrictPolicy()
	strict.AddSpaceWhenStrippingTag(true)

	return &contentSanitizer{
		policy: p,
		strict: strict,
	}
}

// Sanitize はHTMLをサニタイズして安全なHTMLを返す。
func (s *contentSanitizer) Sanitize(rawHTML string) string {
	return s.policy.Sanitize(rawHTML)
}

// PlainText はタグを除去し、連続する空白を1つにまとめたテキストを返す。
// 戻り値はエスケープされていない文字列で、出力時のエスケープはテンプレートに任せる。
func (s *contentSanitizer) PlainText(rawHTML string) string {
	text := html.UnescapeString(s.strict.Sanitize(rawHTML))
	return strings.Join(strings.Fields(text), " ")
}

// compile-time interface check
var _ BioSanitizer = (*contentSanitizer)(nil)
