// Package host はリクエストのホスト名からテナント検索キーを導出する。
package host

import (
	"net"
	"strings"

	"golang.org/x/net/idna"
)

// DefaultRootDomains はプラットフォーム自身のルートドメイン（本番とステージング）。
var DefaultRootDomains = []string{"skateboard.bio", "skateboard-bio.pages.dev"}

// Normalize はHostヘッダー値と明示的なオーバーライド値から正規化済みの検索キーを返す。
// overrideが空でなければHostヘッダーより優先する。
//
// 正規化の手順:
//   - 前後の空白を除去し小文字化する
//   - ポート番号を除去する（IPv6リテラルにも対応）
//   - 先頭の "www." と末尾のドットを除去する
//   - IDNA（UTS-46 lookupプロファイル）でASCII形式に変換する
//
// 不正なホスト名の場合は空文字を返す。空キーはリゾルバでNotFoundとして扱われる。
func Normalize(rawHost, override string) string {
	h := strings.TrimSpace(override)
	if h == "" {
		h = strings.TrimSpace(rawHost)
	}
	if h == "" {
		return ""
	}

	h = strings.ToLower(stripPort(h))
	h = strings.TrimPrefix(h, "www.")
	h = strings.TrimSuffix(h, ".")
	if h == "" {
		return ""
	}

	// IPリテラルはIDNA変換の対象外
	if ip := net.ParseIP(h); ip != nil {
		return ip.String()
	}

	ascii, err := idna.Lookup.ToASCII(h)
	if err != nil {
		return ""
	}
	return ascii
}

// stripPort はホスト文字列から ":port" を除去する。
// "[::1]:8080" や "[::1]" のような角括弧付きIPv6リテラルも扱う。
func stripPort(h string) string {
	if strings.HasPrefix(h, "[") {
		if end := strings.IndexByte(h, ']'); end > 0 {
			return h[1:end]
		}
		return ""
	}
	if hostPart, _, err := net.SplitHostPort(h); err == nil {
		return hostPart
	}
	// 角括弧なしのIPv6アドレスはコロンを複数含むためそのまま返す
	if strings.Count(h, ":") == 1 {
		return h[:strings.IndexByte(h, ':')]
	}
	return h
}

// RootSet はプラットフォームのルートドメイン集合。
// ルートドメインへのアクセスはテナントではなくディレクトリへのリダイレクトとして扱う。
type RootSet struct {
	hosts map[string]struct{}
}

// NewRootSet は与えられたドメインを正規化してRootSetを生成する。
// 正規化後に空となる値は無視する。
func NewRootSet(domains []string) *RootSet {
	rs := &RootSet{hosts: make(map[string]struct{}, len(domains))}
	for _, d := range domains {
		if n := Normalize(d, ""); n != "" {
			rs.hosts[n] = struct{}{}
		}
	}
	return rs
}

// Contains は正規化済みホストがルートドメインかどうかを返す。
func (rs *RootSet) Contains(normalized string) bool {
	if rs == nil || normalized == "" {
		return false
	}
	_, ok := rs.hosts[normalized]
	return ok
}
