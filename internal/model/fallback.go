package model

import (
	"net/url"
	"strconv"
)

// 画像やドメインが未設定の場合に表示へ用いる既定値。
const (
	DefaultHeaderImageURL = "https://images.unsplash.com/photo-1547447134-cd3f5c716030?w=1200&h=400&fit=crop"
	avatarServiceURL      = "https://ui-avatars.com/api/"
	avatarBackground      = "22c55e"
	avatarColor           = "fff"
)

// アバター画像のサイズ（px）。
const (
	DirectoryAvatarSize = 200
	ProfileAvatarSize   = 400
)

// FallbackAvatarURL は氏名のイニシャルを描画するアバター画像URLを返す。
func FallbackAvatarURL(fullName string, size int) string {
	q := url.Values{}
	q.Set("name", fullName)
	q.Set("background", avatarBackground)
	q.Set("color", avatarColor)
	q.Set("size", strconv.Itoa(size))
	return avatarServiceURL + "?" + q.Encode()
}

// FallbackHost は紐付けドメインがないスケーターの表示用ホストを返す。
func FallbackHost(slug string) string {
	return slug + ".bio"
}
