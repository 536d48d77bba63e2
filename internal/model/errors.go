// Package model はドメインモデルを定義する。
package model

import (
	"errors"
	"fmt"
)

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: not_found, validation, rate_limit, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeSkaterNotFound   = "SKATER_NOT_FOUND"
	ErrCodeInvalidYear      = "INVALID_YEAR"
	ErrCodeInvalidMediaType = "INVALID_MEDIA_TYPE"
	ErrCodeInternal         = "INTERNAL_ERROR"
	ErrCodeRateLimited      = "RATE_LIMIT_EXCEEDED"
)

// NewSkaterNotFoundError はホストに紐付くスケーターが存在しない場合のエラーを生成する。
func NewSkaterNotFoundError(host string) *APIError {
	return &APIError{
		Code:     ErrCodeSkaterNotFound,
		Message:  fmt.Sprintf("Skater not found for this domain: %s", host),
		Category: "not_found",
		Action:   "Check the domain name or browse the directory at the root site.",
	}
}

// NewInvalidYearError はyearパラメータが整数として解釈できない場合のエラーを生成する。
func NewInvalidYearError(raw string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidYear,
		Message:  fmt.Sprintf("Invalid year parameter: %q", raw),
		Category: "validation",
		Action:   "Pass a four digit year such as year=2020, or omit the parameter.",
	}
}

// NewInvalidMediaTypeError はtypeパラメータが既知のメディア種別でない場合のエラーを生成する。
func NewInvalidMediaTypeError(raw string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidMediaType,
		Message:  fmt.Sprintf("Invalid media type: %q", raw),
		Category: "validation",
		Action:   "Use one of image, video or gif, or omit the parameter.",
	}
}

// NewInternalError はクライアントに返す汎用の内部エラーを生成する。
// 原因の詳細はログにのみ記録し、レスポンスには含めない。
func NewInternalError() *APIError {
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  "Internal server error",
		Category: "system",
		Action:   "Please try again later.",
	}
}

// NewRateLimitedError はクライアントIPごとのレート制限を超過した場合のエラーを生成する。
func NewRateLimitedError() *APIError {
	return &APIError{
		Code:     ErrCodeRateLimited,
		Message:  "Too many requests",
		Category: "rate_limit",
		Action:   "Wait for the time given in Retry-After and try again.",
	}
}

// ErrSchemaMismatch はデータストアの行が宣言済みの行型に変換できなかったことを示す。
var ErrSchemaMismatch = errors.New("schema mismatch")

// InfrastructureError はデータストアへの到達失敗・クエリ失敗・タイムアウトを表す。
// NotFound（404）とは区別され、常に500として扱われる。
type InfrastructureError struct {
	Op  string // 失敗した操作名（例: "resolve", "media"）
	Err error
}

// Error はerrorインターフェースを実装する。
func (e *InfrastructureError) Error() string {
	return fmt.Sprintf("infrastructure failure during %s: %v", e.Op, e.Err)
}

// Unwrap は原因のエラーを返す。
func (e *InfrastructureError) Unwrap() error {
	return e.Err
}

// NewInfrastructureError は操作名と原因からInfrastructureErrorを生成する。
// errがnilの場合はnilを返す。既にInfrastructureErrorの場合はそのまま返す。
func NewInfrastructureError(op string, err error) error {
	if err == nil {
		return nil
	}
	var infra *InfrastructureError
	if errors.As(err, &infra) {
		return err
	}
	return &InfrastructureError{Op: op, Err: err}
}

// IsInfrastructure はerrがInfrastructureErrorを含むかどうかを返す。
func IsInfrastructure(err error) bool {
	var infra *InfrastructureError
	return errors.As(err, &infra)
}
