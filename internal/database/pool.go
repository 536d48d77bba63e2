package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/hitoshi/skatebio/internal/model"
)

// Querier はリポジトリが必要とする読み取り専用のクエリ操作。
// *sql.Conn と *sql.DB の両方が満たす。
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Runner はスコープ付きで接続を貸し出すインターフェース。
// fnの実行中だけ接続を保持し、戻った時点で必ずプールへ返却する。
type Runner interface {
	Do(ctx context.Context, op string, fn func(ctx context.Context, q Querier) error) error
}

// PoolOptions はPoolの動作設定。
type PoolOptions struct {
	// QueryTimeout は1回のDo呼び出し全体に適用するタイムアウト。
	QueryTimeout time.Duration
	// MaxFailures は連続失敗がこの回数に達するとサーキットを開く。
	MaxFailures uint32
	// OpenTimeout はオープン状態からハーフオープンへ遷移するまでの待ち時間。
	OpenTimeout time.Duration
	// OnStateChange はサーキットの状態遷移時に呼ばれる（nil可）。
	OnStateChange func(from, to string)
	// Logger は状態遷移のログ出力先（nilの場合はslog.Default）。
	Logger *slog.Logger
}

// DefaultPoolOptions はデフォルトのPool設定を返す。
func DefaultPoolOptions() PoolOptions {
	return PoolOptions{
		QueryTimeout: 5 * time.Second,
		MaxFailures:  5,
		OpenTimeout:  30 * time.Second,
	}
}

// Pool はプロセス全体で共有する*sql.DBをラップし、
// リクエストごとのスコープ付き接続取得・タイムアウト・サーキットブレーカーを提供する。
type Pool struct {
	db      *sql.DB
	breaker *gobreaker.CircuitBreaker[struct{}]
	timeout time.Duration
}

// NewPool はPoolを生成する。
func NewPool(db *sql.DB, opts PoolOptions) *Pool {
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = DefaultPoolOptions().QueryTimeout
	}
	if opts.MaxFailures == 0 {
		opts.MaxFailures = DefaultPoolOptions().MaxFailures
	}
	if opts.OpenTimeout <= 0 {
		opts.OpenTimeout = DefaultPoolOptions().OpenTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	maxFailures := opts.MaxFailures
	breaker := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "datastore",
		MaxRequests: 1,
		Timeout:     opts.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: isDatastoreHealthy,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			if opts.OnStateChange != nil {
				opts.OnStateChange(from.String(), to.String())
			}
		},
	})

	return &Pool{
		db:      db,
		breaker: breaker,
		timeout: opts.QueryTimeout,
	}
}

// isDatastoreHealthy はfnの結果がデータストア自体の健全性を損なわないかを判定する。
// クライアント切断によるキャンセル、行のスキーマ不整合、SQLSTATE class 22（データ例外）は
// ブレーカーの失敗として数えない。
func isDatastoreHealthy(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, model.ErrSchemaMismatch) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code.Class() == dataExceptionClass
}

// dataExceptionClass はPostgreSQLのデータ例外（数値範囲外・不正な入力構文など）のSQLSTATEクラス。
const dataExceptionClass = "22"

// Do は接続を1本取得してfnを実行し、終了時に接続を返却する。
// QueryTimeoutを超えた場合やサーキットが開いている場合はエラーを返す。
// opはエラーメッセージに含める操作名。
func (p *Pool) Do(ctx context.Context, op string, fn func(ctx context.Context, q Querier) error) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	_, err := p.breaker.Execute(func() (struct{}, error) {
		conn, err := p.db.Conn(ctx)
		if err != nil {
			return struct{}{}, fmt.Errorf("failed to acquire connection: %w", err)
		}
		defer conn.Close()

		return struct{}{}, fn(ctx, conn)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// PingContext はデータストアへの疎通を確認する。ヘルスチェック用。
func (p *Pool) PingContext(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.db.PingContext(ctx)
}

// State はサーキットブレーカーの現在の状態を返す。
func (p *Pool) State() string {
	return p.breaker.State().String()
}

// compile-time interface check
var _ Runner = (*Pool)(nil)
