package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/hitoshi/skatebio/internal/config"
	"github.com/hitoshi/skatebio/internal/database"
	"github.com/hitoshi/skatebio/internal/handler"
	"github.com/hitoshi/skatebio/internal/host"
	"github.com/hitoshi/skatebio/internal/logger"
	"github.com/hitoshi/skatebio/internal/metrics"
	"github.com/hitoshi/skatebio/internal/middleware"
	"github.com/hitoshi/skatebio/internal/render"
	"github.com/hitoshi/skatebio/internal/repository"
	"github.com/hitoshi/skatebio/internal/security"
	"github.com/hitoshi/skatebio/internal/skater"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、LOG_LEVELに従ってJSON構造化ログをセットアップする。
// 設定の読み込みに失敗した場合もロガーはInfoレベルで設定済みの状態で返る。
func Init(w io.Writer) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		logger.SetupDefault(w, slog.LevelInfo)
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.SetupDefault(w, logger.ParseLevel(cfg.LogLevel))
	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.Any("root_domains", cfg.RootDomains),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// Server はserveモードで組み立てたHTTPハンドラーとその付随リソース。
type Server struct {
	Handler http.Handler
	Pool    *database.Pool

	limiter *middleware.RateLimiter
}

// Close はバックグラウンドで動作しているリソースを停止する。
func (s *Server) Close() {
	s.limiter.Stop()
}

// NewServer は全依存関係をワイヤリングしてServerを構築する。
// dbはプロセス起動時に1回だけ開いたものを渡し、各リクエストへは参照で共有する。
func NewServer(cfg *config.Config, db *sql.DB, reg *prometheus.Registry, log *slog.Logger) (*Server, error) {
	// 1. メトリクス
	collector := metrics.NewCollector(reg)
	collector.SetBreakerState("closed")

	// 2. スコープ付き接続取得・タイムアウト・サーキットブレーカー
	pool := database.NewPool(db, database.PoolOptions{
		QueryTimeout: cfg.QueryTimeout,
		MaxFailures:  uint32(max(cfg.BreakerMaxFailures, 1)),
		OpenTimeout:  cfg.BreakerOpenTimeout,
		Logger:       log,
		OnStateChange: func(from, to string) {
			collector.SetBreakerState(to)
		},
	})

	// 3. リポジトリ
	repos := skater.Repositories{
		Skaters:  repository.NewPostgresSkaterRepo(pool),
		Media:    repository.NewPostgresMediaRepo(pool),
		Timeline: repository.NewPostgresTimelineRepo(pool),
		Parts:    repository.NewPostgresPartsRepo(pool),
		Contests: repository.NewPostgresContestRepo(pool),
	}

	// 4. ドメインサービス
	roots := host.NewRootSet(cfg.RootDomains)
	service := skater.NewService(repos, roots, collector)

	// 5. HTML描画
	renderer, err := render.New(security.NewContentSanitizer(), render.Options{
		RootHost: primaryRootHost(cfg.RootDomains),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize renderer: %w", err)
	}

	// 6. ルーター
	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfigPerMinute(cfg.RateLimitGeneral))
	router := handler.NewRouter(&handler.RouterDeps{
		Service:        service,
		Renderer:       renderer,
		Health:         pool,
		Logger:         log,
		RateLimiter:    limiter,
		Metrics:        collector,
		MetricsHandler: metrics.Handler(reg),

		TrustProxyHeaders: cfg.TrustProxyHeaders,
	})

	return &Server{
		Handler: router,
		Pool:    pool,
		limiter: limiter,
	}, nil
}

// primaryRootHost はディレクトリへのリンクに使うルートホストを返す。
func primaryRootHost(domains []string) string {
	for _, d := range domains {
		if h := host.Normalize(d, ""); h != "" {
			return h
		}
	}
	return host.DefaultRootDomains[0]
}

// newRegistry はプロセス・Goランタイムのコレクタを登録済みのレジストリを返す。
func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// runServe はHTTPサーバーモードで起動する。
// DB接続を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL, database.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLife,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), cfg.QueryTimeout)
	err = db.PingContext(pingCtx)
	cancelPing()
	if err != nil {
		return fmt.Errorf("failed to connect to database %s: %w", database.MaskURL(cfg.DatabaseURL), err)
	}

	slog.Info("database connection established",
		slog.String("database_url", database.MaskURL(cfg.DatabaseURL)),
	)

	// 2. ワイヤリング
	srv, err := NewServer(cfg, db, newRegistry(), slog.Default())
	if err != nil {
		return err
	}
	defer srv.Close()

	// 3. HTTPサーバーの起動
	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           srv.Handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server listen error: %w", err)
		}
	case <-stop:
	}
	slog.Info("shutting down HTTP server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("HTTP server stopped gracefully")
	return nil
}

// runMigrate は読み取りモデルのスキーマを適用する。
// ローカル環境と結合テスト用で、本番のスキーマは外部の管理下にある。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", database.MaskURL(cfg.DatabaseURL)),
	)

	version, err := database.RunMigrations(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully",
		slog.Uint64("schema_version", uint64(version)),
	)
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}
