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

	"github.com/hitoshi/usersignup/internal/config"
	"github.com/hitoshi/usersignup/internal/database"
	"github.com/hitoshi/usersignup/internal/geocode"
	"github.com/hitoshi/usersignup/internal/handler"
	"github.com/hitoshi/usersignup/internal/logger"
	"github.com/hitoshi/usersignup/internal/metrics"
	"github.com/hitoshi/usersignup/internal/middleware"
	"github.com/hitoshi/usersignup/internal/region"
	"github.com/hitoshi/usersignup/internal/repository"
	"github.com/hitoshi/usersignup/internal/security"
	"github.com/hitoshi/usersignup/internal/user"
)

const dbPingTimeout = 5 * time.Second

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w, slog.LevelInfo)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 3. LOG_LEVELを反映する
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
		slog.String("env", string(cfg.Env)),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe はAPIサーバーモードで起動する。
// DB接続を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := database.Ping(context.Background(), db, dbPingTimeout); err != nil {
		return err
	}

	slog.Info("database connection established")

	// 2. 依存関係のワイヤリング
	router, rateLimiter, err := buildRouter(cfg, db, prometheus.NewRegistry())
	if err != nil {
		return err
	}
	defer rateLimiter.Stop()

	// 3. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-stop:
	case err := <-serveErr:
		return fmt.Errorf("server listen error: %w", err)
	}
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// buildRouter はリポジトリ、ジオコーダ、サービス、ミドルウェアを組み立ててルーターを返す。
// 呼び出し側は返されたRateLimiterのStopを呼ぶこと。
// 全件削除のメンテナンス機能はここでは構築しない。
func buildRouter(cfg *config.Config, db *sql.DB, reg *prometheus.Registry) (http.Handler, *middleware.RateLimiter, error) {
	if err := security.ValidateEndpoint(cfg.GeocoderBaseURL); err != nil {
		return nil, nil, fmt.Errorf("invalid GEOCODER_BASE_URL: %w", err)
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db, "usersignup"),
	)
	collector := metrics.NewCollector(reg)

	userRepo := repository.NewPostgresUserRepo(db)
	geocoder := geocode.NewClient(
		cfg.OpenCageAPIKey,
		cfg.GeocoderBaseURL,
		security.NewOutboundClient(cfg.GeocoderTimeout),
		slog.Default(),
	)
	policy := region.NewPolicy(cfg.SupportedCountries)
	userService := user.NewService(userRepo, geocoder, policy, nil, collector, slog.Default())

	rateLimiter := middleware.NewRateLimiter(middleware.SignupRateLimiterConfig(cfg.RateLimitSignup), nil)

	router := handler.NewRouter(&handler.RouterDeps{
		Logger:            slog.Default(),
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,
		StatusRecorder:    collector,
		HealthChecker:     db,
		MetricsHandler:    metrics.Handler(reg),
		UserService:       userService,
		NameSanitizer:     security.NewNameSanitizer(),
	})

	slog.Info("service wired",
		slog.Any("supported_countries", cfg.SupportedCountries),
		slog.Duration("geocoder_timeout", cfg.GeocoderTimeout),
		slog.Int("rate_limit_signup", cfg.RateLimitSignup),
	)

	return router, rateLimiter, nil
}

// runMigrate はデータベースマイグレーションを実行する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
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

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
