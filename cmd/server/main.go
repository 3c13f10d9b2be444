package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/t1112000/seatly-fe/internal/apiclient"
	"github.com/t1112000/seatly-fe/internal/config"
	"github.com/t1112000/seatly-fe/internal/database"
	"github.com/t1112000/seatly-fe/internal/handler"
	"github.com/t1112000/seatly-fe/internal/middleware"
	"github.com/t1112000/seatly-fe/internal/pkg/logger"
	"github.com/t1112000/seatly-fe/internal/pkg/metrics"
	"github.com/t1112000/seatly-fe/internal/queue"
	"github.com/t1112000/seatly-fe/internal/repository"
	"github.com/t1112000/seatly-fe/internal/router"
	"github.com/t1112000/seatly-fe/internal/service"
	"github.com/t1112000/seatly-fe/internal/worker"
	"github.com/t1112000/seatly-fe/internal/workspace"
)

func main() {
	// .env is optional; the process environment wins when both are set
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Set(logger.NewLogger(cfg.Env))
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb == nil {
		logger.Warn("redis unavailable, rate limiting disabled")
	} else {
		defer rdb.Close()
	}

	pub, closeLedger := startLedger(ctx, cfg.Ledger)
	defer closeLedger()

	store := workspace.NewStore(func() (apiclient.Transport, error) {
		return apiclient.New(cfg.BackendBaseURL, cfg.BackendTimeout)
	}, cfg.HistoryPageSize)

	e := newEcho(cfg, rdb, m, handler.NewPortalHandler(store, pub, m, cfg.IsProduction()))

	sweeper := worker.NewWorkspaceSweeper(store, cfg.WorkspaceIdleTTL, cfg.SweepInterval, m.Workspaces)
	go sweeper.Start(ctx)

	go func() {
		addr := ":" + cfg.Port
		logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env), zap.String("backend", cfg.BackendBaseURL))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

func newEcho(cfg config.Config, rdb *redis.Client, m *metrics.Metrics, h *handler.PortalHandler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.HTTPErrorHandler

	e.Use(echomw.Recover())
	e.Use(middleware.RequestIDMiddleware())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Prometheus(m))

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterMetrics(e, nil, cfg.MetricsUser, cfg.MetricsPassword)
	router.RegisterPortal(e, h, router.PortalOptions{
		SessionSecret:   cfg.SessionSecret,
		SessionTTL:      cfg.SessionTTL,
		SecureCookies:   cfg.IsProduction(),
		LoginLimiter:    limiter,
		CheckoutLimiter: limiter,
	})
	return e
}

// startLedger opens the outcome ledger when it is enabled: a consumer
// writing booking.resolved events into MySQL and a publisher feeding it.  A
// ledger that cannot start is logged and replaced by a no-op publisher.
func startLedger(ctx context.Context, cfg config.LedgerConfig) (service.OutcomePublisher, func()) {
	if !cfg.Enabled {
		return service.NoopPublisher{}, func() {}
	}

	db, err := database.Open(ctx, cfg)
	if err != nil {
		logger.Error("outcome ledger disabled", zap.Error(err))
		return service.NoopPublisher{}, func() {}
	}

	repo := repository.NewOutcomeRepo(db)
	go func() {
		if err := queue.StartOutcomeConsumer(ctx, cfg.AMQPURL, cfg.Queue, repo); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("outcome consumer stopped", zap.Error(err))
		}
	}()

	return service.NewAMQPPublisher(cfg.AMQPURL, cfg.Queue), func() { closeDB(db) }
}

func closeDB(db *sql.DB) {
	if err := db.Close(); err != nil {
		logger.Warn("close ledger db", zap.Error(err))
	}
}
