package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"

	"github.com/dukerupert/basket/internal/backend"
	"github.com/dukerupert/basket/internal/config"
	"github.com/dukerupert/basket/internal/database"
	"github.com/dukerupert/basket/internal/email"
	"github.com/dukerupert/basket/internal/logging"
	"github.com/dukerupert/basket/internal/middleware"
	"github.com/dukerupert/basket/internal/receipt"
	"github.com/dukerupert/basket/internal/server"
	"github.com/dukerupert/basket/internal/telemetry"
	"github.com/dukerupert/basket/internal/websocket"
)

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.LogLevel, os.Getenv("BASKET_LOG_FORMAT"))

	if err := run(cfg, logger); err != nil {
		logger.Error("basket stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracing := telemetry.Config{
		ServiceName:  "basket",
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		Insecure:     cfg.Tracing.Insecure,
		Stdout:       cfg.Tracing.Stdout,
	}
	shutdownTracing, err := telemetry.Setup(ctx, tracing)
	if err != nil {
		return fmt.Errorf("set up tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("flush traces", "error", err)
		}
	}()

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Environment,
		}); err != nil {
			return fmt.Errorf("init sentry: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	mailer := email.NewClient(cfg.Postmark.ServerToken, cfg.Postmark.FromEmail, cfg.Postmark.AppURL)
	receipts := receipt.New(receipt.Config{
		Endpoint:  cfg.Receipts.Endpoint,
		Bucket:    cfg.Receipts.Bucket,
		Region:    cfg.Receipts.Region,
		AccessKey: cfg.Receipts.AccessKey,
		SecretKey: cfg.Receipts.SecretKey,
		PublicURL: cfg.Receipts.PublicURL,
	})
	if !mailer.Configured() {
		logger.Warn("postmark not configured, invitations will not be emailed")
	}
	if !receipts.Configured() {
		logger.Warn("receipt storage not configured, uploads are disabled")
	}

	hub := websocket.NewHub(logger.With("component", "hub"))
	svc := backend.New(db, backend.Config{JWTSecret: cfg.JWTSecret, SessionTTL: cfg.SessionTTL},
		backend.WithMailer(mailer),
		backend.WithReceipts(receipts),
		backend.WithNotifier(hub),
		backend.WithLogger(logger),
	)

	var limiter middleware.Limiter
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parse redis url: %w", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, rate limiting fails open until it recovers", "error", err)
		}
		limiter = middleware.NewRedisLimiter(rdb, "", logger)
	}

	srv := server.New(server.Config{
		APIKey:      cfg.APIKey,
		SignInLimit: cfg.SignInLimit,
		Traced:      tracing.Enabled(),
		Sentry:      cfg.SentryDSN != "",
	}, svc, hub, limiter, logger)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go cleanup(ctx, svc, srv.RateLimiter(), logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("basket listening", "addr", httpServer.Addr, "db", cfg.DBPath)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// cleanup purges expired sessions and invitations every hour and drops
// stale in-memory rate limit windows.
func cleanup(ctx context.Context, svc *backend.Service, limiter middleware.Limiter, logger *slog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := svc.PurgeExpired(ctx); err != nil {
				logger.Error("purge expired sessions", "error", err)
			}
			if rl, ok := limiter.(*middleware.RateLimiter); ok {
				rl.Cleanup()
			}
		case <-ctx.Done():
			return
		}
	}
}
