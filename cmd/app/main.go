package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"aetv-bot/internal/cache"
	"aetv-bot/internal/catalog"
	"aetv-bot/internal/config"
	"aetv-bot/internal/convo"
	"aetv-bot/internal/httpserver"
	"aetv-bot/internal/logging"
	"aetv-bot/internal/metrics"
	"aetv-bot/internal/notify"
	"aetv-bot/internal/repo"
	"aetv-bot/internal/twilio"
	"aetv-bot/migrations"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.NewLogger(cfg.LogLevel, cfg.AppEnv)
	logger.Info("starting aetv-sales-bot", "env", cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metricRegistry := metrics.Registry(cfg.MetricsNamespace)

	var store repo.Store
	if cfg.DatabaseURL != "" {
		store, err = repo.NewPostgres(ctx, cfg.DatabaseURL, cfg.DatabaseSchema, logger)
	} else {
		logger.Info("no database url configured, using sqlite", "path", cfg.SQLitePath)
		store, err = repo.NewSQLite(ctx, cfg.SQLitePath, logger)
	}
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	defer store.Close()

	if err := store.RunMigrations(ctx, migrations.Files); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrated")

	var redisClient *cache.Redis
	if cfg.RedisAddr != "" {
		redisClient = cache.New(cache.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			UseTLS:   cfg.RedisTLS,
		}, logger)
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("failed closing redis", "error", err)
			}
		}()
		if err := redisClient.Ping(ctx); err != nil {
			logger.Warn("redis ping failed", "error", err)
		}
	}

	twilioClient := twilio.New(twilio.Config{
		BaseURL:    cfg.TwilioBaseURL,
		AccountSID: cfg.TwilioAccountSID,
		AuthToken:  cfg.TwilioAuthToken,
		From:       cfg.TwilioWhatsAppFrom,
		Timeout:    cfg.TwilioTimeout,
	}, logger, metricRegistry)

	var notifier convo.Notifier
	if operatorNotifier := notify.New(twilioClient, cfg.OperatorWhatsAppTo, logger); operatorNotifier != nil {
		notifier = operatorNotifier
	} else {
		logger.Info("operator notifications disabled")
	}

	cat := catalog.New(catalog.PaymentURLs{
		Premium:   cfg.PayURLPremium,
		Executive: cfg.PayURLExecutive,
		Casual:    cfg.PayURLCasual,
		Kids:      cfg.PayURLKids,
	})

	engine := convo.New(store, cat, twilioClient, notifier, redisClient, metricRegistry, logger, convo.EngineConfig{
		DedupeTTL: cfg.DedupeTTL,
	})

	webhookHandler := twilio.NewWebhookHandler(engine, logger, metricRegistry)

	httpSrv := httpserver.New(cfg.HTTPListenAddr, logger, httpserver.Handlers{
		TwilioWebhook: webhookHandler,
	}, cfg.PublicBasePath)
	httpSrv.SetDependencies(httpserver.Dependencies{
		Store: store,
		Redis: redisClient,
	})

	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Start(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	return nil
}
