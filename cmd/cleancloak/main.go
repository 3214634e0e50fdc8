package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"cleancloak-bot/internal/booking"
	"cleancloak-bot/internal/bot"
	"cleancloak-bot/internal/catalog"
	"cleancloak-bot/internal/config"
	"cleancloak-bot/internal/session"
	"cleancloak-bot/internal/storage"
	"cleancloak-bot/pkg/api"
	"cleancloak-bot/pkg/logger"
	"cleancloak-bot/pkg/redis"
)

// ENTRY POINT

func main() {
	zapLogger, err := logger.New()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	cfg, err := config.Load()
	if err != nil {
		zapLogger.Fatal("Failed to load config", zap.Error(err))
	}

	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	redisClient := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)
	defer redisClient.Close()

	pgStorage, err := storage.NewPostgresStorage(ctx, cfg.Database, redisClient, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to init PostgreSQL storage", zap.Error(err))
	}
	defer pgStorage.Close()

	if err := storage.RunMigrations(ctx, pgStorage.DB(), zapLogger); err != nil {
		zapLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	apiClient := api.NewClient(
		cfg.API.BaseURL,
		cfg.API.GeocodeBaseURL,
		cfg.API.Key,
		cfg.API.RequestTimeout,
		zapLogger,
	)

	cat := catalog.Default()
	sessions := session.NewRedisProvider(redisClient)
	submitter := booking.NewSubmitter(cat, apiClient, sessions, pgStorage, zapLogger)

	tgBot, err := bot.New(
		cat,
		bot.NewStateStorage(redisClient),
		sessions,
		submitter,
		apiClient,
		pgStorage,
		zapLogger,
		cfg,
	)
	if err != nil {
		zapLogger.Fatal("Failed to create bot", zap.Error(err))
	}

	if err := tgBot.Start(ctx); err != nil {
		zapLogger.Fatal("Bot stopped with error", zap.Error(err))
	}

	zapLogger.Info("Bot shutdown gracefully")
}
