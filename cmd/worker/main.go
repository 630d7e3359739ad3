package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"pawsconnect/internal/adapter/repo"
	"pawsconnect/internal/infra"
	"pawsconnect/internal/infra/credentials"
	"pawsconnect/internal/notify"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer pool.Close()

	runner := infra.NewSQLRunner(pool, logger)
	tokens := credentials.NewStore(runner)

	expoToken, err := tokens.Resolve(ctx, credentials.ProviderExpo, cfg.ExpoAccessToken)
	if err != nil {
		logger.Warn().Err(err).Msg("worker: failed to load expo token")
	}
	emailKey, err := tokens.Resolve(ctx, credentials.ProviderEmail, cfg.EmailAPIKey)
	if err != nil {
		logger.Warn().Err(err).Msg("worker: failed to load email api key")
	}
	if emailKey == "" {
		logger.Warn().Msg("worker: email api key missing, email jobs will be retried until configured")
	}

	dispatcher := notify.NewDispatcher(
		repo.NewOutboxRepository(runner),
		repo.NewProfileRepository(runner),
		notify.NewRenderer(cfg.DefaultLocale),
		notify.NewExpoPush(cfg.ExpoPushURL, expoToken),
		notify.NewEmailAPI(cfg.EmailAPIURL, emailKey, cfg.EmailFrom),
		repo.NewNotificationRepository(runner),
		logger,
		notify.Options{
			BatchSize:    cfg.OutboxBatchSize,
			MaxAttempts:  cfg.OutboxMaxAttempts,
			PollInterval: cfg.OutboxPollInterval,
		},
	)

	if err := dispatcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("worker: dispatcher stopped")
	}
	logger.Info().Msg("worker stopped")
}
