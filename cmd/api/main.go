package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"pawsconnect/internal/adapter/repo"
	"pawsconnect/internal/http/handlers"
	"pawsconnect/internal/http/httpapi"
	"pawsconnect/internal/infra"
	"pawsconnect/internal/infra/credentials"
	"pawsconnect/internal/infra/geoip"
	"pawsconnect/internal/infra/jwks"
	"pawsconnect/internal/middleware"
	"pawsconnect/internal/providers/vision"
	"pawsconnect/internal/storage"
)

func main() {
	// .env is optional outside development
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()
	runner := infra.NewSQLRunner(dbpool, logger)

	rdb, err := infra.NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, using in-process role cache and rate limit")
		rdb = nil
	}
	if rdb != nil {
		defer rdb.Close()
	}

	geo, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}
	defer geo.Close()

	store, err := storage.New(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init storage")
	}

	geminiKey, err := credentials.NewStore(runner).Resolve(ctx, credentials.ProviderGemini, cfg.GeminiAPIKey)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to load gemini key")
	}
	receipts, err := vision.NewGemini(ctx, geminiKey, cfg.GeminiModel)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init receipt ocr")
	}

	profiles := repo.NewProfileRepository(runner)
	roles := middleware.NewRoleCache(profiles, rdb, logger)

	app := &handlers.App{
		Campaigns:     repo.NewCampaignRepository(runner),
		Donations:     repo.NewDonationRepository(runner),
		Adoptions:     repo.NewAdoptionRepository(runner),
		Profiles:      profiles,
		Chat:          repo.NewChatRepository(runner),
		Notifications: repo.NewNotificationRepository(runner),
		Roles:         roles,
		RoleCache:     roles,
		Storage:       store,
		Receipts:      receipts,
		Logger:        logger,
		UploadMax:     cfg.UploadMaxBytes,
		Checks:        map[string]handlers.HealthCheck{"database": dbpool.Ping},
	}
	if rdb != nil {
		app.Checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	rateLimit := middleware.RateLimit(cfg.RateLimitPerMin, time.Minute)
	if rdb != nil {
		rateLimit = middleware.RedisRateLimit(rdb, cfg.RateLimitPerMin, time.Minute, logger)
	}

	opts := httpapi.Options{
		JWTSecret:     cfg.SupabaseJWTSecret,
		CORSOrigins:   cfg.CORSOrigins,
		DefaultLocale: cfg.DefaultLocale,
		CountryLookup: geo.Lookup(),
		RateLimit:     rateLimit,
		Logger:        logger,
	}
	if cfg.SupabaseJWKSURL != "" {
		opts.JWTKeys = jwks.New(cfg.SupabaseJWKSURL)
	}
	if fs, ok := store.(*storage.FileStore); ok {
		opts.StaticDir = fs.BasePath()
	}

	server := infra.NewHTTPServer(cfg, httpapi.NewRouter(app, opts))

	go func() {
		logger.Info().Msgf("API listening on %s", server.Addr())
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
