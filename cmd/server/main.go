package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/aulaplay/aulaplay-go/internal/api"
	"github.com/aulaplay/aulaplay-go/internal/factory"
	"github.com/aulaplay/aulaplay-go/internal/model"
	"github.com/aulaplay/aulaplay-go/internal/services/auth"
	"github.com/aulaplay/aulaplay-go/internal/services/games"
	redisstorage "github.com/aulaplay/aulaplay-go/internal/storage/redis"
)

func main() {
	// Load .env if present; real environments set variables directly
	_ = godotenv.Load()

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	// Build factory config from environment
	cfg := factory.Config{
		AuthConfig: auth.Config{
			JWTSecret:          jwtSecret,
			TokenDuration:      envDuration("TOKEN_DURATION", 24*time.Hour),
			SuperadminUsername: os.Getenv("SUPERADMIN_USERNAME"),
		},
		Logger:      logger,
		StorageType: os.Getenv("STORAGE_TYPE"),
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			logger.Error("REDIS_URL required when STORAGE_TYPE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		cfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Assign rows predating the tenant model a home, when a policy is set
	if policy, ok := backfillPolicy(); ok {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		migrated, err := app.GamesService.Backfill(ctx, policy)
		cancel()
		if err != nil {
			logger.Error("backfill failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("backfill complete", slog.Int("migrated", migrated))
	}

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:          logger,
		AuthService:     app.AuthService,
		GamesService:    app.GamesService,
		AttemptsService: app.AttemptsService,
		ScoresService:   app.ScoresService,
		RankingService:  app.RankingService,
		Validators:      app.Validators,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			logger.Error("invalid PORT", slog.String("value", port))
			os.Exit(1)
		}
		serverConfig.Port = p
	}
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}

// backfillPolicy reads the legacy-row assignment policy from the
// environment. No policy set means no backfill pass at startup.
func backfillPolicy() (games.BackfillPolicy, bool) {
	if os.Getenv("BACKFILL_ASSIGN_PUBLIC") == "true" {
		return games.BackfillPolicy{AssignPublic: true}, true
	}
	if admin := os.Getenv("BACKFILL_DEFAULT_ADMIN"); admin != "" {
		tenant := model.TenantID(admin)
		return games.BackfillPolicy{DefaultAdmin: &tenant}, true
	}
	return games.BackfillPolicy{}, false
}

func envDuration(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}
