package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/aulaplay/aulaplay-go/internal/dependencies/clock"
	"github.com/aulaplay/aulaplay-go/internal/dependencies/random"
	"github.com/aulaplay/aulaplay-go/internal/services/attempts"
	"github.com/aulaplay/aulaplay-go/internal/services/auth"
	"github.com/aulaplay/aulaplay-go/internal/services/gameconfig"
	"github.com/aulaplay/aulaplay-go/internal/services/games"
	"github.com/aulaplay/aulaplay-go/internal/services/ranking"
	"github.com/aulaplay/aulaplay-go/internal/services/scores"
	"github.com/aulaplay/aulaplay-go/internal/storage"
	"github.com/aulaplay/aulaplay-go/internal/storage/memory"
	redisstorage "github.com/aulaplay/aulaplay-go/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Validators      *gameconfig.Registry
	AuthService     *auth.Service
	GamesService    *games.Service
	AttemptsService *attempts.Service
	ScoresService   *scores.Service
	RankingService  *ranking.Service
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(store, clk, rnd, cfg.AuthConfig, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, authCfg auth.Config, logger *slog.Logger) *App {
	validators := gameconfig.NewRegistry()

	return &App{
		Storage:         store,
		Clock:           clk,
		Random:          rnd,
		Validators:      validators,
		AuthService:     auth.New(store, clk, rnd, authCfg, logger),
		GamesService:    games.New(store, validators, clk, rnd, logger),
		AttemptsService: attempts.New(store, clk, rnd, logger),
		ScoresService:   scores.New(store, clk, rnd, logger),
		RankingService:  ranking.New(store, clk, logger),
	}
}
