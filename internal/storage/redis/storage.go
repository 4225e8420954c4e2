package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aulaplay/aulaplay-go/internal/model"
	"github.com/aulaplay/aulaplay-go/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	// Pipeline for atomic save + username index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, userKey(user.ID), data, 0)
	pipe.Set(ctx, usernameIndexKey(user.Username), string(user.ID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	data, err := s.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	idStr, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	return s.GetUser(ctx, model.UserID(idStr))
}

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, gameKey(game.ID), data, 0)
	pipe.SAdd(ctx, gamesIndexKey(), gameKey(game.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	data, err := s.client.Get(ctx, gameKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}

	var game model.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, gameKey(id))
	pipe.SRem(ctx, gamesIndexKey(), gameKey(id))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) ListGames(ctx context.Context, filter model.ScopeFilter) ([]*model.Game, error) {
	var games []*model.Game
	err := s.scanIndex(ctx, gamesIndexKey(), func(data []byte) error {
		var game model.Game
		if err := json.Unmarshal(data, &game); err != nil {
			return err
		}
		if filter.Matches(game.OwnerAdmin, game.IsPublished) {
			games = append(games, &game)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(games, func(i, j int) bool {
		if games[i].Order != games[j].Order {
			return games[i].Order < games[j].Order
		}
		return games[i].ID < games[j].ID
	})
	return games, nil
}

// Attempt operations

func (s *Storage) SaveAttempt(ctx context.Context, attempt *model.GameAttempt) error {
	data, err := json.Marshal(attempt)
	if err != nil {
		return err
	}

	var ttl time.Duration
	if attempt.User == nil {
		ttl = s.cfg.AnonymousAttemptTTL
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, attemptKey(attempt.ID), data, ttl)
	if attempt.User != nil {
		// RPush keeps the per-pair list in arrival order for replay
		pipe.RPush(ctx, attemptsIndexKey(*attempt.User, attempt.Game), attemptKey(attempt.ID))
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) ListAttempts(ctx context.Context, user model.UserID, game model.GameID) ([]*model.GameAttempt, error) {
	keys, err := s.client.LRange(ctx, attemptsIndexKey(user, game), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	attempts := make([]*model.GameAttempt, 0, len(values))
	for _, v := range values {
		str, ok := v.(string)
		if !ok {
			continue // expired or deleted row
		}
		var attempt model.GameAttempt
		if err := json.Unmarshal([]byte(str), &attempt); err != nil {
			return nil, err
		}
		attempts = append(attempts, &attempt)
	}
	return attempts, nil
}

// Stats operations

func (s *Storage) GetStats(ctx context.Context, user model.UserID, game model.GameID) (*model.UserGameStats, error) {
	data, err := s.client.Get(ctx, statsKey(user, game)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrStatsNotFound
		}
		return nil, err
	}

	var stats model.UserGameStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *Storage) SaveStats(ctx context.Context, stats *model.UserGameStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, statsKey(stats.User, stats.Game), data, 0)
	pipe.SAdd(ctx, statsIndexKey(), statsKey(stats.User, stats.Game))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) ListStatsForUser(ctx context.Context, user model.UserID, filter model.ScopeFilter) ([]*model.UserGameStats, error) {
	return s.listStats(ctx, func(st *model.UserGameStats) bool {
		return st.User == user && filter.MatchesOwner(st.OwnerAdmin)
	})
}

func (s *Storage) ListStatsForGame(ctx context.Context, game model.GameID, filter model.ScopeFilter) ([]*model.UserGameStats, error) {
	return s.listStats(ctx, func(st *model.UserGameStats) bool {
		return st.Game == game && filter.MatchesOwner(st.OwnerAdmin)
	})
}

func (s *Storage) ListStats(ctx context.Context, filter model.ScopeFilter) ([]*model.UserGameStats, error) {
	return s.listStats(ctx, func(st *model.UserGameStats) bool {
		return filter.MatchesOwner(st.OwnerAdmin)
	})
}

func (s *Storage) listStats(ctx context.Context, match func(*model.UserGameStats) bool) ([]*model.UserGameStats, error) {
	var out []*model.UserGameStats
	err := s.scanIndex(ctx, statsIndexKey(), func(data []byte) error {
		var st model.UserGameStats
		if err := json.Unmarshal(data, &st); err != nil {
			return err
		}
		if match(&st) {
			out = append(out, &st)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].User != out[j].User {
			return out[i].User < out[j].User
		}
		return out[i].Game < out[j].Game
	})
	return out, nil
}

// Legacy score operations

func (s *Storage) UpsertScore(ctx context.Context, score *model.Score) (*model.Score, error) {
	data, err := json.Marshal(score)
	if err != nil {
		return nil, err
	}

	// The row key is derived from the uniqueness triple, so the single SET
	// is the whole atomic find-and-upsert: it either creates the one row
	// for the triple or overwrites it in place.
	key := scoreKey(score.Key())
	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, scoresIndexKey(), key)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	stored := *score
	return &stored, nil
}

func (s *Storage) DeleteScoreDuplicates(ctx context.Context, key model.ScoreKey, keep model.ScoreID) (int, error) {
	// The triple-derived keyspace cannot hold two rows for the same key,
	// so there is never anything to clean up here. The call stays in the
	// interface because backends that store rows by id can accumulate
	// historical duplicates.
	return 0, nil
}

func (s *Storage) ListScores(ctx context.Context, q storage.ScoreQuery) ([]*model.Score, error) {
	var out []*model.Score
	err := s.scanIndex(ctx, scoresIndexKey(), func(data []byte) error {
		var sc model.Score
		if err := json.Unmarshal(data, &sc); err != nil {
			return err
		}
		if !q.Since.IsZero() && sc.CreatedAt.Before(q.Since) {
			return nil
		}
		if q.Game != nil && sc.Game != *q.Game {
			return nil
		}
		if q.Theme != nil && sc.Theme != *q.Theme {
			return nil
		}
		out = append(out, &sc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// scanIndex fetches every row referenced by an index set and invokes fn on
// the raw payloads. Rows that have expired since being indexed are skipped.
func (s *Storage) scanIndex(ctx context.Context, indexKey string, fn func([]byte) error) error {
	keys, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return err
	}

	for _, v := range values {
		str, ok := v.(string)
		if !ok {
			continue
		}
		if err := fn([]byte(str)); err != nil {
			return err
		}
	}
	return nil
}
