package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aulaplay/aulaplay-go/internal/model"
	"github.com/aulaplay/aulaplay-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	users         map[model.UserID]*model.User
	usernameIndex map[string]model.UserID
	games         map[model.GameID]*model.Game
	attempts      []*model.GameAttempt
	stats         map[statsKey]*model.UserGameStats
	scores        map[model.ScoreID]*model.Score
}

type statsKey struct {
	user model.UserID
	game model.GameID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		users:         make(map[model.UserID]*model.User),
		usernameIndex: make(map[string]model.UserID),
		games:         make(map[model.GameID]*model.Game),
		stats:         make(map[statsKey]*model.UserGameStats),
		scores:        make(map[model.ScoreID]*model.Score),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	s.usernameIndex[user.Username] = user.ID
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.ID] = game
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	return game, nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
	return nil
}

func (s *Storage) ListGames(ctx context.Context, filter model.ScopeFilter) ([]*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var games []*model.Game
	for _, game := range s.games {
		if filter.Matches(game.OwnerAdmin, game.IsPublished) {
			games = append(games, game)
		}
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
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts = append(s.attempts, attempt)
	return nil
}

func (s *Storage) ListAttempts(ctx context.Context, user model.UserID, game model.GameID) ([]*model.GameAttempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var attempts []*model.GameAttempt
	for _, a := range s.attempts {
		if a.User != nil && *a.User == user && a.Game == game {
			attempts = append(attempts, a)
		}
	}
	return attempts, nil
}

// Stats operations

func (s *Storage) GetStats(ctx context.Context, user model.UserID, game model.GameID) (*model.UserGameStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats, ok := s.stats[statsKey{user, game}]
	if !ok {
		return nil, model.ErrStatsNotFound
	}
	return stats, nil
}

func (s *Storage) SaveStats(ctx context.Context, stats *model.UserGameStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats[statsKey{stats.User, stats.Game}] = stats
	return nil
}

func (s *Storage) ListStatsForUser(ctx context.Context, user model.UserID, filter model.ScopeFilter) ([]*model.UserGameStats, error) {
	return s.listStats(func(st *model.UserGameStats) bool {
		return st.User == user && filter.MatchesOwner(st.OwnerAdmin)
	})
}

func (s *Storage) ListStatsForGame(ctx context.Context, game model.GameID, filter model.ScopeFilter) ([]*model.UserGameStats, error) {
	return s.listStats(func(st *model.UserGameStats) bool {
		return st.Game == game && filter.MatchesOwner(st.OwnerAdmin)
	})
}

func (s *Storage) ListStats(ctx context.Context, filter model.ScopeFilter) ([]*model.UserGameStats, error) {
	return s.listStats(func(st *model.UserGameStats) bool {
		return filter.MatchesOwner(st.OwnerAdmin)
	})
}

func (s *Storage) listStats(match func(*model.UserGameStats) bool) ([]*model.UserGameStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.UserGameStats
	for _, st := range s.stats {
		if match(st) {
			out = append(out, st)
		}
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
	s.mu.Lock()
	defer s.mu.Unlock()
	// Find-and-overwrite under the write lock: the whole operation is
	// atomic, so concurrent submissions for the same triple cannot race
	// into two rows. The new row replaces any existing row for the key.
	key := score.Key()
	for id, existing := range s.scores {
		if existing.Key() == key {
			delete(s.scores, id)
			break
		}
	}
	stored := *score
	s.scores[stored.ID] = &stored
	return &stored, nil
}

func (s *Storage) DeleteScoreDuplicates(ctx context.Context, key model.ScoreKey, keep model.ScoreID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for id, existing := range s.scores {
		if id != keep && existing.Key() == key {
			delete(s.scores, id)
			deleted++
		}
	}
	return deleted, nil
}

func (s *Storage) ListScores(ctx context.Context, q storage.ScoreQuery) ([]*model.Score, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.Score
	for _, sc := range s.scores {
		if !q.Since.IsZero() && sc.CreatedAt.Before(q.Since) {
			continue
		}
		if q.Game != nil && sc.Game != *q.Game {
			continue
		}
		if q.Theme != nil && sc.Theme != *q.Theme {
			continue
		}
		out = append(out, sc)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
