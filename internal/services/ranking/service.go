package ranking

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/aulaplay/aulaplay-go/internal/dependencies/clock"
	"github.com/aulaplay/aulaplay-go/internal/model"
	"github.com/aulaplay/aulaplay-go/internal/storage"
)

// Monthly leaderboard limits
const (
	MinLeaderboardLimit = 1
	MaxLeaderboardLimit = 50
)

// Entry is one row of a ranking view
type Entry struct {
	Position       int          `json:"position"`
	User           model.UserID `json:"user"`
	TotalScore     int          `json:"total_score"`
	BestScore      int          `json:"best_score"`
	BestPercentage int          `json:"best_percentage"`
	AttemptsCount  int          `json:"attempts_count"`
	CompletedCount int          `json:"completed_count"`
	LastGame       model.GameID `json:"last_game,omitempty"`
	LastTheme      string       `json:"last_theme,omitempty"`
}

// Service answers leaderboard and stats queries. It is read-only: all
// state lives in the ledger and the stats cache, tenant-scoped by the
// filter callers resolve before aggregation.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new ranking service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// Global groups the stats cache by user, sums scores and attempt counters
// across all games, and ranks by summed total score descending.
func (s *Service) Global(ctx context.Context, filter model.ScopeFilter, limit int) ([]Entry, error) {
	entries, err := s.globalEntries(ctx, filter)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// UserPosition locates the caller in the full global ordering by linear
// scan; there is no pagination shortcut. Returns 0 when the user has no
// stats under the filter.
func (s *Service) UserPosition(ctx context.Context, user model.UserID, filter model.ScopeFilter) (int, error) {
	entries, err := s.globalEntries(ctx, filter)
	if err != nil {
		return 0, err
	}
	for _, e := range entries {
		if e.User == user {
			return e.Position, nil
		}
	}
	return 0, nil
}

func (s *Service) globalEntries(ctx context.Context, filter model.ScopeFilter) ([]Entry, error) {
	stats, err := s.storage.ListStats(ctx, filter)
	if err != nil {
		return nil, err
	}

	byUser := make(map[model.UserID]*Entry)
	var order []model.UserID
	for _, st := range stats {
		e, ok := byUser[st.User]
		if !ok {
			e = &Entry{User: st.User}
			byUser[st.User] = e
			order = append(order, st.User)
		}
		e.TotalScore += st.TotalScore
		e.AttemptsCount += st.AttemptsCount
		e.CompletedCount += st.CompletedCount
		if st.BestScore > e.BestScore {
			e.BestScore = st.BestScore
		}
		if st.BestPercentage > e.BestPercentage {
			e.BestPercentage = st.BestPercentage
		}
	}

	entries := make([]Entry, 0, len(order))
	for _, u := range order {
		entries = append(entries, *byUser[u])
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalScore > entries[j].TotalScore
	})
	for i := range entries {
		entries[i].Position = i + 1
	}
	return entries, nil
}

// ForGame ranks the stats rows of a single game by best score descending
func (s *Service) ForGame(ctx context.Context, game model.GameID, filter model.ScopeFilter, limit int) ([]Entry, error) {
	stats, err := s.storage.ListStatsForGame(ctx, game, filter)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(stats))
	for _, st := range stats {
		entries = append(entries, Entry{
			User:           st.User,
			TotalScore:     st.TotalScore,
			BestScore:      st.BestScore,
			BestPercentage: st.BestPercentage,
			AttemptsCount:  st.AttemptsCount,
			CompletedCount: st.CompletedCount,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].BestScore > entries[j].BestScore
	})
	for i := range entries {
		entries[i].Position = i + 1
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// UserStats returns the caller-visible stats rows of one user
func (s *Service) UserStats(ctx context.Context, user model.UserID, filter model.ScopeFilter) ([]*model.UserGameStats, error) {
	return s.storage.ListStatsForUser(ctx, user, filter)
}

// Monthly builds the legacy-ledger leaderboard for the current calendar
// month: per user the best percentage and best score of the month, the
// attempt count, and the most recently touched game/theme. Ordering is
// best percentage desc, then best score desc, then fewer attempts first
// (ties break in the player's favor). The limit is clamped to [1,50].
func (s *Service) Monthly(ctx context.Context, game *model.GameID, theme *string, limit int) ([]Entry, error) {
	if limit < MinLeaderboardLimit {
		limit = MinLeaderboardLimit
	}
	if limit > MaxLeaderboardLimit {
		limit = MaxLeaderboardLimit
	}

	now := s.clock.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	rows, err := s.storage.ListScores(ctx, storage.ScoreQuery{
		Since: monthStart,
		Game:  game,
		Theme: theme,
	})
	if err != nil {
		return nil, err
	}

	type agg struct {
		entry    Entry
		lastSeen time.Time
	}
	byUser := make(map[model.UserID]*agg)
	var order []model.UserID
	for _, sc := range rows {
		a, ok := byUser[sc.User]
		if !ok {
			a = &agg{entry: Entry{User: sc.User}}
			byUser[sc.User] = a
			order = append(order, sc.User)
		}
		a.entry.AttemptsCount++
		if sc.Percentage > a.entry.BestPercentage {
			a.entry.BestPercentage = sc.Percentage
		}
		if sc.Score > a.entry.BestScore {
			a.entry.BestScore = sc.Score
		}
		if !sc.CreatedAt.Before(a.lastSeen) {
			a.lastSeen = sc.CreatedAt
			a.entry.LastGame = sc.Game
			a.entry.LastTheme = sc.Theme
		}
	}

	entries := make([]Entry, 0, len(order))
	for _, u := range order {
		entries = append(entries, byUser[u].entry)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.BestPercentage != b.BestPercentage {
			return a.BestPercentage > b.BestPercentage
		}
		if a.BestScore != b.BestScore {
			return a.BestScore > b.BestScore
		}
		return a.AttemptsCount < b.AttemptsCount
	})
	for i := range entries {
		entries[i].Position = i + 1
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
