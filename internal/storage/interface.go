package storage

import (
	"context"
	"time"

	"github.com/aulaplay/aulaplay-go/internal/model"
)

// ScoreQuery narrows a legacy score scan. A nil field means no constraint.
type ScoreQuery struct {
	Since time.Time
	Game  *model.GameID
	Theme *string
}

// Storage defines the interface for data persistence
type Storage interface {
	// User operations
	SaveUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)

	// Game operations. ListGames applies the tenant scope filter before
	// anything else sees the rows.
	SaveGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	DeleteGame(ctx context.Context, id model.GameID) error
	ListGames(ctx context.Context, filter model.ScopeFilter) ([]*model.Game, error)

	// Attempt operations. Attempts are append-only; the per-pair list is
	// returned in arrival order so stats can be rebuilt by replay.
	SaveAttempt(ctx context.Context, attempt *model.GameAttempt) error
	ListAttempts(ctx context.Context, user model.UserID, game model.GameID) ([]*model.GameAttempt, error)

	// Stats operations, one row per (user, game)
	GetStats(ctx context.Context, user model.UserID, game model.GameID) (*model.UserGameStats, error)
	SaveStats(ctx context.Context, stats *model.UserGameStats) error
	ListStatsForUser(ctx context.Context, user model.UserID, filter model.ScopeFilter) ([]*model.UserGameStats, error)
	ListStatsForGame(ctx context.Context, game model.GameID, filter model.ScopeFilter) ([]*model.UserGameStats, error)
	ListStats(ctx context.Context, filter model.ScopeFilter) ([]*model.UserGameStats, error)

	// Legacy score operations. UpsertScore is a single atomic
	// find-by-(user, game, theme), create-or-overwrite: concurrent
	// submissions for the same triple can never produce two rows. The
	// stored row is returned; an overwrite replaces the row wholesale.
	UpsertScore(ctx context.Context, score *model.Score) (*model.Score, error)
	// DeleteScoreDuplicates removes any other rows matching the triple,
	// keeping only keep. Guards against historical duplicates; idempotent.
	DeleteScoreDuplicates(ctx context.Context, key model.ScoreKey, keep model.ScoreID) (int, error)
	ListScores(ctx context.Context, q ScoreQuery) ([]*model.Score, error)
}
