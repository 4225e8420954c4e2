package scores

import (
	"context"
	"log/slog"
	"time"

	"github.com/aulaplay/aulaplay-go/internal/dependencies/clock"
	"github.com/aulaplay/aulaplay-go/internal/dependencies/random"
	"github.com/aulaplay/aulaplay-go/internal/model"
	"github.com/aulaplay/aulaplay-go/internal/storage"
)

// Service maintains the legacy per-theme score ledger: one current row per
// (user, game, theme), last attempt wins.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// New creates a new scores service
func New(storage storage.Storage, clock clock.Clock, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger,
	}
}

// SubmitInput holds one legacy score submission. CreatedAt defaults to the
// current time when zero; Percentage is derived from Score/MaxScore when
// not supplied.
type SubmitInput struct {
	Score      int
	MaxScore   int
	Percentage int
	Lives      int
	CreatedAt  time.Time
}

// Submit upserts the score row for the triple. The storage upsert is a
// single atomic find-by-key, create-or-overwrite, so concurrent
// submissions for the same triple cannot produce two rows. The duplicate
// cleanup afterwards is defensive, idempotent, and run on every
// submission: it sweeps rows left behind by pre-invariant writers.
func (s *Service) Submit(ctx context.Context, user model.UserID, game model.GameID, theme string, owner *model.TenantID, in SubmitInput) (*model.Score, error) {
	createdAt := in.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.clock.Now()
	}
	percentage := in.Percentage
	if percentage <= 0 {
		percentage = model.Percentage(in.Score, in.MaxScore)
	}

	score := &model.Score{
		ID:         model.ScoreID(s.random.UUID()),
		User:       user,
		Game:       game,
		Theme:      theme,
		Score:      in.Score,
		MaxScore:   in.MaxScore,
		Percentage: percentage,
		Lives:      in.Lives,
		OwnerAdmin: owner,
		CreatedAt:  createdAt,
	}

	stored, err := s.storage.UpsertScore(ctx, score)
	if err != nil {
		s.logger.Error("failed to upsert score",
			slog.String("user_id", string(user)),
			slog.String("game_id", string(game)),
			slog.String("theme", theme),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	deleted, err := s.storage.DeleteScoreDuplicates(ctx, stored.Key(), stored.ID)
	if err != nil {
		// The upsert already holds the invariant for this write; a failed
		// sweep only leaves historical rows for the next submission.
		s.logger.Warn("score duplicate cleanup failed",
			slog.String("user_id", string(user)),
			slog.String("error", err.Error()),
		)
	} else if deleted > 0 {
		s.logger.Info("score duplicates removed",
			slog.String("user_id", string(user)),
			slog.String("game_id", string(game)),
			slog.String("theme", theme),
			slog.Int("deleted", deleted),
		)
	}

	return stored, nil
}
