package attempts

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aulaplay/aulaplay-go/internal/dependencies/clock"
	"github.com/aulaplay/aulaplay-go/internal/dependencies/random"
	"github.com/aulaplay/aulaplay-go/internal/model"
	"github.com/aulaplay/aulaplay-go/internal/services/scope"
	"github.com/aulaplay/aulaplay-go/internal/storage"
)

// Service is the attempt ledger and the aggregate statistics maintainer.
// Attempts are the durable source of truth; UserGameStats is a best-effort
// incrementally maintained cache over them.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// New creates a new attempts service
func New(storage storage.Storage, clock clock.Clock, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger,
	}
}

// RecordInput holds one play event
type RecordInput struct {
	Score           int
	MaxScore        int
	Completed       bool
	DurationSeconds int
	Metadata        map[string]any
}

// Record appends a play attempt for a game the caller can see. A nil
// principal records an anonymous attempt with no tenant attached.
//
// When a user is attached, the stats fold runs synchronously after the
// attempt write. The two are not transactional: a fold failure is logged
// and the attempt is still returned, because aggregate freshness never
// outranks attempt durability.
func (s *Service) Record(ctx context.Context, gameID model.GameID, p *model.Principal, in RecordInput) (*model.GameAttempt, error) {
	game, err := s.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if !scope.CanView(p, game) && !scope.CanManage(p, game) {
		return nil, model.ErrGameNotFound
	}

	var user *model.UserID
	var owner *model.TenantID
	if p != nil {
		u := p.UserID
		user = &u
		owner = p.OwnerAdmin
	}

	attempt := &model.GameAttempt{
		ID:              model.AttemptID(s.random.UUID()),
		Game:            gameID,
		User:            user,
		Score:           in.Score,
		MaxScore:        in.MaxScore,
		Percentage:      model.Percentage(in.Score, in.MaxScore),
		Completed:       in.Completed,
		DurationSeconds: in.DurationSeconds,
		Metadata:        in.Metadata,
		OwnerAdmin:      owner,
		CreatedAt:       s.clock.Now(),
	}

	if err := s.storage.SaveAttempt(ctx, attempt); err != nil {
		s.logger.Error("failed to save attempt",
			slog.String("game_id", string(gameID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	if user != nil {
		if err := s.applyToStats(ctx, attempt); err != nil {
			// The attempt is durable; the cache catches up on the next
			// fold or a rebuild.
			s.logger.Warn("stats update failed after attempt write",
				slog.String("user_id", string(*user)),
				slog.String("game_id", string(gameID)),
				slog.String("error", err.Error()),
			)
		}
	}

	return attempt, nil
}

// applyToStats folds one attempt into the (user, game) aggregate, creating
// a zeroed row on first play. The re-read before writing keeps the fold
// safe to retry; concurrent folds for the same pair may still lose an
// update, an accepted limitation of the cache.
func (s *Service) applyToStats(ctx context.Context, attempt *model.GameAttempt) error {
	stats, err := s.storage.GetStats(ctx, *attempt.User, attempt.Game)
	if err != nil {
		if !errors.Is(err, model.ErrStatsNotFound) {
			return err
		}
		stats = model.NewUserGameStats(*attempt.User, attempt.Game, attempt.OwnerAdmin)
	}

	stats.Fold(attempt, s.clock.Now())
	return s.storage.SaveStats(ctx, stats)
}

// Rebuild regenerates the stats row for a (user, game) pair by replaying
// its attempt stream through the same fold, for reconciliation when the
// cache is suspected inconsistent. Callers rebuild their own rows; admins
// rebuild rows of users on their roster.
func (s *Service) Rebuild(ctx context.Context, p *model.Principal, user model.UserID, game model.GameID) (*model.UserGameStats, error) {
	if err := s.authorizeRebuild(ctx, p, user); err != nil {
		return nil, err
	}

	attempts, err := s.storage.ListAttempts(ctx, user, game)
	if err != nil {
		return nil, err
	}
	if len(attempts) == 0 {
		return nil, model.ErrStatsNotFound
	}

	stats := model.NewUserGameStats(user, game, attempts[0].OwnerAdmin)
	for _, a := range attempts {
		stats.Fold(a, a.CreatedAt)
	}

	if err := s.storage.SaveStats(ctx, stats); err != nil {
		return nil, err
	}

	s.logger.Info("stats rebuilt",
		slog.String("user_id", string(user)),
		slog.String("game_id", string(game)),
		slog.Int("attempts", stats.AttemptsCount),
	)
	return stats, nil
}

// authorizeRebuild gates rebuilds on ownership. An admin may only touch
// users of its own roster; a foreign roster reads as missing stats, so
// user ids leak nothing across tenants.
func (s *Service) authorizeRebuild(ctx context.Context, p *model.Principal, user model.UserID) error {
	if p.UserID == user || p.IsSuperAdmin {
		return nil
	}
	if !p.IsAdmin() {
		return model.ErrAccessDenied
	}
	target, err := s.storage.GetUser(ctx, user)
	if err != nil {
		return err
	}
	if !model.TenantEqual(target.OwnerAdmin, p.Tenant()) {
		return model.ErrStatsNotFound
	}
	return nil
}
