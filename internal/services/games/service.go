package games

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aulaplay/aulaplay-go/internal/dependencies/clock"
	"github.com/aulaplay/aulaplay-go/internal/dependencies/random"
	"github.com/aulaplay/aulaplay-go/internal/model"
	"github.com/aulaplay/aulaplay-go/internal/services/gameconfig"
	"github.com/aulaplay/aulaplay-go/internal/services/scope"
	"github.com/aulaplay/aulaplay-go/internal/storage"
)

// Service manages authoring and reading of games under tenant isolation
type Service struct {
	storage    storage.Storage
	validators *gameconfig.Registry
	clock      clock.Clock
	random     random.Random
	logger     *slog.Logger
}

// New creates a new games service
func New(
	storage storage.Storage,
	validators *gameconfig.Registry,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage:    storage,
		validators: validators,
		clock:      clock,
		random:     random,
		logger:     logger,
	}
}

// CreateInput holds the authoring fields of a new game
type CreateInput struct {
	Type        model.GameType
	Title       string
	Topic       string
	Category    string
	Config      model.GameConfig
	IsPublished bool
	IsPublic    bool
	Order       int
}

// Create validates and persists a new game owned by the caller's tenant.
// Only the superadmin produces public-tenant (nil owner) rows; a regular
// admin asking for IsPublic keeps its own tenant attached.
func (s *Service) Create(ctx context.Context, in CreateInput, p *model.Principal) (*model.Game, error) {
	if p == nil || !(p.IsAdmin() || p.IsSuperAdmin) {
		return nil, model.ErrAccessDenied
	}

	var errs []string
	if in.Title == "" {
		errs = append(errs, "title is required")
	}
	result := s.validators.Validate(in.Type, in.Config)
	errs = append(errs, result.Errors...)
	if len(errs) > 0 {
		return nil, model.NewValidationError(errs...)
	}

	owner := p.OwnerAdmin
	isPublic := false
	if p.IsSuperAdmin {
		owner = nil
		isPublic = in.IsPublic
	}

	now := s.clock.Now()
	game := &model.Game{
		ID:          model.GameID(s.random.UUID()),
		Type:        in.Type,
		Title:       in.Title,
		Topic:       in.Topic,
		Category:    in.Category,
		Config:      in.Config,
		IsPublished: in.IsPublished,
		IsPublic:    isPublic,
		Order:       in.Order,
		OwnerAdmin:  owner,
		CreatedBy:   p.UserID,
		UpdatedBy:   p.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.storage.SaveGame(ctx, game); err != nil {
		s.logger.Error("failed to save game",
			slog.String("game_id", string(game.ID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("game created",
		slog.String("game_id", string(game.ID)),
		slog.String("type", string(game.Type)),
		slog.String("owner", ownerAttr(game.OwnerAdmin)),
	)

	return game, nil
}

// Patch holds the updatable fields of a game; nil fields are untouched.
// Type is immutable: naming one only re-asserts the existing value.
type Patch struct {
	Type        *model.GameType
	Title       *string
	Topic       *string
	Category    *string
	Config      model.GameConfig
	IsPublished *bool
	IsPublic    *bool
	Order       *int
}

// Update applies a patch to a game the caller manages. A game outside the
// caller's tenant fails as not-found, indistinguishable from a missing id.
// When the patch touches config it is re-validated against the existing
// type.
func (s *Service) Update(ctx context.Context, id model.GameID, patch Patch, p *model.Principal) (*model.Game, error) {
	game, err := s.getManaged(ctx, id, p)
	if err != nil {
		return nil, err
	}

	if patch.Type != nil && *patch.Type != game.Type {
		return nil, model.ErrGameTypeChanged
	}
	if patch.Config != nil {
		result := s.validators.Validate(game.Type, patch.Config)
		if !result.Valid {
			return nil, model.NewValidationError(result.Errors...)
		}
		game.Config = patch.Config
	}
	if patch.Title != nil {
		if *patch.Title == "" {
			return nil, model.NewValidationError("title is required")
		}
		game.Title = *patch.Title
	}
	if patch.Topic != nil {
		game.Topic = *patch.Topic
	}
	if patch.Category != nil {
		game.Category = *patch.Category
	}
	if patch.IsPublished != nil {
		game.IsPublished = *patch.IsPublished
	}
	if patch.IsPublic != nil {
		// Only the superadmin moves content into the public tenant; an
		// admin's public flag never clears its ownership.
		if p.IsSuperAdmin {
			// Clearing the flag on an ownerless game would leave the row
			// looking like an untagged legacy one and hand it to the next
			// backfill pass.
			if !*patch.IsPublic && game.OwnerAdmin == nil {
				return nil, model.NewValidationError("a public game has no owning admin and cannot be made private")
			}
			game.IsPublic = *patch.IsPublic
			if game.IsPublic {
				game.OwnerAdmin = nil
			}
		} else {
			game.IsPublic = *patch.IsPublic && game.OwnerAdmin != nil
		}
	}
	if patch.Order != nil {
		game.Order = *patch.Order
	}

	game.UpdatedBy = p.UserID
	game.UpdatedAt = s.clock.Now()

	if err := s.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}
	return game, nil
}

// Delete removes a game the caller manages, returning the deleted document.
// Cross-tenant targets fail as not-found.
func (s *Service) Delete(ctx context.Context, id model.GameID, p *model.Principal) (*model.Game, error) {
	game, err := s.getManaged(ctx, id, p)
	if err != nil {
		return nil, err
	}
	if err := s.storage.DeleteGame(ctx, id); err != nil {
		return nil, err
	}
	s.logger.Info("game deleted", slog.String("game_id", string(id)))
	return game, nil
}

// Get returns a single game visible to the caller through any read scope
func (s *Service) Get(ctx context.Context, id model.GameID, p *model.Principal) (*model.Game, error) {
	game, err := s.storage.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}
	if !scope.CanView(p, game) && !scope.CanManage(p, game) {
		return nil, model.ErrGameNotFound
	}
	return game, nil
}

// List returns the games visible under the given intent
func (s *Service) List(ctx context.Context, intent scope.Intent, p *model.Principal) ([]*model.Game, error) {
	filter, err := scope.Resolve(p, intent)
	if err != nil {
		return nil, err
	}
	return s.storage.ListGames(ctx, filter)
}

// getManaged loads a game and checks the caller's manage scope, folding
// both missing and cross-tenant ids into the same not-found outcome.
func (s *Service) getManaged(ctx context.Context, id model.GameID, p *model.Principal) (*model.Game, error) {
	game, err := s.storage.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}
	if !scope.CanManage(p, game) {
		return nil, model.ErrGameNotFound
	}
	return game, nil
}

func ownerAttr(owner *model.TenantID) string {
	if owner == nil {
		return "public"
	}
	return string(*owner)
}

// BackfillPolicy decides where rows predating the tenant model land: either
// the public tenant or a designated default admin. A deployment decision,
// not a core invariant.
type BackfillPolicy struct {
	AssignPublic bool
	DefaultAdmin *model.TenantID
}

// Backfill assigns every legacy game (no owner, not public) a home per the
// policy. Safe to run repeatedly; only legacy rows are touched.
func (s *Service) Backfill(ctx context.Context, policy BackfillPolicy) (int, error) {
	if !policy.AssignPublic && policy.DefaultAdmin == nil {
		return 0, fmt.Errorf("backfill policy must assign public or name a default admin")
	}

	games, err := s.storage.ListGames(ctx, model.ScopeAll())
	if err != nil {
		return 0, err
	}

	migrated := 0
	for _, game := range games {
		if !game.IsLegacy() {
			continue
		}
		if policy.AssignPublic {
			game.IsPublic = true
		} else {
			game.OwnerAdmin = policy.DefaultAdmin
		}
		game.UpdatedAt = s.clock.Now()
		if err := s.storage.SaveGame(ctx, game); err != nil {
			return migrated, err
		}
		migrated++
	}

	if migrated > 0 {
		s.logger.Info("legacy games backfilled",
			slog.Int("count", migrated),
			slog.Bool("assign_public", policy.AssignPublic),
		)
	}
	return migrated, nil
}
