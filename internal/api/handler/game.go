package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/aulaplay/aulaplay-go/internal/api/middleware"
	"github.com/aulaplay/aulaplay-go/internal/api/request"
	"github.com/aulaplay/aulaplay-go/internal/api/response"
	"github.com/aulaplay/aulaplay-go/internal/model"
	"github.com/aulaplay/aulaplay-go/internal/services/gameconfig"
	"github.com/aulaplay/aulaplay-go/internal/services/games"
	"github.com/aulaplay/aulaplay-go/internal/services/scope"
)

// GameHandler handles game authoring and catalogue endpoints
type GameHandler struct {
	gamesService *games.Service
	validators   *gameconfig.Registry
}

// NewGameHandler creates a new game handler
func NewGameHandler(gamesService *games.Service, validators *gameconfig.Registry) *GameHandler {
	return &GameHandler{
		gamesService: gamesService,
		validators:   validators,
	}
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	principal := middleware.MustGetPrincipal(r.Context())
	game, err := h.gamesService.Create(r.Context(), games.CreateInput{
		Type:        model.GameType(req.Type),
		Title:       req.Title,
		Topic:       req.Topic,
		Category:    req.Category,
		Config:      req.Config,
		IsPublished: req.IsPublished,
		IsPublic:    req.IsPublic,
		Order:       req.Order,
	}, principal)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.GameFromModel(game))
}

// Update handles PUT /api/v1/games/{id}
func (h *GameHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	principal := middleware.MustGetPrincipal(r.Context())
	id := model.GameID(mux.Vars(r)["id"])

	var gameType *model.GameType
	if req.Type != nil {
		gt := model.GameType(*req.Type)
		gameType = &gt
	}

	game, err := h.gamesService.Update(r.Context(), id, games.Patch{
		Type:        gameType,
		Title:       req.Title,
		Topic:       req.Topic,
		Category:    req.Category,
		Config:      req.Config,
		IsPublished: req.IsPublished,
		IsPublic:    req.IsPublic,
		Order:       req.Order,
	}, principal)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(game))
}

// Delete handles DELETE /api/v1/games/{id}
func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal := middleware.MustGetPrincipal(r.Context())
	id := model.GameID(mux.Vars(r)["id"])

	game, err := h.gamesService.Delete(r.Context(), id, principal)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(game))
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())
	id := model.GameID(mux.Vars(r)["id"])

	game, err := h.gamesService.Get(r.Context(), id, principal)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(game))
}

// ListMine handles GET /api/v1/games (admin's own content)
func (h *GameHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	principal := middleware.MustGetPrincipal(r.Context())

	list, err := h.gamesService.List(r.Context(), scope.IntentOwnPrivate, principal)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GamesFromModel(list))
}

// ListForStudent handles GET /api/v1/catalogue (the caller's tenant view)
func (h *GameHandler) ListForStudent(w http.ResponseWriter, r *http.Request) {
	principal := middleware.MustGetPrincipal(r.Context())

	list, err := h.gamesService.List(r.Context(), scope.IntentStudentContent, principal)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GamesFromModel(list))
}

// ListPublic handles GET /api/v1/public/games (no auth required)
func (h *GameHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())

	list, err := h.gamesService.List(r.Context(), scope.IntentPublicOnly, principal)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GamesFromModel(list))
}

// ValidateConfig handles POST /api/v1/games/validate-config
func (h *GameHandler) ValidateConfig(w http.ResponseWriter, r *http.Request) {
	var req request.ValidateConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	result := h.validators.Validate(model.GameType(req.Type), req.Config)
	errs := result.Errors
	if errs == nil {
		errs = []string{}
	}
	response.JSON(w, http.StatusOK, response.ValidationResult{Valid: result.Valid, Errors: errs})
}
