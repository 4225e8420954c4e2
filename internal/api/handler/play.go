package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/aulaplay/aulaplay-go/internal/api/middleware"
	"github.com/aulaplay/aulaplay-go/internal/api/request"
	"github.com/aulaplay/aulaplay-go/internal/api/response"
	"github.com/aulaplay/aulaplay-go/internal/model"
	"github.com/aulaplay/aulaplay-go/internal/services/attempts"
	"github.com/aulaplay/aulaplay-go/internal/services/scores"
)

// PlayHandler handles attempt recording and legacy score submission
type PlayHandler struct {
	attemptsService *attempts.Service
	scoresService   *scores.Service
}

// NewPlayHandler creates a new play handler
func NewPlayHandler(attemptsService *attempts.Service, scoresService *scores.Service) *PlayHandler {
	return &PlayHandler{
		attemptsService: attemptsService,
		scoresService:   scoresService,
	}
}

// RecordAttempt handles POST /api/v1/games/{id}/attempts.
// Works for anonymous callers too: the attempt is recorded with no user
// and no tenant, and no stats are maintained.
func (h *PlayHandler) RecordAttempt(w http.ResponseWriter, r *http.Request) {
	var req request.RecordAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	principal := middleware.GetPrincipal(r.Context())
	gameID := model.GameID(mux.Vars(r)["id"])

	attempt, err := h.attemptsService.Record(r.Context(), gameID, principal, attempts.RecordInput{
		Score:           req.Score,
		MaxScore:        req.MaxScore,
		Completed:       req.Completed,
		DurationSeconds: req.DurationSeconds,
		Metadata:        req.Metadata,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AttemptFromModel(attempt))
}

// SubmitScore handles POST /api/v1/scores (legacy per-theme ledger)
func (h *PlayHandler) SubmitScore(w http.ResponseWriter, r *http.Request) {
	var req request.SubmitScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.GameID == "" {
		WriteError(w, NewInvalidRequestError("game_id is required"))
		return
	}
	if req.Theme == "" {
		WriteError(w, NewInvalidRequestError("theme is required"))
		return
	}

	principal := middleware.MustGetPrincipal(r.Context())

	in := scores.SubmitInput{
		Score:      req.Score,
		MaxScore:   req.MaxScore,
		Percentage: req.Percentage,
		Lives:      req.Lives,
	}
	if req.CreatedAt != nil {
		in.CreatedAt = *req.CreatedAt
	}

	row, err := h.scoresService.Submit(r.Context(), principal.UserID, model.GameID(req.GameID), req.Theme, principal.OwnerAdmin, in)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ScoreRowFromModel(row))
}

// RebuildStats handles POST /api/v1/stats/users/{id}/games/{game_id}/rebuild.
// Teachers reconcile an aggregate for students of their own roster by
// replaying the attempt stream; anyone may rebuild their own.
func (h *PlayHandler) RebuildStats(w http.ResponseWriter, r *http.Request) {
	principal := middleware.MustGetPrincipal(r.Context())
	vars := mux.Vars(r)
	userID := model.UserID(vars["id"])
	gameID := model.GameID(vars["game_id"])

	stats, err := h.attemptsService.Rebuild(r.Context(), principal, userID, gameID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.StatsFromModel([]*model.UserGameStats{stats})[0])
}
