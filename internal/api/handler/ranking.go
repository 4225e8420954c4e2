package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/aulaplay/aulaplay-go/internal/api/middleware"
	"github.com/aulaplay/aulaplay-go/internal/api/response"
	"github.com/aulaplay/aulaplay-go/internal/model"
	"github.com/aulaplay/aulaplay-go/internal/services/ranking"
	"github.com/aulaplay/aulaplay-go/internal/services/scope"
)

const defaultRankingLimit = 10

// RankingHandler handles leaderboard and stats endpoints
type RankingHandler struct {
	rankingService *ranking.Service
}

// NewRankingHandler creates a new ranking handler
func NewRankingHandler(rankingService *ranking.Service) *RankingHandler {
	return &RankingHandler{
		rankingService: rankingService,
	}
}

// Global handles GET /api/v1/rankings/global
func (h *RankingHandler) Global(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())
	filter := scope.ForAggregation(principal)

	entries, err := h.rankingService.Global(r.Context(), filter, limitParam(r, defaultRankingLimit))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RankingFromEntries(entries))
}

// ForGame handles GET /api/v1/rankings/games/{id}
func (h *RankingHandler) ForGame(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())
	filter := scope.ForAggregation(principal)
	gameID := model.GameID(mux.Vars(r)["id"])

	entries, err := h.rankingService.ForGame(r.Context(), gameID, filter, limitParam(r, defaultRankingLimit))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RankingFromEntries(entries))
}

// Monthly handles GET /api/v1/rankings/monthly
func (h *RankingHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	var game *model.GameID
	if g := r.URL.Query().Get("game_id"); g != "" {
		id := model.GameID(g)
		game = &id
	}
	var theme *string
	if t := r.URL.Query().Get("theme"); t != "" {
		theme = &t
	}

	entries, err := h.rankingService.Monthly(r.Context(), game, theme, limitParam(r, defaultRankingLimit))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RankingFromEntries(entries))
}

// MyPosition handles GET /api/v1/rankings/me
func (h *RankingHandler) MyPosition(w http.ResponseWriter, r *http.Request) {
	principal := middleware.MustGetPrincipal(r.Context())
	filter := scope.ForAggregation(principal)

	position, err := h.rankingService.UserPosition(r.Context(), principal.UserID, filter)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PositionResponse{
		User:     string(principal.UserID),
		Position: position,
	})
}

// MyStats handles GET /api/v1/stats/me
func (h *RankingHandler) MyStats(w http.ResponseWriter, r *http.Request) {
	principal := middleware.MustGetPrincipal(r.Context())
	filter := scope.ForAggregation(principal)

	stats, err := h.rankingService.UserStats(r.Context(), principal.UserID, filter)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.StatsFromModel(stats))
}

// UserStats handles GET /api/v1/stats/users/{id} (admin view of a student)
func (h *RankingHandler) UserStats(w http.ResponseWriter, r *http.Request) {
	principal := middleware.MustGetPrincipal(r.Context())
	if !principal.IsAdmin() && !principal.IsSuperAdmin {
		WriteError(w, model.ErrAccessDenied)
		return
	}

	filter := scope.ForAggregation(principal)
	userID := model.UserID(mux.Vars(r)["id"])

	stats, err := h.rankingService.UserStats(r.Context(), userID, filter)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.StatsFromModel(stats))
}

// limitParam parses the limit query parameter with a default
func limitParam(r *http.Request, def int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
