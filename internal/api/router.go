package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/aulaplay/aulaplay-go/internal/api/handler"
	"github.com/aulaplay/aulaplay-go/internal/api/middleware"
	"github.com/aulaplay/aulaplay-go/internal/services/attempts"
	"github.com/aulaplay/aulaplay-go/internal/services/auth"
	"github.com/aulaplay/aulaplay-go/internal/services/gameconfig"
	"github.com/aulaplay/aulaplay-go/internal/services/games"
	"github.com/aulaplay/aulaplay-go/internal/services/ranking"
	"github.com/aulaplay/aulaplay-go/internal/services/scores"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	AuthService     *auth.Service
	GamesService    *games.Service
	AttemptsService *attempts.Service
	ScoresService   *scores.Service
	RankingService  *ranking.Service
	Validators      *gameconfig.Registry
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	gameHandler := handler.NewGameHandler(cfg.GamesService, cfg.Validators)
	playHandler := handler.NewPlayHandler(cfg.AttemptsService, cfg.ScoresService)
	rankingHandler := handler.NewRankingHandler(cfg.RankingService)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Auth routes (no auth required for registering/logging in)
	api.HandleFunc("/auth/register/admin", authHandler.RegisterAdmin).Methods(http.MethodPost)
	api.HandleFunc("/auth/register/student", authHandler.RegisterStudent).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)

	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(authMiddleware)
	authProtected.HandleFunc("/me", authHandler.GetMe).Methods(http.MethodGet)

	// Public catalogue and anonymous play take an optional principal:
	// attaching a token narrows the tenant, omitting one pins the caller
	// to the public tenant
	public := api.NewRoute().Subrouter()
	public.Use(optionalAuthMiddleware)
	public.HandleFunc("/games/public", gameHandler.ListPublic).Methods(http.MethodGet)
	public.HandleFunc("/games/{id}/attempts", playHandler.RecordAttempt).Methods(http.MethodPost)

	// Game management routes (admin tenancy enforced in the service layer)
	managed := api.PathPrefix("/games").Subrouter()
	managed.Use(authMiddleware)
	managed.HandleFunc("", gameHandler.Create).Methods(http.MethodPost)
	managed.HandleFunc("", gameHandler.ListMine).Methods(http.MethodGet)
	managed.HandleFunc("/student", gameHandler.ListForStudent).Methods(http.MethodGet)
	managed.HandleFunc("/validate", gameHandler.ValidateConfig).Methods(http.MethodPost)
	managed.HandleFunc("/{id}", gameHandler.Get).Methods(http.MethodGet)
	managed.HandleFunc("/{id}", gameHandler.Update).Methods(http.MethodPut)
	managed.HandleFunc("/{id}", gameHandler.Delete).Methods(http.MethodDelete)

	// Legacy score ledger (auth required)
	scoresRoutes := api.PathPrefix("/scores").Subrouter()
	scoresRoutes.Use(authMiddleware)
	scoresRoutes.HandleFunc("", playHandler.SubmitScore).Methods(http.MethodPost)

	// Leaderboards: monthly is public, the rest scope to the caller's tenant
	rankings := api.PathPrefix("/rankings").Subrouter()
	rankings.Use(optionalAuthMiddleware)
	rankings.HandleFunc("/global", rankingHandler.Global).Methods(http.MethodGet)
	rankings.HandleFunc("/monthly", rankingHandler.Monthly).Methods(http.MethodGet)
	rankings.HandleFunc("/games/{id}", rankingHandler.ForGame).Methods(http.MethodGet)

	rankingsProtected := api.PathPrefix("/rankings").Subrouter()
	rankingsProtected.Use(authMiddleware)
	rankingsProtected.HandleFunc("/me", rankingHandler.MyPosition).Methods(http.MethodGet)

	// Stats routes (auth required)
	stats := api.PathPrefix("/stats").Subrouter()
	stats.Use(authMiddleware)
	stats.HandleFunc("/me", rankingHandler.MyStats).Methods(http.MethodGet)
	stats.HandleFunc("/users/{id}", rankingHandler.UserStats).Methods(http.MethodGet)
	stats.HandleFunc("/users/{id}/games/{game_id}/rebuild", playHandler.RebuildStats).Methods(http.MethodPost)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
