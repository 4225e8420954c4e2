package response

import (
	"time"

	"github.com/aulaplay/aulaplay-go/internal/model"
	"github.com/aulaplay/aulaplay-go/internal/services/auth"
	"github.com/aulaplay/aulaplay-go/internal/services/ranking"
)

// User represents a user in API responses
type User struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Username     string  `json:"username"`
	Role         string  `json:"role"`
	OwnerAdmin   *string `json:"owner_admin"`
	IsSuperAdmin bool    `json:"is_super_admin,omitempty"`
}

// UserFromModel converts a model.User to a response User
func UserFromModel(u *model.User) User {
	return User{
		ID:           string(u.ID),
		Name:         u.Name,
		Username:     u.Username,
		Role:         string(u.Role),
		OwnerAdmin:   tenantString(u.OwnerAdmin),
		IsSuperAdmin: u.IsSuperAdmin,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		User:      UserFromModel(&s.User),
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt,
	}
}

// Game represents a game in API responses
type Game struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Title       string         `json:"title"`
	Topic       string         `json:"topic"`
	Category    string         `json:"category"`
	Config      map[string]any `json:"config"`
	IsPublished bool           `json:"is_published"`
	IsPublic    bool           `json:"is_public"`
	Order       int            `json:"order"`
	OwnerAdmin  *string        `json:"owner_admin"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// GameFromModel converts a model.Game to a response Game
func GameFromModel(g *model.Game) Game {
	return Game{
		ID:          string(g.ID),
		Type:        string(g.Type),
		Title:       g.Title,
		Topic:       g.Topic,
		Category:    g.Category,
		Config:      g.Config,
		IsPublished: g.IsPublished,
		IsPublic:    g.IsPublic,
		Order:       g.Order,
		OwnerAdmin:  tenantString(g.OwnerAdmin),
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

// GamesFromModel converts a slice of games
func GamesFromModel(games []*model.Game) []Game {
	out := make([]Game, len(games))
	for i, g := range games {
		out[i] = GameFromModel(g)
	}
	return out
}

// Attempt represents a recorded play attempt
type Attempt struct {
	ID              string    `json:"id"`
	Game            string    `json:"game"`
	User            *string   `json:"user"`
	Score           int       `json:"score"`
	MaxScore        int       `json:"max_score"`
	Percentage      int       `json:"percentage"`
	Completed       bool      `json:"completed"`
	DurationSeconds int       `json:"duration_seconds"`
	CreatedAt       time.Time `json:"created_at"`
}

// AttemptFromModel converts a model.GameAttempt
func AttemptFromModel(a *model.GameAttempt) Attempt {
	var user *string
	if a.User != nil {
		u := string(*a.User)
		user = &u
	}
	return Attempt{
		ID:              string(a.ID),
		Game:            string(a.Game),
		User:            user,
		Score:           a.Score,
		MaxScore:        a.MaxScore,
		Percentage:      a.Percentage,
		Completed:       a.Completed,
		DurationSeconds: a.DurationSeconds,
		CreatedAt:       a.CreatedAt,
	}
}

// ScoreRow represents a legacy score ledger row
type ScoreRow struct {
	ID         string    `json:"id"`
	User       string    `json:"user"`
	Game       string    `json:"game"`
	Theme      string    `json:"theme"`
	Score      int       `json:"score"`
	MaxScore   int       `json:"max_score"`
	Percentage int       `json:"percentage"`
	Lives      int       `json:"lives"`
	CreatedAt  time.Time `json:"created_at"`
}

// ScoreRowFromModel converts a model.Score
func ScoreRowFromModel(s *model.Score) ScoreRow {
	return ScoreRow{
		ID:         string(s.ID),
		User:       string(s.User),
		Game:       string(s.Game),
		Theme:      s.Theme,
		Score:      s.Score,
		MaxScore:   s.MaxScore,
		Percentage: s.Percentage,
		Lives:      s.Lives,
		CreatedAt:  s.CreatedAt,
	}
}

// UserGameStats represents one (user, game) aggregate row
type UserGameStats struct {
	User           string    `json:"user"`
	Game           string    `json:"game"`
	BestScore      int       `json:"best_score"`
	BestPercentage int       `json:"best_percentage"`
	TotalScore     int       `json:"total_score"`
	AttemptsCount  int       `json:"attempts_count"`
	CompletedCount int       `json:"completed_count"`
	AverageScore   int       `json:"average_score"`
	LastPlayedAt   time.Time `json:"last_played_at"`
}

// StatsFromModel converts a slice of stats rows
func StatsFromModel(stats []*model.UserGameStats) []UserGameStats {
	out := make([]UserGameStats, len(stats))
	for i, st := range stats {
		out[i] = UserGameStats{
			User:           string(st.User),
			Game:           string(st.Game),
			BestScore:      st.BestScore,
			BestPercentage: st.BestPercentage,
			TotalScore:     st.TotalScore,
			AttemptsCount:  st.AttemptsCount,
			CompletedCount: st.CompletedCount,
			AverageScore:   st.AverageScore,
			LastPlayedAt:   st.LastPlayedAt,
		}
	}
	return out
}

// RankingEntry is one row of a leaderboard response
type RankingEntry struct {
	Position       int    `json:"position"`
	User           string `json:"user"`
	TotalScore     int    `json:"total_score"`
	BestScore      int    `json:"best_score"`
	BestPercentage int    `json:"best_percentage"`
	AttemptsCount  int    `json:"attempts_count"`
	CompletedCount int    `json:"completed_count,omitempty"`
	LastGame       string `json:"last_game,omitempty"`
	LastTheme      string `json:"last_theme,omitempty"`
}

// RankingFromEntries converts ranking service entries
func RankingFromEntries(entries []ranking.Entry) []RankingEntry {
	out := make([]RankingEntry, len(entries))
	for i, e := range entries {
		out[i] = RankingEntry{
			Position:       e.Position,
			User:           string(e.User),
			TotalScore:     e.TotalScore,
			BestScore:      e.BestScore,
			BestPercentage: e.BestPercentage,
			AttemptsCount:  e.AttemptsCount,
			CompletedCount: e.CompletedCount,
			LastGame:       string(e.LastGame),
			LastTheme:      e.LastTheme,
		}
	}
	return out
}

// ValidationResult is the response of standalone config validation
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// PositionResponse is the response for a caller's own rank lookup
type PositionResponse struct {
	User     string `json:"user"`
	Position int    `json:"position"`
}

func tenantString(t *model.TenantID) *string {
	if t == nil {
		return nil
	}
	s := string(*t)
	return &s
}
