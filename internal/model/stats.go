package model

import (
	"math"
	"time"
)

// UserGameStats is the materialized running aggregate over one user's
// attempts at one game: exactly one row per (user, game) pair, created
// lazily on the first attempt and folded in place on every one after.
//
// It is a derived, rebuildable cache: replaying the user's attempts for the
// game in arrival order through Fold reproduces the stored row exactly.
type UserGameStats struct {
	User           UserID    `json:"user"`
	Game           GameID    `json:"game"`
	OwnerAdmin     *TenantID `json:"owner_admin"`
	BestScore      int       `json:"best_score"`
	BestPercentage int       `json:"best_percentage"`
	TotalScore     int       `json:"total_score"`
	AttemptsCount  int       `json:"attempts_count"`
	CompletedCount int       `json:"completed_count"`
	AverageScore   int       `json:"average_score"`
	LastPlayedAt   time.Time `json:"last_played_at"`
}

// NewUserGameStats returns a zeroed stats row for a (user, game) pair
func NewUserGameStats(user UserID, game GameID, owner *TenantID) *UserGameStats {
	return &UserGameStats{
		User:       user,
		Game:       game,
		OwnerAdmin: owner,
	}
}

// Fold applies one attempt to the running aggregate. It is the single
// source of truth for how stats are maintained; the reconciliation rebuild
// replays attempts through this same function.
func (s *UserGameStats) Fold(a *GameAttempt, now time.Time) {
	s.AttemptsCount++
	if a.Completed {
		s.CompletedCount++
	}
	s.TotalScore += a.Score
	if a.Score > s.BestScore {
		s.BestScore = a.Score
	}
	if a.Percentage > s.BestPercentage {
		s.BestPercentage = a.Percentage
	}
	s.AverageScore = int(math.Round(float64(s.TotalScore) / float64(s.AttemptsCount)))
	s.LastPlayedAt = now
}
