package model

import "time"

// ScoreID uniquely identifies a legacy score row
type ScoreID string

// Score is the legacy per-theme ledger used by the quiz-style game family:
// one row per (user, game, theme), holding the most recent submission for
// that triple. Unlike GameAttempt's every-attempt-kept model, this is
// last-attempt-wins: submissions overwrite the row in place via an atomic
// upsert keyed on the triple.
type Score struct {
	ID         ScoreID   `json:"id"`
	User       UserID    `json:"user"`
	Game       GameID    `json:"game"`
	Theme      string    `json:"theme"`
	Score      int       `json:"score"`
	MaxScore   int       `json:"max_score"`
	Percentage int       `json:"percentage"`
	Lives      int       `json:"lives"`
	OwnerAdmin *TenantID `json:"owner_admin"`
	CreatedAt  time.Time `json:"created_at"`
}

// ScoreKey is the uniqueness key of the legacy ledger
type ScoreKey struct {
	User  UserID
	Game  GameID
	Theme string
}

// Key returns the row's uniqueness key
func (s *Score) Key() ScoreKey {
	return ScoreKey{User: s.User, Game: s.Game, Theme: s.Theme}
}
