package model

import (
	"math"
	"time"
)

// AttemptID uniquely identifies a recorded play attempt
type AttemptID string

// GameAttempt is one play session of a game. Attempts are append-only:
// every attempt is kept forever and never mutated after creation.
//
// User is nil for anonymous play sessions; such rows always carry a nil
// OwnerAdmin.
type GameAttempt struct {
	ID              AttemptID      `json:"id"`
	Game            GameID         `json:"game"`
	User            *UserID        `json:"user"`
	Score           int            `json:"score"`
	MaxScore        int            `json:"max_score"`
	Percentage      int            `json:"percentage"`
	Completed       bool           `json:"completed"`
	DurationSeconds int            `json:"duration_seconds"`
	Metadata        map[string]any `json:"metadata,omitempty"`
	OwnerAdmin      *TenantID      `json:"owner_admin"`
	CreatedAt       time.Time      `json:"created_at"`
}

// Percentage derives the score percentage at write time.
// A non-positive maxScore yields 0, never a division fault.
func Percentage(score, maxScore int) int {
	if maxScore <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(score) / float64(maxScore)))
}
