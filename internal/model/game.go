package model

import "time"

// GameID uniquely identifies a game
type GameID string

// GameType is the kind of learning game, which fixes the shape of Config
type GameType string

const (
	GameTypeMatching    GameType = "matching"
	GameTypeHangman     GameType = "hangman"
	GameTypeWordsearch  GameType = "wordsearch"
	GameTypeCrossword   GameType = "crossword"
	GameTypeMultichoice GameType = "multichoice"
	GameTypeBubbles     GameType = "bubbles"
)

// GameConfig is the opaque per-type configuration payload. Its structure is
// validated by the config validator registry before a game is persisted.
type GameConfig map[string]any

// Game represents an authored learning game.
//
// Ownership invariant: IsPublic implies OwnerAdmin == nil (the public
// tenant), and only the superadmin produces OwnerAdmin == nil rows. Rows
// predating the tenant model may violate this until the backfill pass runs.
type Game struct {
	ID          GameID     `json:"id"`
	Type        GameType   `json:"type"`
	Title       string     `json:"title"`
	Topic       string     `json:"topic"`
	Category    string     `json:"category"`
	Config      GameConfig `json:"config"`
	IsPublished bool       `json:"is_published"`
	IsPublic    bool       `json:"is_public"`
	Order       int        `json:"order"`
	OwnerAdmin  *TenantID  `json:"owner_admin"`
	CreatedBy   UserID     `json:"created_by"`
	UpdatedBy   UserID     `json:"updated_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsLegacy reports whether the row predates the tenant model: no owner and
// not flagged public. The backfill pass assigns such rows a home.
func (g *Game) IsLegacy() bool {
	return g.OwnerAdmin == nil && !g.IsPublic
}
