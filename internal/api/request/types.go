package request

import "time"

// RegisterAdminRequest is the request body for registering an admin
type RegisterAdminRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// RegisterStudentRequest is the request body for registering a student
// under a teacher's roster
type RegisterStudentRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Teacher  string `json:"teacher"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateGameRequest is the request body for creating a game
type CreateGameRequest struct {
	Type        string         `json:"type"`
	Title       string         `json:"title"`
	Topic       string         `json:"topic"`
	Category    string         `json:"category"`
	Config      map[string]any `json:"config"`
	IsPublished bool           `json:"is_published"`
	IsPublic    bool           `json:"is_public"`
	Order       int            `json:"order"`
}

// UpdateGameRequest is the request body for patching a game; absent fields
// are untouched. A type different from the stored one is rejected.
type UpdateGameRequest struct {
	Type        *string        `json:"type"`
	Title       *string        `json:"title"`
	Topic       *string        `json:"topic"`
	Category    *string        `json:"category"`
	Config      map[string]any `json:"config"`
	IsPublished *bool          `json:"is_published"`
	IsPublic    *bool          `json:"is_public"`
	Order       *int           `json:"order"`
}

// ValidateConfigRequest is the request body for standalone config validation
type ValidateConfigRequest struct {
	Type   string         `json:"type"`
	Config map[string]any `json:"config"`
}

// RecordAttemptRequest is the request body for recording a play attempt
type RecordAttemptRequest struct {
	Score           int            `json:"score"`
	MaxScore        int            `json:"max_score"`
	Completed       bool           `json:"completed"`
	DurationSeconds int            `json:"duration_seconds"`
	Metadata        map[string]any `json:"metadata"`
}

// SubmitScoreRequest is the request body for the legacy score ledger
type SubmitScoreRequest struct {
	GameID     string     `json:"game_id"`
	Theme      string     `json:"theme"`
	Score      int        `json:"score"`
	MaxScore   int        `json:"max_score"`
	Percentage int        `json:"percentage"`
	Lives      int        `json:"lives"`
	CreatedAt  *time.Time `json:"created_at"`
}
