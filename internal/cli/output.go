package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case User:
		o.printUser(v)
	case AuthResult:
		o.printAuthResult(v)
	case Game:
		o.printGame(v)
	case []Game:
		o.printGames(v)
	case Attempt:
		o.printAttempt(v)
	case ScoreRow:
		o.printScoreRow(v)
	case []RankingEntry:
		o.printRanking(v)
	case []StatsRow:
		o.printStats(v)
	case Position:
		o.printPosition(v)
	case ValidationResult:
		o.printValidationResult(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// User response type (matches API)
type User struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Username     string  `json:"username"`
	Role         string  `json:"role"`
	OwnerAdmin   *string `json:"owner_admin"`
	IsSuperAdmin bool    `json:"is_super_admin,omitempty"`
}

// AuthResult combines user and token
type AuthResult struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Game response type
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
}

// Attempt response type
type Attempt struct {
	ID         string  `json:"id"`
	Game       string  `json:"game"`
	User       *string `json:"user"`
	Score      int     `json:"score"`
	MaxScore   int     `json:"max_score"`
	Percentage int     `json:"percentage"`
	Completed  bool    `json:"completed"`
}

// ScoreRow response type
type ScoreRow struct {
	ID         string `json:"id"`
	User       string `json:"user"`
	Game       string `json:"game"`
	Theme      string `json:"theme"`
	Score      int    `json:"score"`
	MaxScore   int    `json:"max_score"`
	Percentage int    `json:"percentage"`
	Lives      int    `json:"lives"`
}

// RankingEntry response type
type RankingEntry struct {
	Position       int    `json:"position"`
	User           string `json:"user"`
	TotalScore     int    `json:"total_score"`
	BestScore      int    `json:"best_score"`
	BestPercentage int    `json:"best_percentage"`
	AttemptsCount  int    `json:"attempts_count"`
	LastGame       string `json:"last_game,omitempty"`
	LastTheme      string `json:"last_theme,omitempty"`
}

// StatsRow response type
type StatsRow struct {
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

// Position response type
type Position struct {
	User     string `json:"user"`
	Position int    `json:"position"`
}

// ValidationResult response type
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printUser(u User) {
	fmt.Printf("User: %s (%s)\n", u.Name, u.ID)
	fmt.Printf("Username: %s\n", u.Username)
	fmt.Printf("Role: %s\n", u.Role)
	if u.IsSuperAdmin {
		fmt.Println("Superadmin: yes")
	}
	if u.OwnerAdmin != nil {
		fmt.Printf("Tenant: %s\n", *u.OwnerAdmin)
	} else {
		fmt.Println("Tenant: public")
	}
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printUser(a.User)
	fmt.Printf("Token: %s\n", a.Token)
	fmt.Printf("Expires: %s\n", a.ExpiresAt.Format(time.RFC3339))
}

func (o *Output) printGame(g Game) {
	fmt.Printf("Game: %s (%s)\n", g.Title, g.ID)
	fmt.Printf("Type: %s\n", g.Type)
	fmt.Printf("Topic: %s\n", g.Topic)
	if g.Category != "" {
		fmt.Printf("Category: %s\n", g.Category)
	}
	publishedStr := "no"
	if g.IsPublished {
		publishedStr = "yes"
	}
	fmt.Printf("Published: %s\n", publishedStr)
	if g.IsPublic {
		fmt.Println("Public: yes")
	}
	if g.OwnerAdmin != nil {
		fmt.Printf("Tenant: %s\n", *g.OwnerAdmin)
	}
}

func (o *Output) printGames(games []Game) {
	fmt.Printf("Games (%d):\n", len(games))
	for _, g := range games {
		marker := ""
		if !g.IsPublished {
			marker = " [draft]"
		}
		fmt.Printf("  - %s: %s (%s)%s\n", g.ID, g.Title, g.Type, marker)
	}
}

func (o *Output) printAttempt(a Attempt) {
	fmt.Printf("Attempt: %s\n", a.ID)
	fmt.Printf("Game: %s\n", a.Game)
	if a.User != nil {
		fmt.Printf("User: %s\n", *a.User)
	} else {
		fmt.Println("User: anonymous")
	}
	fmt.Printf("Score: %d/%d (%d%%)\n", a.Score, a.MaxScore, a.Percentage)
	completedStr := "no"
	if a.Completed {
		completedStr = "yes"
	}
	fmt.Printf("Completed: %s\n", completedStr)
}

func (o *Output) printScoreRow(s ScoreRow) {
	fmt.Printf("Score: %s\n", s.ID)
	fmt.Printf("Game: %s (theme: %s)\n", s.Game, s.Theme)
	fmt.Printf("Result: %d/%d (%d%%)\n", s.Score, s.MaxScore, s.Percentage)
	if s.Lives > 0 {
		fmt.Printf("Lives: %d\n", s.Lives)
	}
}

func (o *Output) printRanking(entries []RankingEntry) {
	if len(entries) == 0 {
		fmt.Println("No entries")
		return
	}
	for _, e := range entries {
		extra := ""
		if e.LastGame != "" {
			extra = fmt.Sprintf(" last: %s/%s", e.LastGame, e.LastTheme)
		}
		fmt.Printf("%3d. %s  total=%d best=%d (%d%%) attempts=%d%s\n",
			e.Position, e.User, e.TotalScore, e.BestScore, e.BestPercentage, e.AttemptsCount, extra)
	}
}

func (o *Output) printStats(rows []StatsRow) {
	if len(rows) == 0 {
		fmt.Println("No stats")
		return
	}
	for _, st := range rows {
		fmt.Printf("Game %s: best=%d (%d%%) total=%d attempts=%d completed=%d avg=%d\n",
			st.Game, st.BestScore, st.BestPercentage, st.TotalScore,
			st.AttemptsCount, st.CompletedCount, st.AverageScore)
	}
}

func (o *Output) printPosition(p Position) {
	if p.Position == 0 {
		fmt.Println("Not ranked yet")
		return
	}
	fmt.Printf("Position: %d\n", p.Position)
}

func (o *Output) printValidationResult(v ValidationResult) {
	if v.Valid {
		fmt.Println("Config is valid")
		return
	}
	fmt.Println("Config is invalid:")
	for _, e := range v.Errors {
		fmt.Printf("  - %s\n", e)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
