package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play attempt and score commands",
	}

	cmd.AddCommand(newPlayAttemptCmd())
	cmd.AddCommand(newPlayScoreCmd())

	return cmd
}

func newPlayAttemptCmd() *cobra.Command {
	var score, maxScore, duration int
	var completed bool

	cmd := &cobra.Command{
		Use:   "attempt <game-id>",
		Short: "Record a play attempt for a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"score":            score,
				"max_score":        maxScore,
				"completed":        completed,
				"duration_seconds": duration,
			}
			var result Attempt

			path := fmt.Sprintf("/api/v1/games/%s/attempts", args[0])
			if err := client.Post(path, req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&score, "score", 0, "Points earned (required)")
	cmd.Flags().IntVar(&maxScore, "max-score", 0, "Maximum attainable points (required)")
	cmd.Flags().BoolVar(&completed, "completed", false, "Whether the game was finished")
	cmd.Flags().IntVar(&duration, "duration", 0, "Play duration in seconds")
	_ = cmd.MarkFlagRequired("score")
	_ = cmd.MarkFlagRequired("max-score")

	return cmd
}

func newPlayScoreCmd() *cobra.Command {
	var gameID, theme string
	var score, maxScore, percentage, lives int

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Submit a score to the legacy ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"game_id":    gameID,
				"theme":      theme,
				"score":      score,
				"max_score":  maxScore,
				"percentage": percentage,
				"lives":      lives,
			}
			var result ScoreRow

			if err := client.Post("/api/v1/scores", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&gameID, "game", "", "Game ID (required)")
	cmd.Flags().StringVar(&theme, "theme", "", "Theme name (required)")
	cmd.Flags().IntVar(&score, "score", 0, "Points earned (required)")
	cmd.Flags().IntVar(&maxScore, "max-score", 0, "Maximum attainable points")
	cmd.Flags().IntVar(&percentage, "percentage", 0, "Completion percentage (derived when omitted)")
	cmd.Flags().IntVar(&lives, "lives", 0, "Lives remaining")
	_ = cmd.MarkFlagRequired("game")
	_ = cmd.MarkFlagRequired("theme")
	_ = cmd.MarkFlagRequired("score")

	return cmd
}
