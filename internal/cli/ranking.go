package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

func newRankingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ranking",
		Short: "Leaderboard commands",
	}

	cmd.AddCommand(newRankingGlobalCmd())
	cmd.AddCommand(newRankingGameCmd())
	cmd.AddCommand(newRankingMonthlyCmd())
	cmd.AddCommand(newRankingMeCmd())

	return cmd
}

func newRankingGlobalCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "global",
		Short: "Show the global leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []RankingEntry

			path := fmt.Sprintf("/api/v1/rankings/global?limit=%d", limit)
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Number of entries")

	return cmd
}

func newRankingGameCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "game <game-id>",
		Short: "Show the leaderboard for one game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []RankingEntry

			path := fmt.Sprintf("/api/v1/rankings/games/%s?limit=%d", args[0], limit)
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Number of entries")

	return cmd
}

func newRankingMonthlyCmd() *cobra.Command {
	var limit int
	var game, theme string

	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Show the monthly leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			q.Set("limit", fmt.Sprintf("%d", limit))
			if game != "" {
				q.Set("game_id", game)
			}
			if theme != "" {
				q.Set("theme", theme)
			}

			var result []RankingEntry
			if err := client.Get("/api/v1/rankings/monthly?"+q.Encode(), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Number of entries")
	cmd.Flags().StringVar(&game, "game", "", "Restrict to one game")
	cmd.Flags().StringVar(&theme, "theme", "", "Restrict to one theme")

	return cmd
}

func newRankingMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show your global ranking position",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Position

			if err := client.Get("/api/v1/rankings/me", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newStatsCmd() *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show per-game stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/stats/me"
			if user != "" {
				path = "/api/v1/stats/users/" + user
			}

			var result []StatsRow
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Show another user's stats (teachers only)")

	return cmd
}
