package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game authoring commands",
	}

	cmd.AddCommand(newGameCreateCmd())
	cmd.AddCommand(newGameListCmd())
	cmd.AddCommand(newGameGetCmd())
	cmd.AddCommand(newGameUpdateCmd())
	cmd.AddCommand(newGameDeleteCmd())
	cmd.AddCommand(newGamePublishCmd())
	cmd.AddCommand(newGameValidateCmd())

	return cmd
}

// loadConfigFile reads a JSON game config from a file, or stdin for "-"
func loadConfigFile(path string) (map[string]any, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config map[string]any
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}

func newGameCreateCmd() *cobra.Command {
	var gameType, title, topic, category, configFile string
	var published, public bool
	var order int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new game",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfigFile(configFile)
			if err != nil {
				return err
			}

			req := map[string]any{
				"type":         gameType,
				"title":        title,
				"topic":        topic,
				"category":     category,
				"config":       config,
				"is_published": published,
				"is_public":    public,
				"order":        order,
			}
			var result Game

			if err := client.Post("/api/v1/games", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&gameType, "type", "", "Game type (required)")
	cmd.Flags().StringVar(&title, "title", "", "Game title (required)")
	cmd.Flags().StringVar(&topic, "topic", "", "Game topic")
	cmd.Flags().StringVar(&category, "category", "", "Game category")
	cmd.Flags().StringVar(&configFile, "config", "", "Path to JSON config file, or - for stdin (required)")
	cmd.Flags().BoolVar(&published, "published", false, "Publish immediately")
	cmd.Flags().BoolVar(&public, "public", false, "Platform-wide public content (superadmin only)")
	cmd.Flags().IntVar(&order, "order", 0, "Display order")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func newGameListCmd() *cobra.Command {
	var view string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List games",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/games"
			switch view {
			case "mine", "":
			case "student":
				path = "/api/v1/games/student"
			case "public":
				path = "/api/v1/games/public"
			default:
				return fmt.Errorf("invalid --view: must be mine, student, or public")
			}

			var result []Game
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&view, "view", "mine", "Which listing: mine, student, public")

	return cmd
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <game-id>",
		Short: "Show a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game

			if err := client.Get("/api/v1/games/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameUpdateCmd() *cobra.Command {
	var title, topic, category, configFile string
	var order int

	cmd := &cobra.Command{
		Use:   "update <game-id>",
		Short: "Update a game (only provided fields change)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{}
			if cmd.Flags().Changed("title") {
				req["title"] = title
			}
			if cmd.Flags().Changed("topic") {
				req["topic"] = topic
			}
			if cmd.Flags().Changed("category") {
				req["category"] = category
			}
			if cmd.Flags().Changed("order") {
				req["order"] = order
			}
			if configFile != "" {
				config, err := loadConfigFile(configFile)
				if err != nil {
					return err
				}
				req["config"] = config
			}
			if len(req) == 0 {
				return fmt.Errorf("nothing to update")
			}

			var result Game
			if err := client.Put("/api/v1/games/"+args[0], req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Game title")
	cmd.Flags().StringVar(&topic, "topic", "", "Game topic")
	cmd.Flags().StringVar(&category, "category", "", "Game category")
	cmd.Flags().StringVar(&configFile, "config", "", "Path to JSON config file, or - for stdin")
	cmd.Flags().IntVar(&order, "order", 0, "Display order")

	return cmd
}

func newGameDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <game-id>",
		Short: "Delete a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/games/"+args[0], nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Game deleted")
			return nil
		},
	}
}

func newGamePublishCmd() *cobra.Command {
	var unpublish bool

	cmd := &cobra.Command{
		Use:   "publish <game-id>",
		Short: "Publish or unpublish a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"is_published": !unpublish}

			var result Game
			if err := client.Put("/api/v1/games/"+args[0], req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&unpublish, "unpublish", false, "Unpublish instead of publishing")

	return cmd
}

func newGameValidateCmd() *cobra.Command {
	var gameType, configFile string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a game config without saving it",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfigFile(configFile)
			if err != nil {
				return err
			}

			req := map[string]any{
				"type":   gameType,
				"config": config,
			}
			var result ValidationResult

			if err := client.Post("/api/v1/games/validate", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&gameType, "type", "", "Game type (required)")
	cmd.Flags().StringVar(&configFile, "config", "", "Path to JSON config file, or - for stdin (required)")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}
