package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/sleroq/zim-to-obsidian/internal"
	pkgconfig "github.com/sleroq/zim-to-obsidian/pkg/config"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
)

func run(ctx context.Context, cmd *cli.Command) error {
	cfg := internal.NewDefaultConfig()

	if configPath := cmd.String("config"); configPath != "" {
		if err := pkgconfig.Load(configPath, cfg); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Flags override config file values.
	if v := cmd.String("input"); v != "" {
		cfg.Convert.InputDir = v
	}
	if v := cmd.String("output"); v != "" {
		cfg.Convert.OutputDir = v
	}
	if cmd.IsSet("log-level") {
		cfg.App.LogLevel = cmd.String("log-level")
	}
	if v := cmd.String("log-file"); v != "" {
		cfg.App.LogFile = v
	}
	if cmd.IsSet("rename-by-title") {
		cfg.Convert.RenameByTitle = cmd.Bool("rename-by-title")
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := internal.Run(ctx, cfg); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:   "zim-to-obsidian",
		Usage:  "Convert a Zim Wiki notebook into an Obsidian vault",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Usage:   "Path to the Zim notebook directory",
				Sources: cli.EnvVars("ZIM2OBSIDIAN_INPUT"),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Path to the output Obsidian vault",
				Sources: cli.EnvVars("ZIM2OBSIDIAN_OUTPUT"),
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to an optional YAML config file",
				Sources: cli.EnvVars("ZIM2OBSIDIAN_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warning, error, critical)",
				Value:   internal.LogLevelInfo,
				Sources: cli.EnvVars("ZIM2OBSIDIAN_LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "Write logs to this file in addition to stderr",
				Sources: cli.EnvVars("ZIM2OBSIDIAN_LOG_FILE"),
			},
			&cli.BoolFlag{
				Name:  "rename-by-title",
				Usage: "Rename generated notes after their first H1 title",
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
