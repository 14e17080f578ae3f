package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/sleroq/zim-to-obsidian/internal/app/converter"
)

// LevelCritical marks errors that abort the whole run.
const LevelCritical = slog.Level(12)

// Run executes one notebook conversion with the given configuration.
func Run(ctx context.Context, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	logger, closeLog, err := newLogger(cfg.App)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	logger.Info("configuration loaded",
		slog.String("input_dir", cfg.Convert.InputDir),
		slog.String("output_dir", cfg.Convert.OutputDir),
		slog.String("log_level", cfg.App.LogLevel),
		slog.Bool("rename_by_title", cfg.Convert.RenameByTitle))

	conv := converter.Converter{
		InputDir:      cfg.Convert.InputDir,
		OutputDir:     cfg.Convert.OutputDir,
		RenameByTitle: cfg.Convert.RenameByTitle,
		Logger:        logger,
	}

	stats, err := conv.Run(ctx)
	if err != nil {
		logger.Log(ctx, LevelCritical, "conversion aborted", slog.String("error", err.Error()))
		return err
	}

	logger.Info("conversion complete",
		slog.Int("pages", stats.Pages),
		slog.Int("skipped", stats.Skipped),
		slog.Int("attachments", stats.Attachments),
		slog.Int("warnings", stats.Warnings))
	fmt.Printf("converted %d pages, copied %d attachments (%d warnings, %d pages skipped)\n",
		stats.Pages, stats.Attachments, stats.Warnings, stats.Skipped)
	return nil
}

// newLogger builds a text slog logger writing to stderr and, when configured,
// to a log file. A log file that cannot be created is reported but does not
// stop the run.
func newLogger(cfg ApplicationConfig) (*slog.Logger, func(), error) {
	var out io.Writer = os.Stderr
	closeLog := func() {}

	if cfg.LogFile != "" {
		f, err := os.Create(cfg.LogFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not create log file %s: %v\n", cfg.LogFile, err)
		} else {
			out = io.MultiWriter(os.Stderr, f)
			closeLog = func() { f.Close() }
		}
	}

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: levelFromString(cfg.LogLevel),
	}))
	return logger, closeLog, nil
}

func levelFromString(level string) slog.Level {
	switch level {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarning:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	case LogLevelCritical:
		return LevelCritical
	default:
		return slog.LevelInfo
	}
}
