package internal

import (
	"log/slog"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Convert.InputDir = "./notebook"
	cfg.Convert.OutputDir = "./vault"
	if err := cfg.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}
}

func TestConfigValidateMissingDirs(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Error("config without directories must fail validation")
	}
}

func TestConfigValidateBadLogLevel(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Convert.InputDir = "in"
	cfg.Convert.OutputDir = "out"
	cfg.App.LogLevel = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown log level must fail validation")
	}
}

func TestLevelFromString(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{LogLevelDebug, slog.LevelDebug},
		{LogLevelInfo, slog.LevelInfo},
		{LogLevelWarning, slog.LevelWarn},
		{LogLevelError, slog.LevelError},
		{LogLevelCritical, LevelCritical},
		{"unknown", slog.LevelInfo},
	}
	for _, tc := range cases {
		if got := levelFromString(tc.in); got != tc.want {
			t.Errorf("levelFromString(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
