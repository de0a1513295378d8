// Package config loads calculator settings from a JSON file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/cockroachdb/apd/v3"

	"github.com/zephyrtronium/calculator"
	"github.com/zephyrtronium/calculator/internal/logger"
)

// MaxPrecision is the largest accepted number of significant digits.
const MaxPrecision = 1000

// Config holds calculator settings. Fields absent from a file keep their
// defaults.
type Config struct {
	Precision      uint32 `json:"precision"`
	Rounding       string `json:"rounding"`
	ArbitraryFuncs bool   `json:"arbitrary_funcs"`
	HistorySize    int    `json:"history_size"`
	LogLevel       string `json:"log_level"`
	LogFile        string `json:"log_file,omitempty"`
	Color          bool   `json:"color"`
	// HistoryFile is where the REPL keeps its line history. Empty disables it.
	HistoryFile string `json:"history_file,omitempty"`
}

var roundings = map[string]apd.Rounder{
	"half_even": apd.RoundHalfEven,
	"half_up":   apd.RoundHalfUp,
	"half_down": apd.RoundHalfDown,
	"down":      apd.RoundDown,
	"up":        apd.RoundUp,
	"ceiling":   apd.RoundCeiling,
	"floor":     apd.RoundFloor,
	"05up":      apd.Round05Up,
}

func defaultStateDir() string {
	homeDir, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "windows":
		if localAppData := strings.TrimSpace(os.Getenv("LOCALAPPDATA")); localAppData != "" {
			return filepath.Join(localAppData, "calculator")
		}
		return filepath.Join(homeDir, "AppData", "Local", "calculator")
	default:
		if stateHome := strings.TrimSpace(os.Getenv("XDG_STATE_HOME")); stateHome != "" {
			return filepath.Join(stateHome, "calculator")
		}
		return filepath.Join(homeDir, ".local", "state", "calculator")
	}
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Precision:   calculator.DefaultPrec,
		Rounding:    "half_even",
		HistorySize: 10,
		LogLevel:    "info",
		Color:       true,
		HistoryFile: filepath.Join(defaultStateDir(), "history"),
	}
}

// Load reads the configuration at path over the defaults. A missing file
// gives the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if cfg.Rounding == "" {
		cfg.Rounding = "half_even"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return cfg, nil
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	if c.Precision < 1 || c.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d, got %d", MaxPrecision, c.Precision)
	}
	if _, ok := roundings[c.Rounding]; !ok {
		return fmt.Errorf("unknown rounding mode %q", c.Rounding)
	}
	if c.HistorySize < 1 {
		return fmt.Errorf("history size must be positive, got %d", c.HistorySize)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Level returns the configured log level. Call Validate first.
func (c *Config) Level() logger.Level {
	l, _ := logger.ParseLevel(c.LogLevel)
	return l
}

// ContextOptions returns the options creating the configured evaluation
// context. Call Validate first.
func (c *Config) ContextOptions() []calculator.ContextOption {
	opts := []calculator.ContextOption{
		calculator.Prec(c.Precision),
		calculator.Rounding(roundings[c.Rounding]),
	}
	if c.ArbitraryFuncs {
		opts = append(opts, calculator.ArbitraryFuncs())
	}
	return opts
}

// RoundingModes lists the accepted rounding mode names.
func RoundingModes() []string {
	return []string{"half_even", "half_up", "half_down", "down", "up", "ceiling", "floor", "05up"}
}
