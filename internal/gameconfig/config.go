// Package gameconfig loads batch-level run configuration and the
// per-game configuration documents consumed by the analyzers
// (spec.md §6, ConfigurationCache in spec.md §4 design notes).
package gameconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// RunConfig enumerates the batch-level options spec.md §6 lists as
// recognized configuration options plus the CLI surface in spec.md §6.
type RunConfig struct {
	ScanPath         string            `mapstructure:"scan_path"`
	ShowFormIDValues bool              `mapstructure:"show_form_id_values"`
	FCXMode          bool              `mapstructure:"fcx_mode"`
	SimplifyLogs     bool              `mapstructure:"simplify_logs"`
	MoveUnsolvedLogs bool              `mapstructure:"move_unsolved_logs"`
	MaxConcurrent    int               `mapstructure:"max_concurrent"`
	CustomPaths      map[string]string `mapstructure:"custom_paths"`
	SelectedGame     string            `mapstructure:"selected_game"`
	Quiet            bool              `mapstructure:"-"`
}

// DefaultMaxConcurrent matches spec.md §4.6's documented default.
const DefaultMaxConcurrent = 50

// DefaultRunConfig returns a RunConfig with spec-mandated defaults.
func DefaultRunConfig() *RunConfig {
	return &RunConfig{
		MaxConcurrent: DefaultMaxConcurrent,
		SelectedGame:  "Fallout4",
		CustomPaths:   make(map[string]string),
	}
}

// LoadRunConfig reads scanner111.yaml from configDir (if present) and
// applies defaults for anything left unset. A missing file is not an
// error — it is equivalent to an all-defaults configuration.
func LoadRunConfig(configDir string) (*RunConfig, error) {
	configPath := filepath.Join(configDir, "scanner111.yaml")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultRunConfig(), nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read scanner111.yaml: %w", err)
	}

	cfg := DefaultRunConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse scanner111.yaml: %w", err)
	}
	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *RunConfig) {
	defaults := DefaultRunConfig()
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = defaults.MaxConcurrent
	}
	if cfg.MaxConcurrent > 100 {
		cfg.MaxConcurrent = 100
	}
	if cfg.SelectedGame == "" {
		cfg.SelectedGame = defaults.SelectedGame
	}
	if cfg.CustomPaths == nil {
		cfg.CustomPaths = make(map[string]string)
	}
}

// Validate enforces the max_concurrent range from spec.md §6.
func (c *RunConfig) Validate() error {
	if c.MaxConcurrent < 1 || c.MaxConcurrent > 100 {
		return fmt.Errorf("max_concurrent: must be in [1, 100], got %d", c.MaxConcurrent)
	}
	return nil
}
