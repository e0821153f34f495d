// Package config persists user preferences as a TOML file under the
// XDG config directory.
package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"

	"github.com/colcontools/wsman/pkg/errors"
)

// Filename is the config file name inside the app config directory.
const Filename = "config.toml"

// Themes accepted by the Theme field.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Config holds the persisted application state.
type Config struct {
	WorkspacePath string `toml:"workspace_path"`

	// LastSelected preserves the order packages were selected in, so a
	// restored session restores the same build order.
	LastSelected []string `toml:"last_selected_packages"`

	SymlinkInstall  bool   `toml:"symlink_install"`
	ParallelWorkers int    `toml:"parallel_workers"`
	BuildType       string `toml:"build_type"`
	Theme           string `toml:"theme"`
}

// Default returns the configuration used when no file exists yet.
func Default() *Config {
	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 8
	}
	return &Config{
		SymlinkInstall:  true,
		ParallelWorkers: workers,
		BuildType:       "auto",
		Theme:           ThemeDark,
	}
}

// Path returns the config file location, honoring XDG_CONFIG_HOME.
func Path(appName string) (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, Filename), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "cannot determine home directory")
	}
	return filepath.Join(home, ".config", appName, Filename), nil
}

// Load reads the config at path. A missing or unreadable file yields the
// defaults without error, matching first-run behavior.
func Load(path string) *Config {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return Default()
	}
	cfg.normalize()
	return cfg
}

// Save writes the config to path, creating parent directories as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "cannot create config directory")
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "cannot write config file")
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "cannot encode config")
	}
	return nil
}

func (c *Config) normalize() {
	if c.ParallelWorkers < 1 {
		c.ParallelWorkers = Default().ParallelWorkers
	}
	if c.Theme != ThemeDark && c.Theme != ThemeLight {
		c.Theme = ThemeDark
	}
	if c.BuildType == "" {
		c.BuildType = "auto"
	}
}
