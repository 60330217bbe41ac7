package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/keylaunch/internal/frecency"
	"github.com/dshills/keylaunch/internal/grouping"
)

// Config is the full launcher configuration.
type Config struct {
	Usage     UsageConfig     `toml:"usage"`
	Suggested SuggestedConfig `toml:"suggested"`
	Scripts   ScriptsConfig   `toml:"scripts"`
	Manifest  ManifestConfig  `toml:"manifest"`
}

// UsageConfig controls the frecency store.
type UsageConfig struct {
	// Path is the usage database file.
	Path string `toml:"path"`

	// HalfLifeDays is the score decay half-life.
	HalfLifeDays float64 `toml:"half_life_days"`

	// Track disables usage recording when false; the store still loads so
	// existing history keeps ranking.
	Track bool `toml:"track"`
}

// SuggestedConfig controls the SUGGESTED section of the main view.
type SuggestedConfig struct {
	Enabled  bool     `toml:"enabled"`
	MaxItems int      `toml:"max_items"`
	MinScore float64  `toml:"min_score"`
	Excluded []string `toml:"excluded"`
}

// ScriptsConfig lists the directories scanned for scripts and scriptlets.
type ScriptsConfig struct {
	Dirs []string `toml:"dirs"`
}

// ManifestConfig locates the externally maintained builtin/app index.
type ManifestConfig struct {
	Path string `toml:"path"`
}

// Default returns the compiled-in configuration. The suggested section
// mirrors the grouping defaults so the two cannot drift apart.
func Default() Config {
	g := grouping.DefaultConfig()
	return Config{
		Usage: UsageConfig{
			Path:         filepath.Join(defaultStateDir(), "usage.json"),
			HalfLifeDays: frecency.DefaultHalfLifeDays,
			Track:        true,
		},
		Suggested: SuggestedConfig{
			Enabled:  g.Enabled,
			MaxItems: g.MaxItems,
			MinScore: g.MinScore,
			Excluded: g.Excluded,
		},
		Scripts: ScriptsConfig{
			Dirs: []string{filepath.Join(defaultDataDir(), "scripts")},
		},
		Manifest: ManifestConfig{
			Path: filepath.Join(defaultDataDir(), "manifest.json"),
		},
	}
}

// DefaultPath returns the default configuration file location.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "keylaunch", "config.toml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "keylaunch", "config.toml")
}

func defaultStateDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "keylaunch")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "keylaunch")
}

func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "keylaunch")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "keylaunch")
}

// Load reads the configuration file at path, or the default location when
// path is empty. A missing file returns the defaults with a nil error.
// Paths in the result are expanded.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		perr := &ParseError{
			Path:    path,
			Message: err.Error(),
			Err:     err,
		}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
			perr.Message = derr.Error()
		}
		return Default(), perr
	}

	cfg.expandPaths()
	return cfg, nil
}

func (c *Config) expandPaths() {
	c.Usage.Path = ExpandPath(c.Usage.Path)
	c.Manifest.Path = ExpandPath(c.Manifest.Path)
	for i, dir := range c.Scripts.Dirs {
		c.Scripts.Dirs[i] = ExpandPath(dir)
	}
}

// ExpandPath expands a leading "~" to the user home directory and
// environment variables in $VAR or ${VAR} form.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return os.ExpandEnv(path)
}

// StoreOptions translates the usage section into frecency store options.
func (c Config) StoreOptions() []frecency.Option {
	opts := []frecency.Option{frecency.WithHalfLife(c.Usage.HalfLifeDays)}
	if len(c.Suggested.Excluded) > 0 {
		opts = append(opts, frecency.WithExcluded(c.Suggested.Excluded...))
	}
	return opts
}

// GroupingConfig translates the suggested section into the grouping
// assembler's configuration.
func (c Config) GroupingConfig() grouping.Config {
	return grouping.Config{
		Enabled:  c.Suggested.Enabled,
		MaxItems: c.Suggested.MaxItems,
		MinScore: c.Suggested.MinScore,
		Excluded: c.Suggested.Excluded,
	}
}
