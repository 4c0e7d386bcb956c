package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/term"
)

// Color modes accepted by the color setting
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds the settings shared by the server, the REPL and the CLI
type Config struct {
	SocketPath  string `toml:"socket_path"`
	Color       string `toml:"color"`
	Prompt      string `toml:"prompt"`
	HistoryFile string `toml:"history_file"`
	MaxOutput   int    `toml:"max_output"`
}

// DefaultConfig returns the settings used when no file or environment overrides exist
func DefaultConfig() *Config {
	cfg := &Config{
		SocketPath: filepath.Join(os.TempDir(), "wowstr.sock"),
		Color:      ColorAuto,
		Prompt:     "wowstr> ",
	}
	if dir, err := configDir(); err == nil {
		cfg.HistoryFile = filepath.Join(dir, "history")
	}
	return cfg
}

// configDir returns ~/.config/wowstr (or the platform equivalent)
func configDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "wowstr"), nil
}

// DefaultConfigPath returns the path checked when -config is not given
func DefaultConfigPath() string {
	dir, err := configDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "config.toml")
}

// LoadConfig reads the TOML file at path on top of the defaults, then applies
// environment overrides. An empty path means the default location, which may
// be absent; an explicit path must exist.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}

	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		switch {
		case err == nil:
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				keys := make([]string, len(undecoded))
				for i, k := range undecoded {
					keys[i] = k.String()
				}
				sort.Strings(keys)
				return nil, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
			}
		case errors.Is(err, os.ErrNotExist) && !explicit:
			// no config file at the default location
		default:
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides settings from WOWSTR_* variables
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("WOWSTR_SOCKET"); ok && v != "" {
		c.SocketPath = v
	}
	if v, ok := lookup("WOWSTR_COLOR"); ok && v != "" {
		c.Color = strings.ToLower(v)
	}
	if v, ok := lookup("WOWSTR_MAX_OUTPUT"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("WOWSTR_MAX_OUTPUT: %w", err)
		}
		c.MaxOutput = n
	}
	return nil
}

// Validate checks that every setting is usable
func (c *Config) Validate() error {
	if c.SocketPath == "" {
		return errors.New("config: socket_path must not be empty")
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("config: color must be %q, %q or %q, got %q", ColorAuto, ColorAlways, ColorNever, c.Color)
	}
	if c.MaxOutput < 0 {
		return fmt.Errorf("config: max_output must not be negative, got %d", c.MaxOutput)
	}
	return nil
}

// UseColor decides whether output written to f should be colored
func (c *Config) UseColor(f *os.File) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	return f != nil && term.IsTerminal(int(f.Fd()))
}
