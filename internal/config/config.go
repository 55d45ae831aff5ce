// Package config loads ~/.config/gpt-commit-msg/config.toml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds user-wide settings. Everything has a working default;
// the config file and environment only override.
type Config struct {
	Provider  string        `toml:"provider"`
	WrapWidth int           `toml:"wrap_width"`
	Keys      KeysConfig    `toml:"keys"`
	Cache     CacheConfig   `toml:"cache"`
	Request   RequestConfig `toml:"request"`
}

// KeysConfig holds provider API keys. Environment variables
// (OPENAI_API_KEY, ANTHROPIC_API_KEY) override these.
type KeysConfig struct {
	OpenAI    string `toml:"openai"`
	Anthropic string `toml:"anthropic"`
}

// CacheConfig controls the response cache.
type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"` // empty means the default user cache location
}

// RequestConfig tunes completion requests.
type RequestConfig struct {
	MaxParallel       int `toml:"max_parallel"`        // concurrent chunk summarizations
	MaxResponseTokens int `toml:"max_response_tokens"` // commit message response ceiling
}

// Default returns sensible defaults.
func Default() Config {
	return Config{
		Provider:  "openai",
		WrapWidth: 80,
		Cache:     CacheConfig{Enabled: true},
		Request: RequestConfig{
			MaxParallel:       4,
			MaxResponseTokens: 1024,
		},
	}
}

// Path returns the location of the config file.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "gpt-commit-msg", "config.toml"), nil
}

// Load reads the config file, applying defaults for anything missing.
// A missing file is not an error; environment variables override file
// keys either way.
func Load() (Config, error) {
	cfg := Default()

	path, err := Path()
	if err != nil {
		applyEnv(&cfg)
		return cfg, nil // Can't determine home dir — run on defaults.
	}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// Key returns the configured API key for the named provider.
func (c Config) Key(provider string) string {
	switch provider {
	case "openai":
		return c.Keys.OpenAI
	case "anthropic":
		return c.Keys.Anthropic
	default:
		return ""
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Keys.OpenAI = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.Keys.Anthropic = v
	}
}
