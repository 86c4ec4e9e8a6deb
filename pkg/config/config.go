// Package config loads dv settings: defaults, then a YAML file, then DV_*
// environment variables. Command-line flags are applied by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap/zapcore"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/Dicklesworthstone/deck_viewer/pkg/deck"
	"github.com/Dicklesworthstone/deck_viewer/pkg/nav"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = ".dv.yml"

// EnvPrefix prefixes environment overrides: DV_INTERVAL -> interval.
const EnvPrefix = "DV_"

var (
	// ErrInvalid wraps every validation failure.
	ErrInvalid = errors.New("invalid config")
	// ErrUnknownSlide is returned by StartIndex when start names no slide.
	ErrUnknownSlide = errors.New("unknown start slide")
)

// Config corresponds to .dv.yml.
type Config struct {
	Deck      string        `yaml:"deck,omitempty" koanf:"deck"`
	Interval  time.Duration `yaml:"-" koanf:"interval"`
	Autoplay  bool          `yaml:"autoplay" koanf:"autoplay"`
	Start     string        `yaml:"start,omitempty" koanf:"start"`
	Theme     string        `yaml:"theme" koanf:"theme"`
	Mouse     bool          `yaml:"mouse" koanf:"mouse"`
	AltScreen bool          `yaml:"alt_screen" koanf:"alt_screen"`
	LogFile   string        `yaml:"log_file,omitempty" koanf:"log_file"`
	LogLevel  string        `yaml:"log_level" koanf:"log_level"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Interval:  nav.DefaultInterval,
		Theme:     "auto",
		Mouse:     true,
		AltScreen: true,
		LogLevel:  "info",
	}
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (DV_*). A missing file is not an error;
// an empty path skips the file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := c.YAML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// YAML renders the configuration as it would be saved.
func (c *Config) YAML() ([]byte, error) {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshalling config: %w", err)
	}
	return data, nil
}

// MarshalYAML writes the interval as a duration string.
func (c Config) MarshalYAML() (any, error) {
	type plain Config
	return struct {
		plain    `yaml:",inline"`
		Interval string `yaml:"interval"`
	}{plain(c), c.Interval.String()}, nil
}

var validThemes = map[string]bool{
	"auto":  true,
	"dark":  true,
	"light": true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive, got %s", ErrInvalid, c.Interval)
	}
	if !validThemes[c.Theme] {
		return fmt.Errorf("%w: theme %q: must be one of auto, dark, light", ErrInvalid, c.Theme)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level %q: %v", ErrInvalid, c.LogLevel, err)
	}
	return nil
}

// StartIndex resolves Start against d. Start is a slide key or a 1-based
// slide number; numbers out of range are left for the controller to clamp.
func (c *Config) StartIndex(d *deck.Deck) (int, error) {
	if c.Start == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(c.Start); err == nil {
		return n - 1, nil
	}
	if i, ok := d.IndexOf(c.Start); ok {
		return i, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSlide, c.Start)
}
