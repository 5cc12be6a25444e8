// Package config loads combviz settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/combviz/config.toml unless another path
// is given. Every key is optional:
//
//	output    = "simplicity.svg"
//	format    = "svg"        # dot, svg, png, pdf or json
//	sharing   = "maximal"    # maximal or full
//	mode      = "truncate"   # truncate or reachable
//	ranksep   = 0.5
//	cache     = true
//	cache_ttl = "168h"
//
// Values from the file replace the built-in defaults returned by [Default].
// Command-line flags are applied by the caller on top of the loaded config.
package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/combviz/pkg/errors"
)

// FileName is the name of the config file inside the config directory.
const FileName = "config.toml"

// Allowed values for the enumerated settings.
var (
	Formats      = []string{"dot", "svg", "png", "pdf", "json"}
	SharingModes = []string{"maximal", "full"}
	RenderModes  = []string{"truncate", "reachable"}
)

// Duration is a time.Duration written as a Go duration string ("36h", "90m").
type Duration time.Duration

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText formats the duration as a Go duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Config holds every user-adjustable setting.
type Config struct {
	Output   string   `toml:"output"`
	Format   string   `toml:"format"`
	Sharing  string   `toml:"sharing"`
	Mode     string   `toml:"mode"`
	RankSep  float64  `toml:"ranksep"`
	Cache    bool     `toml:"cache"`
	CacheTTL Duration `toml:"cache_ttl"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Output:   "simplicity.svg",
		Format:   "svg",
		Sharing:  "maximal",
		Mode:     "truncate",
		RankSep:  0.5,
		Cache:    true,
		CacheTTL: Duration(7 * 24 * time.Hour),
	}
}

// TTL returns the cache lifetime as a time.Duration.
func (c Config) TTL() time.Duration { return time.Duration(c.CacheTTL) }

// Validate checks the enumerated settings and numeric ranges.
func (c Config) Validate() error {
	if err := errors.ValidateChoice("format", c.Format, Formats...); err != nil {
		return err
	}
	if err := errors.ValidateChoice("sharing", c.Sharing, SharingModes...); err != nil {
		return err
	}
	if err := errors.ValidateChoice("mode", c.Mode, RenderModes...); err != nil {
		return err
	}
	if c.RankSep <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "ranksep must be positive, got %g", c.RankSep)
	}
	if c.CacheTTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache_ttl must not be negative")
	}
	return nil
}

// Dir returns the combviz config directory, honoring XDG_CONFIG_HOME.
func Dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "combviz"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home directory: %w", err)
	}
	return filepath.Join(home, ".config", "combviz"), nil
}

// DefaultPath returns the location of the config file.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load reads the config file at path over the defaults. An empty path means
// [DefaultPath], which may be absent; an explicit path must exist.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && stderrors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		if stderrors.Is(err, os.ErrNotExist) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file not found: %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeIO, err, "read config %s", path)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	cfg.Path = path
	return cfg, nil
}

// Parse decodes TOML data over the defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
