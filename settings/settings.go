package settings

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	DefaultMap = "airstrip1"
	DefaultFov = 75

	MinFov = 60
	MaxFov = 120
)

// Config is the mutable session configuration. Only the persisted fields
// carry file tags; the map and first-run token live for the session.
type Config struct {
	MapName string `yaml:"-" toml:"-"`
	Fov     int    `yaml:"fov" toml:"fov"`
	Debug   bool   `yaml:"debug" toml:"debug"`

	FirstRun *FirstRun `yaml:"-" toml:"-"`

	path string
}

// Default returns a configuration with the session defaults.
func Default() *Config {
	return &Config{
		MapName:  DefaultMap,
		Fov:      DefaultFov,
		FirstRun: NewFirstRun(),
	}
}

// ClampFov floors v and clamps it into [MinFov, MaxFov].
func ClampFov(v float64) int {
	if math.IsNaN(v) {
		return DefaultFov
	}
	f := math.Floor(v)
	if f < MinFov {
		return MinFov
	}
	if f > MaxFov {
		return MaxFov
	}
	return int(f)
}

// NormalizeMapName trims a map argument to its bundle key: the basename
// without a .json suffix.
func NormalizeMapName(name string) string {
	name = strings.TrimSpace(name)
	if ext := filepath.Ext(name); strings.EqualFold(ext, ".json") {
		name = strings.TrimSuffix(name, ext)
	}
	return name
}

// SetFov stores the clamped value and returns it.
func (c *Config) SetFov(v float64) int {
	c.Fov = ClampFov(v)
	return c.Fov
}

// Path returns the settings file backing this config, if any.
func (c *Config) Path() string {
	return c.path
}

// Load reads path into a default config. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	cfg.path = path
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("settings: read %s: %w", path, err)
	}

	if isTOML(path) {
		if _, err := toml.Decode(string(b), cfg); err != nil {
			return nil, fmt.Errorf("settings: decode %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("settings: decode %s: %w", path, err)
	}

	cfg.Fov = ClampFov(float64(cfg.Fov))
	return cfg, nil
}

// Save writes the persisted fields back to the config's path.
func (c *Config) Save() error {
	if c == nil || c.path == "" {
		return nil
	}

	var buf bytes.Buffer
	if isTOML(c.path) {
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return fmt.Errorf("settings: encode %s: %w", c.path, err)
		}
	} else {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return fmt.Errorf("settings: encode %s: %w", c.path, err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("settings: encode %s: %w", c.path, err)
		}
	}

	if dir := filepath.Dir(c.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("settings: mkdir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(c.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("settings: write %s: %w", c.path, err)
	}
	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
