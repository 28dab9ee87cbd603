// Package config loads and persists leetchart settings.
//
// Settings live in a YAML file (default ~/.leetchart.yaml) and can be
// overridden with LEETCHART_* environment variables. Values are clamped to
// sane ranges after every load.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	envPrefix      = "LEETCHART"
	configFileName = ".leetchart.yaml"
)

// Theme names.
const (
	ThemeAuto  = "auto"
	ThemeDay   = "day"
	ThemeNight = "night"
)

// Keys accepted by Set.
const (
	KeyTheme           = "theme"
	KeyHeight          = "height"
	KeyPreviewHeight   = "preview_height"
	KeyYTicks          = "y_ticks"
	KeyXTicks          = "x_ticks"
	KeyAnimationMS     = "animation_ms"
	KeyFrameMS         = "frame_ms"
	KeyWatchIntervalMS = "watch_interval_ms"
	KeySentryDSN       = "sentry.dsn"
)

// ValidKeys lists every settable key.
var ValidKeys = []string{
	KeyTheme,
	KeyHeight,
	KeyPreviewHeight,
	KeyYTicks,
	KeyXTicks,
	KeyAnimationMS,
	KeyFrameMS,
	KeyWatchIntervalMS,
	KeySentryDSN,
}

// intRange bounds one numeric key.
type intRange struct {
	def, min, max int
}

var intKeys = map[string]intRange{
	KeyHeight:          {def: 400, min: 50, max: 4000},
	KeyPreviewHeight:   {def: 100, min: 20, max: 1000},
	KeyYTicks:          {def: 6, min: 2, max: 20},
	KeyXTicks:          {def: 8, min: 2, max: 20},
	KeyAnimationMS:     {def: 300, min: 0, max: 5000},
	KeyFrameMS:         {def: 16, min: 5, max: 1000},
	KeyWatchIntervalMS: {def: 500, min: 50, max: 60000},
}

var ErrInvalidKey = errors.New("config: invalid key")

// Config is the resolved configuration.
type Config struct {
	Theme           string       `mapstructure:"theme" yaml:"theme"`
	Height          int          `mapstructure:"height" yaml:"height"`
	PreviewHeight   int          `mapstructure:"preview_height" yaml:"preview_height"`
	YTicks          int          `mapstructure:"y_ticks" yaml:"y_ticks"`
	XTicks          int          `mapstructure:"x_ticks" yaml:"x_ticks"`
	AnimationMS     int          `mapstructure:"animation_ms" yaml:"animation_ms"`
	FrameMS         int          `mapstructure:"frame_ms" yaml:"frame_ms"`
	WatchIntervalMS int          `mapstructure:"watch_interval_ms" yaml:"watch_interval_ms"`
	Sentry          SentryConfig `mapstructure:"sentry" yaml:"sentry"`
}

type SentryConfig struct {
	DSN string `mapstructure:"dsn" yaml:"dsn"`
}

// Animation is the chart transition duration.
func (c Config) Animation() time.Duration {
	return time.Duration(c.AnimationMS) * time.Millisecond
}

// FrameInterval is the delay between animation frames in the terminal.
func (c Config) FrameInterval() time.Duration {
	return time.Duration(c.FrameMS) * time.Millisecond
}

// WatchInterval is the dataset polling interval for --watch.
func (c Config) WatchInterval() time.Duration {
	return time.Duration(c.WatchIntervalMS) * time.Millisecond
}

// Default returns the configuration used when no file or environment
// override is present.
func Default() Config {
	return Config{
		Theme:           ThemeAuto,
		Height:          intKeys[KeyHeight].def,
		PreviewHeight:   intKeys[KeyPreviewHeight].def,
		YTicks:          intKeys[KeyYTicks].def,
		XTicks:          intKeys[KeyXTicks].def,
		AnimationMS:     intKeys[KeyAnimationMS].def,
		FrameMS:         intKeys[KeyFrameMS].def,
		WatchIntervalMS: intKeys[KeyWatchIntervalMS].def,
	}
}

// Manager reads and writes one config file.
type Manager struct {
	v    *viper.Viper
	fs   afero.Fs
	path string
	cfg  Config
}

// DefaultPath returns ~/.leetchart.yaml.
func DefaultPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("config: finding home directory: %v", err)
	}
	return filepath.Join(home, configFileName), nil
}

// Load reads the config at path from fs. A missing file yields the
// defaults; it is created on the first Set.
func Load(fs afero.Fs, path string) (*Manager, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("config: %v", err)
	}

	v := viper.New()
	v.SetFs(fs)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyTheme, ThemeAuto)
	for key, r := range intKeys {
		v.SetDefault(key, r.def)
	}
	v.SetDefault(KeySentryDSN, "")

	exists, err := afero.Exists(fs, path)
	if err != nil {
		return nil, fmt.Errorf("config: %v", err)
	}
	if exists {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %v", path, err)
		}
	}

	m := &Manager{v: v, fs: fs, path: path}
	if err := m.refresh(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) refresh() error {
	var cfg Config
	if err := m.v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("config: decoding %s: %v", m.path, err)
	}
	m.cfg = normalize(cfg)
	return nil
}

// normalize clamps every value into its valid range.
func normalize(cfg Config) Config {
	switch cfg.Theme {
	case ThemeAuto, ThemeDay, ThemeNight:
	default:
		cfg.Theme = ThemeAuto
	}
	clampKey := func(dst *int, key string) {
		r := intKeys[key]
		*dst = max(r.min, min(*dst, r.max))
	}
	clampKey(&cfg.Height, KeyHeight)
	clampKey(&cfg.PreviewHeight, KeyPreviewHeight)
	clampKey(&cfg.YTicks, KeyYTicks)
	clampKey(&cfg.XTicks, KeyXTicks)
	clampKey(&cfg.AnimationMS, KeyAnimationMS)
	clampKey(&cfg.FrameMS, KeyFrameMS)
	clampKey(&cfg.WatchIntervalMS, KeyWatchIntervalMS)
	return cfg
}

func (m *Manager) Config() Config { return m.cfg }
func (m *Manager) Path() string   { return m.path }

// Set validates and stores one key, then writes the file.
func (m *Manager) Set(key, value string) error {
	if !slices.Contains(ValidKeys, key) {
		return fmt.Errorf("%w: %q, valid keys are %v", ErrInvalidKey, key, ValidKeys)
	}

	var parsed any = value
	switch {
	case key == KeyTheme:
		if !slices.Contains([]string{ThemeAuto, ThemeDay, ThemeNight}, value) {
			return fmt.Errorf("config: theme must be auto, day or night, got %q", value)
		}
	case key == KeySentryDSN:
	default:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("config: %s must be an integer: %v", key, err)
		}
		r := intKeys[key]
		if n < r.min || n > r.max {
			return fmt.Errorf("config: %s must be within [%d, %d], got %d", key, r.min, r.max, n)
		}
		parsed = n
	}

	m.v.Set(key, parsed)
	if dir := filepath.Dir(m.path); dir != "" {
		if err := m.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: %v", err)
		}
	}
	if err := m.v.WriteConfigAs(m.path); err != nil {
		return fmt.Errorf("config: writing %s: %v", m.path, err)
	}
	return m.refresh()
}

// YAML renders the resolved configuration.
func (m *Manager) YAML() ([]byte, error) {
	return yaml.Marshal(m.cfg)
}
