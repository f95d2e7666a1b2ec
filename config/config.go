// Package config provides configuration loading and access for the starfield.
package config

import (
	_ "embed"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/starfield/starfield"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Starfield StarfieldConfig `yaml:"starfield"`
	Hero      HeroConfig      `yaml:"hero"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Headless  HeadlessConfig  `yaml:"headless"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	TargetFPS  int     `yaml:"target_fps"`
	PixelRatio float64 `yaml:"pixel_ratio"` // 0 = ask the window system
}

// StarfieldConfig holds animator options. Zero values take the library defaults.
type StarfieldConfig struct {
	Count       int     `yaml:"count"`
	Speed       float64 `yaml:"speed"`
	TwinkleRate float64 `yaml:"twinkle_rate"` // phase increment per frame
	Color       string  `yaml:"color"`        // #RRGGBB or #RRGGBBAA
}

// HeroConfig holds the hero section the starfield sits behind.
type HeroConfig struct {
	Title          string `yaml:"title"`
	Tagline        string `yaml:"tagline"`
	BackdropTop    string `yaml:"backdrop_top"`
	BackdropBottom string `yaml:"backdrop_bottom"`
	ShowHUD        bool   `yaml:"show_hud"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"`          // frames per population stats window
	PerfCollectorWindow int `yaml:"perf_collector_window"` // frames kept for perf averages
}

// HeadlessConfig holds settings for runs without a display.
type HeadlessConfig struct {
	Width          int `yaml:"width"`
	Height         int `yaml:"height"`
	ResizeInterval int `yaml:"resize_interval"` // frames between synthetic resizes (0 = never)
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Color          color.NRGBA
	BackdropTop    color.NRGBA
	BackdropBottom color.NRGBA
	FrameInterval  time.Duration     // 1/TargetFPS
	Options        starfield.Options // Starfield section with defaults applied
}

// global holds the loaded configuration. It is swapped whole on reload.
var global atomic.Pointer[Config]

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global.Store(cfg)
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	cfg := global.Load()
	if cfg == nil {
		panic("config: Cfg() called before Init()")
	}
	return cfg
}

// Set replaces the global configuration, e.g. after a reload.
func Set(cfg *Config) {
	global.Store(cfg)
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg, err := Defaults()
	if err != nil {
		return nil, err
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Defaults returns the embedded defaults without derived values.
func Defaults() (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	var err error
	if c.Derived.Color, err = ParseColor(c.Starfield.Color); err != nil {
		return fmt.Errorf("starfield.color: %w", err)
	}
	if c.Derived.BackdropTop, err = ParseColor(c.Hero.BackdropTop); err != nil {
		return fmt.Errorf("hero.backdrop_top: %w", err)
	}
	if c.Derived.BackdropBottom, err = ParseColor(c.Hero.BackdropBottom); err != nil {
		return fmt.Errorf("hero.backdrop_bottom: %w", err)
	}

	fps := c.Screen.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	c.Derived.FrameInterval = time.Second / time.Duration(fps)

	opts := starfield.Options{
		Count:       c.Starfield.Count,
		Speed:       c.Starfield.Speed,
		TwinkleRate: c.Starfield.TwinkleRate,
		Color:       c.Derived.Color,
	}.WithDefaults()
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("starfield: %w", err)
	}
	c.Derived.Options = opts
	return nil
}

// ParseColor parses #RGB, #RRGGBB or #RRGGBBAA. Empty input returns the zero
// color, which callers treat as "use the default".
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return color.NRGBA{}, nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
