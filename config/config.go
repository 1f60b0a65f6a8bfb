// Package config provides configuration loading and access for the background engine.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all engine and host configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Particles ParticlesConfig `yaml:"particles"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Style     StyleConfig     `yaml:"style"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds window host settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
	Resizable bool   `yaml:"resizable"`
	HighDPI   bool   `yaml:"highdpi"` // render at the display's native pixel density
}

// ParticlesConfig holds particle population and creation ranges.
type ParticlesConfig struct {
	Count              int     `yaml:"count"`
	ConnectionDistance float64 `yaml:"connection_distance"` // max link length in pixels
	InfluenceRadius    float64 `yaml:"influence_radius"`    // pointer repulsion range in pixels
	MaxSpeed           float64 `yaml:"max_speed"`           // initial velocity components drawn from [-v, v]
	MinRadius          float64 `yaml:"min_radius"`
	MaxRadius          float64 `yaml:"max_radius"`
	MinOpacity         float64 `yaml:"min_opacity"`
	MaxOpacity         float64 `yaml:"max_opacity"`
}

// PhysicsConfig holds per-tick integration constants.
type PhysicsConfig struct {
	Repulsion float64 `yaml:"repulsion"` // velocity change per tick at full pointer force
	Damping   float64 `yaml:"damping"`   // velocity multiplier applied after integration
}

// HSLConfig is a colour in HSL space. Hue in degrees, saturation and lightness in [0, 1].
type HSLConfig struct {
	Hue        float64 `yaml:"hue"`
	Saturation float64 `yaml:"saturation"`
	Lightness  float64 `yaml:"lightness"`
}

// StyleConfig holds rendering colours and stroke settings.
type StyleConfig struct {
	Background   string    `yaml:"background"` // hex colour, empty = transparent
	Particle     HSLConfig `yaml:"particle"`
	Line         HSLConfig `yaml:"line"`
	LineMaxAlpha float64   `yaml:"line_max_alpha"` // alpha of a zero-length link
	LineWidth    float64   `yaml:"line_width"`
}

// TelemetryConfig holds perf collection parameters.
type TelemetryConfig struct {
	PerfWindow int `yaml:"perf_window"` // frames per perf window
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	FrameInterval time.Duration // 1s / Screen.TargetFPS
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
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
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Defaults returns a fresh copy of the embedded defaults.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		// The embedded file is part of the binary; failing to parse it is a build defect.
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ComputeDerived()

	return cfg, nil
}

// Validate reports every out-of-range parameter.
func (c *Config) Validate() error {
	var errs []error
	p := c.Particles
	if p.Count < 0 {
		errs = append(errs, fmt.Errorf("particles.count must be >= 0, got %d", p.Count))
	}
	if p.ConnectionDistance <= 0 {
		errs = append(errs, fmt.Errorf("particles.connection_distance must be > 0, got %g", p.ConnectionDistance))
	}
	if p.InfluenceRadius <= 0 {
		errs = append(errs, fmt.Errorf("particles.influence_radius must be > 0, got %g", p.InfluenceRadius))
	}
	if p.MaxSpeed < 0 {
		errs = append(errs, fmt.Errorf("particles.max_speed must be >= 0, got %g", p.MaxSpeed))
	}
	if p.MinRadius <= 0 || p.MaxRadius < p.MinRadius {
		errs = append(errs, fmt.Errorf("particles radius range [%g, %g] is invalid", p.MinRadius, p.MaxRadius))
	}
	if p.MinOpacity < 0 || p.MaxOpacity > 1 || p.MaxOpacity < p.MinOpacity {
		errs = append(errs, fmt.Errorf("particles opacity range [%g, %g] is invalid", p.MinOpacity, p.MaxOpacity))
	}
	if c.Physics.Damping < 0 || c.Physics.Damping > 1 {
		errs = append(errs, fmt.Errorf("physics.damping must be in [0, 1], got %g", c.Physics.Damping))
	}
	if c.Screen.TargetFPS <= 0 {
		errs = append(errs, fmt.Errorf("screen.target_fps must be > 0, got %d", c.Screen.TargetFPS))
	}
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		errs = append(errs, fmt.Errorf("screen size %dx%d is invalid", c.Screen.Width, c.Screen.Height))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// ComputeDerived calculates values derived from loaded config.
// Call again after mutating fields the derived values depend on.
func (c *Config) ComputeDerived() {
	if c.Screen.TargetFPS > 0 {
		c.Derived.FrameInterval = time.Second / time.Duration(c.Screen.TargetFPS)
	}
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
