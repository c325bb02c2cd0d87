package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/neonscene/internal/scene"
)

const (
	DefaultElements         = 40
	DefaultElementsCompact  = 24
	DefaultParticles        = 180
	DefaultParticlesCompact = 90
	DefaultFrameRate        = 60.0
	DefaultDuration         = 10.0
	DefaultFogIntensity     = 1.0
	DefaultFogSpeed         = 1.0
	DefaultLabel            = "neonscene"
	DefaultStreamAddr       = ":8080"

	// AutoCount in Elements or Particles picks the layout default count.
	// Zero is a real count and yields an empty layer.
	AutoCount = -1

	// CompactWidth is the viewport width in pixels below which the scene
	// switches to its reduced layout.
	CompactWidth = 768

	MaxElements     = 400
	MaxParticles    = 4000
	MaxFogIntensity = 1.8
	MaxFogSpeed     = 2.0
	MaxVortex       = 3.0
	MaxFrameRate    = 240.0
)

type Config struct {
	Seed           int64           `yaml:"seed"`
	Compact        bool            `yaml:"compact"`
	Elements       int             `yaml:"elements"`
	Particles      int             `yaml:"particles"`
	FogIntensity   float64         `yaml:"fog_intensity"`
	FogSpeed       float64         `yaml:"fog_speed"`
	VortexStrength float64         `yaml:"vortex_strength"`
	Label          string          `yaml:"label"`
	FrameRate      float64         `yaml:"frame_rate"`
	Duration       float64         `yaml:"duration"`
	Placement      PlacementConfig `yaml:"placement"`
	Stream         StreamConfig    `yaml:"stream"`
	Log            LogConfig       `yaml:"log"`
}

type PlacementConfig struct {
	BoundsX               float64    `yaml:"bounds_x"`
	BoundsY               float64    `yaml:"bounds_y"`
	ForegroundProbability float64    `yaml:"foreground_probability"`
	Exclusion             scene.Rect `yaml:"exclusion"`
	MaxAttempts           int        `yaml:"max_attempts"`
	MarginFactor          float64    `yaml:"margin_factor"`
}

type StreamConfig struct {
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func DefaultConfig() *Config {
	return &Config{
		Elements:     AutoCount,
		Particles:    AutoCount,
		FogIntensity: DefaultFogIntensity,
		FogSpeed:     DefaultFogSpeed,
		Label:        DefaultLabel,
		FrameRate:    DefaultFrameRate,
		Duration:     DefaultDuration,
		Placement: PlacementConfig{
			BoundsX:               4.4,
			BoundsY:               2.6,
			ForegroundProbability: 0.18,
			Exclusion:             scene.Rect{W: 2.4, H: 0.9},
			MaxAttempts:           9000,
			MarginFactor:          1.2,
		},
		Stream: StreamConfig{Addr: DefaultStreamAddr},
		Log:    LogConfig{Level: "info"},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// IsCompact reports whether a viewport of the given pixel width gets the
// reduced layout.
func IsCompact(widthPx int) bool { return widthPx > 0 && widthPx < CompactWidth }

// ElementCount resolves Elements, where AutoCount picks the layout default.
func (c *Config) ElementCount() int {
	if c.Elements >= 0 {
		return c.Elements
	}
	if c.Compact {
		return DefaultElementsCompact
	}
	return DefaultElements
}

// ParticleCount resolves Particles, where AutoCount picks the layout default.
func (c *Config) ParticleCount() int {
	if c.Particles >= 0 {
		return c.Particles
	}
	if c.Compact {
		return DefaultParticlesCompact
	}
	return DefaultParticles
}

// Validate checks every tunable against its documented range. Errors wrap
// scene.ErrParameterBounds.
func (c *Config) Validate() error {
	checks := []error{
		scene.CheckRange("elements", float64(c.Elements), AutoCount, MaxElements),
		scene.CheckRange("particles", float64(c.Particles), AutoCount, MaxParticles),
		scene.CheckRange("fog_intensity", c.FogIntensity, 0, MaxFogIntensity),
		scene.CheckRange("fog_speed", c.FogSpeed, 0, MaxFogSpeed),
		scene.CheckRange("vortex_strength", c.VortexStrength, 0, MaxVortex),
		scene.CheckRange("frame_rate", c.FrameRate, 1, MaxFrameRate),
		scene.CheckRange("duration", c.Duration, 0, 24*3600),
		scene.CheckRange("placement.bounds_x", c.Placement.BoundsX, 0.1, 100),
		scene.CheckRange("placement.bounds_y", c.Placement.BoundsY, 0.1, 100),
		scene.CheckRange("placement.foreground_probability", c.Placement.ForegroundProbability, 0, 1),
		scene.CheckRange("placement.exclusion.w", c.Placement.Exclusion.W, 0, 100),
		scene.CheckRange("placement.exclusion.h", c.Placement.Exclusion.H, 0, 100),
		scene.CheckRange("placement.max_attempts", float64(c.Placement.MaxAttempts), 1, 1e7),
		scene.CheckRange("placement.margin_factor", c.Placement.MarginFactor, 1, 4),
	}
	for _, err := range checks {
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	return nil
}
