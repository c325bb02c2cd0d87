package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/neonscene/internal/scene"
)

// Presets are complete configurations addressed by name.
var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"calm": preset(func(c *Config) {
		c.FogIntensity = 0.6
		c.FogSpeed = 0.5
		c.Particles = 120
	}),
	"storm": preset(func(c *Config) {
		c.FogIntensity = 1.6
		c.FogSpeed = 1.8
		c.VortexStrength = 2.5
		c.Particles = 360
	}),
	"mobile": preset(func(c *Config) {
		c.Compact = true
		c.FrameRate = 30
	}),
	"dense": preset(func(c *Config) {
		c.Elements = 80
		c.Particles = 600
		c.Placement.BoundsX = 6.4
		c.Placement.BoundsY = 3.6
		c.Placement.MaxAttempts = 20000
	}),
}

func preset(apply func(*Config)) *Config {
	c := DefaultConfig()
	apply(c)
	return c
}

// GetPreset returns a copy of the named preset.
func GetPreset(name string) (*Config, error) {
	cfg, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", scene.ErrUnknownPreset, name)
	}
	c := *cfg
	return &c, nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
