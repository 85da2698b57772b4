package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Overrides is the optional TOML tuning file. Only set fields replace the
// built-in theme values; everything else keeps its default.
type Overrides struct {
	NodeCount      *int     `toml:"node_count"`
	MinConnections *int     `toml:"min_connections"`
	MaxConnections *int     `toml:"max_connections"`
	MinBranches    *int     `toml:"min_branches"`
	MaxBranches    *int     `toml:"max_branches"`
	ParticleCount  *int     `toml:"particle_count"`
	ParticleSpeed  *float64 `toml:"particle_speed"`
	FrameSkip      *int     `toml:"frame_skip"`
	TrailAlpha     *float64 `toml:"trail_alpha"`
	TargetFPS      *int     `toml:"target_fps"`
	Background     *string  `toml:"background"`
	NodeColor      *string  `toml:"node_color"`
	EdgeColor      *string  `toml:"edge_color"`
	ParticleColor  *string  `toml:"particle_color"`
	GlowColor      *string  `toml:"glow_color"`
}

// LoadOverrides reads a TOML tuning file. A missing path is not an error so
// callers can pass a default location unconditionally.
func LoadOverrides(path string) (*Overrides, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	var o Overrides
	if _, err := toml.DecodeFile(path, &o); err != nil {
		return nil, fmt.Errorf("decoding overrides %s: %w", path, err)
	}
	return &o, nil
}

// Apply returns a copy of c with the overrides merged in.
func (c Config) Apply(o *Overrides) Config {
	if o == nil {
		return c
	}
	if o.NodeCount != nil {
		c.NodeCount = *o.NodeCount
	}
	if o.MinConnections != nil {
		c.MinConnections = *o.MinConnections
	}
	if o.MaxConnections != nil {
		c.MaxConnections = *o.MaxConnections
	}
	if o.MinBranches != nil {
		c.MinBranches = *o.MinBranches
	}
	if o.MaxBranches != nil {
		c.MaxBranches = *o.MaxBranches
	}
	if o.ParticleCount != nil {
		c.ParticleCount = *o.ParticleCount
	}
	if o.ParticleSpeed != nil {
		c.ParticleSpeed = *o.ParticleSpeed
	}
	if o.FrameSkip != nil {
		c.FrameSkip = *o.FrameSkip
	}
	if o.TrailAlpha != nil {
		c.TrailAlpha = *o.TrailAlpha
	}
	if o.TargetFPS != nil {
		c.TargetFPS = *o.TargetFPS
	}
	if o.Background != nil {
		c.Background = *o.Background
	}
	if o.NodeColor != nil {
		c.NodeColor = *o.NodeColor
	}
	if o.EdgeColor != nil {
		c.EdgeColor = *o.EdgeColor
	}
	if o.ParticleColor != nil {
		c.ParticleColor = *o.ParticleColor
	}
	if o.GlowColor != nil {
		c.GlowColor = *o.GlowColor
	}
	return c
}
