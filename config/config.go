// Package config holds the immutable visual and behavioral parameters of the
// animation. A Config is selected once at engine construction from the theme
// and a coarse device profile; a theme change requires rebuilding the graph
// with a freshly selected Config.
package config

import (
	"fmt"
	"runtime"
	"time"
)

// Theme selects the color set and tuning profile.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// ParseTheme validates a theme name.
func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case ThemeDark, ThemeLight:
		return Theme(s), nil
	default:
		return "", fmt.Errorf("unknown theme %q (want dark or light)", s)
	}
}

// DeviceProfile is the coarse capability hint sampled once at construction.
type DeviceProfile struct {
	ViewportWidth int
	LogicalCores  int
}

// DetectProfile builds a profile from the runtime and the given viewport.
func DetectProfile(viewportWidth int) DeviceProfile {
	return DeviceProfile{
		ViewportWidth: viewportWidth,
		LogicalCores:  runtime.NumCPU(),
	}
}

// lowPower reports whether the profile warrants reduced visual density.
func (p DeviceProfile) lowPower() bool {
	return (p.ViewportWidth > 0 && p.ViewportWidth < 900) ||
		(p.LogicalCores > 0 && p.LogicalCores <= 4)
}

// Config is an immutable snapshot of all tuning parameters.
type Config struct {
	Theme Theme

	// Topology
	NodeCount       int
	MinConnections  int
	MaxConnections  int
	MinBranches     int
	MaxBranches     int
	NodeRadiusMin   float64
	NodeRadiusMax   float64
	EdgeWidthMin    float64
	EdgeWidthMax    float64
	BranchLengthMin float64
	BranchLengthMax float64
	Jitter          float64 // placement jitter amplitude in pixels

	// Flow animation
	FlowSpeedMin float64 // radians per second of flow-phase advance
	FlowSpeedMax float64

	// Particles
	ParticleCount      int
	ParticleSpeed      float64 // progress fraction per second at ReferenceLength
	ParticleRadius     float64
	ParticleSamples    int     // precomputed curve samples per traversal
	ReferenceLength    float64 // path length at which ParticleSpeed applies as-is
	MaxTravelDistance  float64
	RespawnDelayMin    time.Duration
	RespawnDelayMax    time.Duration
	DegradedRespawnMax time.Duration

	// Rendering
	ViewportMargin float64
	FrameSkip      int           // draw every Nth tick; 1 draws every tick
	TrailAlpha     float64       // per-frame background overlay alpha
	PulseDecay     float64       // geometric decay factor per drawn frame
	PulseSnap      float64       // below this, pulse snaps to exactly 0
	PulseInterval  time.Duration // ambient pulse cadence in animation time
	NodeStagger    int           // node/branch passes run every Nth frame per node
	TargetFPS      int
	LowFPS         float64       // sustained FPS below this triggers degradation

	// Colors as hex strings
	Background    string
	NodeColor     string
	EdgeColor     string
	BranchColor   string
	ParticleColor string
	GlowColor     string
}

// ForTheme returns the frozen parameter set for a theme, scaled down for
// low-power profiles.
func ForTheme(theme Theme, profile DeviceProfile) Config {
	c := Config{
		Theme: theme,

		NodeCount:       48,
		MinConnections:  2,
		MaxConnections:  5,
		MinBranches:     1,
		MaxBranches:     3,
		NodeRadiusMin:   2.0,
		NodeRadiusMax:   4.5,
		EdgeWidthMin:    0.6,
		EdgeWidthMax:    1.4,
		BranchLengthMin: 18,
		BranchLengthMax: 55,
		Jitter:          14,

		FlowSpeedMin: 0.4,
		FlowSpeedMax: 1.3,

		ParticleCount:      18,
		ParticleSpeed:      0.35,
		ParticleRadius:     1.8,
		ParticleSamples:    24,
		ReferenceLength:    220,
		MaxTravelDistance:  620,
		RespawnDelayMin:    200 * time.Millisecond,
		RespawnDelayMax:    1400 * time.Millisecond,
		DegradedRespawnMax: 3500 * time.Millisecond,

		ViewportMargin: 120,
		FrameSkip:      1,
		TrailAlpha:     0.16,
		PulseDecay:     0.95,
		PulseSnap:      0.01,
		PulseInterval:  2300 * time.Millisecond,
		NodeStagger:    2,
		TargetFPS:      60,
		LowFPS:         38,
	}

	switch theme {
	case ThemeLight:
		c.Background = "#f7f8fa"
		c.NodeColor = "#5b6b8c"
		c.EdgeColor = "#9aa7c4"
		c.BranchColor = "#b8c1d6"
		c.ParticleColor = "#4a5a7d"
		c.GlowColor = "#7d8fb8"
	default:
		c.Background = "#0b1020"
		c.NodeColor = "#5e78b8"
		c.EdgeColor = "#2d3d66"
		c.BranchColor = "#22304f"
		c.ParticleColor = "#8fa8e8"
		c.GlowColor = "#6c86c8"
	}

	if profile.lowPower() {
		c.NodeCount = 28
		c.ParticleCount = 9
		c.MaxConnections = 4
		c.MaxBranches = 2
		c.FrameSkip = 2
		c.TargetFPS = 30
	}

	return c
}

// Validate checks internal consistency. A zero NodeCount is valid: the
// engine renders only the background.
func (c Config) Validate() error {
	if c.NodeCount < 0 {
		return fmt.Errorf("node count must be >= 0, got %d", c.NodeCount)
	}
	if c.MinConnections < 0 || c.MaxConnections < c.MinConnections {
		return fmt.Errorf("invalid connection bounds [%d, %d]", c.MinConnections, c.MaxConnections)
	}
	if c.MinBranches < 0 || c.MaxBranches < c.MinBranches {
		return fmt.Errorf("invalid branch bounds [%d, %d]", c.MinBranches, c.MaxBranches)
	}
	if c.ParticleCount < 0 {
		return fmt.Errorf("particle count must be >= 0, got %d", c.ParticleCount)
	}
	if c.ParticleSamples < 2 {
		return fmt.Errorf("particle samples must be >= 2, got %d", c.ParticleSamples)
	}
	if c.FrameSkip < 1 {
		return fmt.Errorf("frame skip must be >= 1, got %d", c.FrameSkip)
	}
	if c.PulseDecay <= 0 || c.PulseDecay >= 1 {
		return fmt.Errorf("pulse decay must be in (0, 1), got %f", c.PulseDecay)
	}
	if c.TargetFPS <= 0 {
		return fmt.Errorf("target FPS must be > 0, got %d", c.TargetFPS)
	}
	return nil
}
