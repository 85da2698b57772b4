package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastProfile = DeviceProfile{ViewportWidth: 1920, LogicalCores: 16}

func TestParseTheme(t *testing.T) {
	theme, err := ParseTheme("dark")
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, theme)

	theme, err = ParseTheme("light")
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, theme)

	_, err = ParseTheme("solarized")
	assert.Error(t, err)
}

func TestForThemeValidates(t *testing.T) {
	for _, theme := range []Theme{ThemeDark, ThemeLight} {
		t.Run(string(theme), func(t *testing.T) {
			cfg := ForTheme(theme, fastProfile)
			assert.NoError(t, cfg.Validate())
			assert.NotEmpty(t, cfg.Background)
			assert.Equal(t, theme, cfg.Theme)
		})
	}
}

func TestForThemeLowPower(t *testing.T) {
	full := ForTheme(ThemeDark, fastProfile)
	low := ForTheme(ThemeDark, DeviceProfile{ViewportWidth: 480, LogicalCores: 2})

	assert.Less(t, low.NodeCount, full.NodeCount)
	assert.Less(t, low.ParticleCount, full.ParticleCount)
	assert.Greater(t, low.FrameSkip, full.FrameSkip)
	assert.NoError(t, low.Validate())
}

func TestValidate(t *testing.T) {
	base := ForTheme(ThemeDark, fastProfile)

	cases := map[string]func(*Config){
		"negative node count":  func(c *Config) { c.NodeCount = -1 },
		"inverted connections": func(c *Config) { c.MinConnections = 5; c.MaxConnections = 2 },
		"inverted branches":    func(c *Config) { c.MinBranches = 4; c.MaxBranches = 1 },
		"negative particles":   func(c *Config) { c.ParticleCount = -3 },
		"too few samples":      func(c *Config) { c.ParticleSamples = 1 },
		"zero frame skip":      func(c *Config) { c.FrameSkip = 0 },
		"decay out of range":   func(c *Config) { c.PulseDecay = 1.0 },
		"zero fps":             func(c *Config) { c.TargetFPS = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := base
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	t.Run("zero node count is valid", func(t *testing.T) {
		cfg := base
		cfg.NodeCount = 0
		assert.NoError(t, cfg.Validate())
	})
}

func TestOverrides(t *testing.T) {
	base := ForTheme(ThemeDark, fastProfile)

	t.Run("nil overrides keep defaults", func(t *testing.T) {
		assert.Equal(t, base, base.Apply(nil))
	})

	t.Run("set fields replace, unset fields keep", func(t *testing.T) {
		nodes := 7
		bg := "#112233"
		merged := base.Apply(&Overrides{NodeCount: &nodes, Background: &bg})

		assert.Equal(t, 7, merged.NodeCount)
		assert.Equal(t, "#112233", merged.Background)
		assert.Equal(t, base.ParticleCount, merged.ParticleCount)
		assert.Equal(t, base.EdgeColor, merged.EdgeColor)
	})
}

func TestLoadOverrides(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		o, err := LoadOverrides("")
		require.NoError(t, err)
		assert.Nil(t, o)
	})

	t.Run("missing file is not an error", func(t *testing.T) {
		o, err := LoadOverrides(filepath.Join(t.TempDir(), "nope.toml"))
		require.NoError(t, err)
		assert.Nil(t, o)
	})

	t.Run("loads and merges", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tuning.toml")
		require.NoError(t, os.WriteFile(path, []byte("node_count = 12\ntrail_alpha = 0.3\n"), 0o644))

		o, err := LoadOverrides(path)
		require.NoError(t, err)
		require.NotNil(t, o)

		merged := ForTheme(ThemeDark, fastProfile).Apply(o)
		assert.Equal(t, 12, merged.NodeCount)
		assert.Equal(t, 0.3, merged.TrailAlpha)
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.toml")
		require.NoError(t, os.WriteFile(path, []byte("node_count = }{"), 0o644))

		_, err := LoadOverrides(path)
		assert.Error(t, err)
	})
}
