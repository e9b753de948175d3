package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, LevelInfo, cfg.MinLevel)
	assert.Equal(t, "app", cfg.FilePrefix)
	assert.Equal(t, "log", cfg.Extension)
	assert.True(t, cfg.ShowTimestamp)
	assert.True(t, cfg.FileOutput)
	assert.True(t, cfg.ConsoleOutput)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxFileSize)
	assert.Equal(t, 5, cfg.MaxFiles)
}

func TestConfigClone(t *testing.T) {
	cfg1 := DefaultConfig()
	cfg1.MinLevel = LevelDebug
	cfg1.LogDir = "/custom/path"

	cfg2 := cfg1.Clone()

	assert.Equal(t, cfg1.MinLevel, cfg2.MinLevel)
	assert.Equal(t, cfg1.LogDir, cfg2.LogDir)

	cfg1.MinLevel = LevelError

	assert.Equal(t, LevelDebug, cfg2.MinLevel)
}

func TestConfigValidateCoercesInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		check  func(t *testing.T, c *Config)
	}{
		{
			name:   "empty log dir falls back to default",
			modify: func(c *Config) { c.LogDir = "" },
			check:  func(t *testing.T, c *Config) { assert.Equal(t, defaultConfig.LogDir, c.LogDir) },
		},
		{
			name:   "extension with leading dot is stripped",
			modify: func(c *Config) { c.Extension = ".log" },
			check:  func(t *testing.T, c *Config) { assert.Equal(t, "log", c.Extension) },
		},
		{
			name:   "non-positive max file size falls back to default",
			modify: func(c *Config) { c.MaxFileSize = -1 },
			check:  func(t *testing.T, c *Config) { assert.Equal(t, int64(defaultMaxFileSize), c.MaxFileSize) },
		},
		{
			name:   "max files below one is clamped to one",
			modify: func(c *Config) { c.MaxFiles = 0 },
			check:  func(t *testing.T, c *Config) { assert.Equal(t, 1, c.MaxFiles) },
		},
		{
			name:   "out of range min level falls back to info",
			modify: func(c *Config) { c.MinLevel = Level(99) },
			check:  func(t *testing.T, c *Config) { assert.Equal(t, LevelInfo, c.MinLevel) },
		},
		{
			name:   "non-positive buffer capacity falls back to default",
			modify: func(c *Config) { c.BufferCapacity = 0 },
			check:  func(t *testing.T, c *Config) { assert.Equal(t, defaultConfig.BufferCapacity, c.BufferCapacity) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			cfg.validate()
			tt.check(t, cfg)
		})
	}
}

func TestApplyOverride(t *testing.T) {
	cfg := DefaultConfig()

	updated, err := cfg.ApplyOverride("min_level=debug", "max_files=3", "use_colors=false")
	require.NoError(t, err)

	assert.Equal(t, LevelDebug, updated.MinLevel)
	assert.Equal(t, 3, updated.MaxFiles)
	assert.False(t, updated.UseColors)

	// Receiver left untouched.
	assert.Equal(t, LevelInfo, cfg.MinLevel)
}

func TestApplyOverrideUnknownKey(t *testing.T) {
	cfg := DefaultConfig()
	_, err := cfg.ApplyOverride("not_a_real_key=1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown config key")
}

func TestApplyOverrideInvalidValue(t *testing.T) {
	cfg := DefaultConfig()
	_, err := cfg.ApplyOverride("max_files=not_a_number")
	require.Error(t, err)
}
