package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 1280, cfg.Browser.ViewportWidth)
	assert.Equal(t, 800, cfg.Browser.ViewportHeight)
	assert.Contains(t, cfg.Browser.UserAgent, "Chrome/119.0.0.0")

	assert.Equal(t, 60*time.Second, cfg.Navigation.Timeout)
	assert.Equal(t, 5*time.Second, cfg.Navigation.ProfileSettleDelay)
	assert.Equal(t, 3*time.Second, cfg.Navigation.PostSettleDelay)
	assert.Equal(t, 30*time.Second, cfg.Navigation.ProfileReadyTimeout)
	assert.Equal(t, 15*time.Second, cfg.Navigation.PostReadyTimeout)
	assert.Equal(t, 3, cfg.Navigation.ScrollCycles)

	assert.Equal(t, 12, cfg.Extraction.MaxPosts)
	assert.False(t, cfg.Extraction.ExpandStatSuffixes, "stat suffix expansion must be opt-in")
	assert.Equal(t, 100_000_000, cfg.Extraction.MaxLikes)
	assert.Equal(t, 10_000_000, cfg.Extraction.MaxComments)

	assert.Equal(t, filepath.Join("public", "instaurl.json"), cfg.Output.Path)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.False(t, cfg.Media.Enabled)

	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("IGPROFILE_USER_AGENT", "test-agent")
	t.Setenv("IGPROFILE_HEADLESS", "false")
	t.Setenv("IGPROFILE_NAVIGATION_TIMEOUT", "45s")
	t.Setenv("IGPROFILE_SCROLL_CYCLES", "1")
	t.Setenv("IGPROFILE_EXPAND_STAT_SUFFIXES", "true")
	t.Setenv("IGPROFILE_OUTPUT", "/tmp/out.json")
	t.Setenv("IGPROFILE_MEDIA_ENABLED", "true")
	t.Setenv("IGPROFILE_REQUESTS_PER_MINUTE", "30")
	t.Setenv("IGPROFILE_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "test-agent", cfg.Browser.UserAgent)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, 45*time.Second, cfg.Navigation.Timeout)
	assert.Equal(t, 1, cfg.Navigation.ScrollCycles)
	assert.True(t, cfg.Extraction.ExpandStatSuffixes)
	assert.Equal(t, "/tmp/out.json", cfg.Output.Path)
	assert.True(t, cfg.Media.Enabled)
	assert.Equal(t, 30, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromEnvInvalidDuration(t *testing.T) {
	t.Setenv("IGPROFILE_NAVIGATION_TIMEOUT", "soon")

	cfg := DefaultConfig()
	assert.Error(t, cfg.LoadFromEnv())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantError bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"empty user agent", func(c *Config) { c.Browser.UserAgent = "" }, true},
		{"zero viewport", func(c *Config) { c.Browser.ViewportWidth = 0 }, true},
		{"zero navigation timeout", func(c *Config) { c.Navigation.Timeout = 0 }, true},
		{"negative scroll cycles", func(c *Config) { c.Navigation.ScrollCycles = -1 }, true},
		{"negative settle delay", func(c *Config) { c.Navigation.PostSettleDelay = -time.Second }, true},
		{"too many posts", func(c *Config) { c.Extraction.MaxPosts = 13 }, true},
		{"no posts", func(c *Config) { c.Extraction.MaxPosts = 0 }, true},
		{"empty output path", func(c *Config) { c.Output.Path = "" }, true},
		{"yaml output", func(c *Config) { c.Output.Format = "yaml" }, false},
		{"xml output", func(c *Config) { c.Output.Format = "xml" }, true},
		{"media without workers", func(c *Config) {
			c.Media.Enabled = true
			c.Media.ConcurrentDownloads = 0
		}, true},
		{"disabled media ignores workers", func(c *Config) { c.Media.ConcurrentDownloads = 0 }, false},
		{"invalid log level", func(c *Config) { c.Logging.Level = "loud" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
navigation:
  timeout: 90s
  scroll_cycles: 1
extraction:
  expand_stat_suffixes: true
output:
  path: out/profile.yaml
  format: yaml
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, 90*time.Second, cfg.Navigation.Timeout)
	assert.Equal(t, 1, cfg.Navigation.ScrollCycles)
	assert.True(t, cfg.Extraction.ExpandStatSuffixes)
	assert.Equal(t, "out/profile.yaml", cfg.Output.Path)
	assert.Equal(t, "yaml", cfg.Output.Format)
	// untouched sections keep their defaults
	assert.Equal(t, 1280, cfg.Browser.ViewportWidth)
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Output.Format = "yaml"
	require.NoError(t, cfg.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var loaded Config
	require.NoError(t, yaml.Unmarshal(data, &loaded))
	assert.Equal(t, "yaml", loaded.Output.Format)
	assert.Equal(t, cfg.Navigation.Timeout, loaded.Navigation.Timeout)
}

func TestMergeCommandLineFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MergeCommandLineFlags(map[string]interface{}{
		"output":               "custom.json",
		"log-level":            "warn",
		"expand-stat-suffixes": true,
		"download-media":       true,
		"headful":              true,
	})

	assert.Equal(t, "custom.json", cfg.Output.Path)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.True(t, cfg.Extraction.ExpandStatSuffixes)
	assert.True(t, cfg.Media.Enabled)
	assert.False(t, cfg.Browser.Headless)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: warn\n"), 0644))

	t.Setenv("HOME", dir)
	t.Setenv("IGPROFILE_LOG_LEVEL", "error")

	cfg, err := Load(path, map[string]interface{}{"output": "flag.json"})
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Logging.Level, "env overrides file")
	assert.Equal(t, "flag.json", cfg.Output.Path, "flags override defaults")
}
