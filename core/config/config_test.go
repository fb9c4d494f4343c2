package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankit-chaubey/media-extract/core"
	"github.com/ankit-chaubey/media-extract/core/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaultsWhenAbsent(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, filepath.Join(tempHome, ".config", "media-extract", "config.toml"), resolved)

	assert.Equal(t, []string{"image", "audio", "video"}, cfg.ExtractTypes)
	assert.False(t, cfg.EnableGeoResolver)
	assert.Equal(t, "zh", cfg.Locale)
	assert.Equal(t, "ffprobe", cfg.FFprobe.Binary)
	assert.Equal(t, 5*time.Second, cfg.FFprobeTimeout())
	assert.Equal(t, 10*time.Second, cfg.GeoTimeout())
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout())
	assert.Equal(t, "https://nominatim.openstreetmap.org", cfg.Geo.BaseURL)
	assert.Equal(t, "AstrBot-ExtractPlugin/1.0.0", cfg.Geo.UserAgent)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
extract_types = [" Image ", "video", "image"]
enable_geo_resolver = true
proxy = "http://127.0.0.1:7890"
locale = "EN"

[ffprobe]
binary = "/usr/local/bin/ffprobe"
timeout_seconds = 8

[geo]
base_url = "https://geo.example.com/"

[logging]
level = "DEBUG"
`)

	cfg, resolved, exists, err := config.Load(path)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, path, resolved)

	assert.Equal(t, []string{"image", "video"}, cfg.ExtractTypes)
	assert.Equal(t, []core.Category{core.CategoryImage, core.CategoryVideo}, cfg.Categories())
	assert.True(t, cfg.EnableGeoResolver)
	assert.Equal(t, "http://127.0.0.1:7890", cfg.Proxy)
	assert.Equal(t, "en", cfg.Locale)
	assert.Equal(t, "/usr/local/bin/ffprobe", cfg.FFprobe.Binary)
	assert.Equal(t, 8*time.Second, cfg.FFprobeTimeout())
	assert.Equal(t, "https://geo.example.com", cfg.Geo.BaseURL)
	assert.Equal(t, "AstrBot-ExtractPlugin/1.0.0", cfg.Geo.UserAgent)
	assert.Equal(t, 10, cfg.Geo.TimeoutSeconds)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadMissingExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.toml")
	cfg, resolved, exists, err := config.Load(path)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, path, resolved)
	assert.Equal(t, config.Default().ExtractTypes, cfg.ExtractTypes)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"unknown type":     `extract_types = ["image", "document"]`,
		"unknown locale":   `locale = "fr"`,
		"negative timeout": "[ffprobe]\ntimeout_seconds = -1",
		"bad proxy scheme": `proxy = "ftp://proxy:21"`,
		"proxy no host":    `proxy = "http://"`,
		"bad level":        "[logging]\nlevel = \"loud\"",
		"unknown field":    `colour = "blue"`,
		"malformed":        `extract_types = [`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, _, err := config.Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestSilentLevelAccepted(t *testing.T) {
	cfg, _, _, err := config.Load(writeConfig(t, "[logging]\nlevel = \"silent\""))
	require.NoError(t, err)
	assert.Equal(t, "silent", cfg.Logging.Level)
}

func TestCreateSampleMatchesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	require.NoError(t, config.CreateSample(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded config.Config
	require.NoError(t, toml.Unmarshal(data, &decoded))
	assert.Equal(t, config.Default(), decoded)

	cfg, _, exists, err := config.Load(path)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, config.Default(), *cfg)
}
