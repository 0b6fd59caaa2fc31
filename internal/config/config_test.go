package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NotNil(t, cfg)
	assert.Equal(t, "yutto", cfg.Executable)
	assert.Empty(t, cfg.OutputDir)
	assert.Equal(t, 10*time.Second, cfg.ParseTimeout)
	assert.Equal(t, time.Second, cfg.KillGrace)
	assert.Equal(t, 100*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 5000, cfg.MaxLogLines)
	assert.False(t, cfg.Verbose)
	assert.False(t, cfg.TUI)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Run("returns defaults when no config file exists", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cfg, err := Load()
		require.NoError(t, err)
		require.NotNil(t, cfg)
		assert.Equal(t, 10*time.Second, cfg.ParseTimeout)
		assert.Equal(t, 5000, cfg.MaxLogLines)
	})

	t.Run("reads yutto-gui.yaml from the working directory", func(t *testing.T) {
		tmpDir := t.TempDir()
		t.Chdir(tmpDir)
		content := "output_dir: /srv/videos\nmax_log_lines: 50\n"
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "yutto-gui.yaml"), []byte(content), 0644))

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "/srv/videos", cfg.OutputDir)
		assert.Equal(t, 50, cfg.MaxLogLines)
	})
}

func TestLoadFromFile(t *testing.T) {
	t.Run("returns error for non-existent file", func(t *testing.T) {
		cfg, err := LoadFromFile("/nonexistent/path/yutto-gui.yaml")
		assert.Error(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("invalid: yaml: content: ["), 0644))

		cfg, err := LoadFromFile(configPath)
		assert.Error(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("parses all config fields", func(t *testing.T) {
		configContent := `
executable: /opt/yutto/bin/yutto
output_dir: ~/Videos/bilibili
parse_timeout: 30s
kill_grace: 500ms
poll_interval: 50ms
max_log_lines: 1000
verbose: true
tui: true
`
		configPath := filepath.Join(t.TempDir(), "yutto-gui.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

		cfg, err := LoadFromFile(configPath)
		require.NoError(t, err)

		assert.Equal(t, "/opt/yutto/bin/yutto", cfg.Executable)
		assert.Equal(t, "~/Videos/bilibili", cfg.OutputDir)
		assert.Equal(t, 30*time.Second, cfg.ParseTimeout)
		assert.Equal(t, 500*time.Millisecond, cfg.KillGrace)
		assert.Equal(t, 50*time.Millisecond, cfg.PollInterval)
		assert.Equal(t, 1000, cfg.MaxLogLines)
		assert.True(t, cfg.Verbose)
		assert.True(t, cfg.TUI)
	})

	t.Run("rejects non-positive durations", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "yutto-gui.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("parse_timeout: 0s\n"), 0644))

		cfg, err := LoadFromFile(configPath)
		assert.ErrorContains(t, err, KeyParseTimeout)
		assert.Nil(t, cfg)
	})
}

func TestConfigEnvironmentVariables(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("YUTTO_GUI_EXECUTABLE", "/usr/local/bin/yutto")
	t.Setenv("YUTTO_GUI_PARSE_TIMEOUT", "3s")
	t.Setenv("YUTTO_GUI_VERBOSE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/usr/local/bin/yutto", cfg.Executable)
	assert.Equal(t, 3*time.Second, cfg.ParseTimeout)
	assert.True(t, cfg.Verbose)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty executable", func(c *Config) { c.Executable = " " }},
		{"zero kill grace", func(c *Config) { c.KillGrace = 0 }},
		{"negative poll interval", func(c *Config) { c.PollInterval = -time.Second }},
		{"zero log lines", func(c *Config) { c.MaxLogLines = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
