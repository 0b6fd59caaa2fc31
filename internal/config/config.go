// Package config loads startup configuration from yutto-gui.yaml and
// YUTTO_GUI_* environment variables. It is read-only: nothing the user
// changes in the UI is written back.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ytget/yutto-gui/internal/events"
	"github.com/ytget/yutto-gui/internal/platform"
)

// Config file and environment naming
const (
	ConfigName = "yutto-gui"
	ConfigType = "yaml"
	EnvPrefix  = "YUTTO_GUI"
)

// Configuration keys
const (
	KeyExecutable   = "executable"
	KeyOutputDir    = "output_dir"
	KeyParseTimeout = "parse_timeout"
	KeyKillGrace    = "kill_grace"
	KeyPollInterval = "poll_interval"
	KeyMaxLogLines  = "max_log_lines"
	KeyVerbose      = "verbose"
	KeyTUI          = "tui"
)

// DefaultMaxLogLines caps the on-screen log
const DefaultMaxLogLines = 5000

// Config holds application configuration
type Config struct {
	Executable   string        `mapstructure:"executable"`
	OutputDir    string        `mapstructure:"output_dir"`
	ParseTimeout time.Duration `mapstructure:"parse_timeout"`
	KillGrace    time.Duration `mapstructure:"kill_grace"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	MaxLogLines  int           `mapstructure:"max_log_lines"`
	Verbose      bool          `mapstructure:"verbose"`
	TUI          bool          `mapstructure:"tui"`
}

// Default returns a Config with default values
func Default() *Config {
	return &Config{
		Executable:   platform.DefaultExecutable(),
		ParseTimeout: platform.DefaultParseTimeout,
		KillGrace:    platform.DefaultKillGrace,
		PollInterval: events.DefaultPollInterval,
		MaxLogLines:  DefaultMaxLogLines,
	}
}

// Load reads yutto-gui.yaml from the system, user and working directories
// (first match wins) and applies YUTTO_GUI_* overrides. A missing file is
// not an error.
func Load() (*Config, error) {
	v := newViper()
	v.SetConfigName(ConfigName)
	v.SetConfigType(ConfigType)

	v.AddConfigPath(filepath.Join("/etc", ConfigName))
	if configDir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(configDir, ConfigName))
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return decode(v)
}

// LoadFromFile loads configuration from a specific file
func LoadFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Every key needs a default so AutomaticEnv sees it during Unmarshal
	cfg := Default()
	v.SetDefault(KeyExecutable, cfg.Executable)
	v.SetDefault(KeyOutputDir, cfg.OutputDir)
	v.SetDefault(KeyParseTimeout, cfg.ParseTimeout)
	v.SetDefault(KeyKillGrace, cfg.KillGrace)
	v.SetDefault(KeyPollInterval, cfg.PollInterval)
	v.SetDefault(KeyMaxLogLines, cfg.MaxLogLines)
	v.SetDefault(KeyVerbose, cfg.Verbose)
	v.SetDefault(KeyTUI, cfg.TUI)
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the rest of the program cannot work with
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Executable) == "" {
		return fmt.Errorf("%s must not be empty", KeyExecutable)
	}
	if c.ParseTimeout <= 0 {
		return fmt.Errorf("%s must be positive, got %s", KeyParseTimeout, c.ParseTimeout)
	}
	if c.KillGrace <= 0 {
		return fmt.Errorf("%s must be positive, got %s", KeyKillGrace, c.KillGrace)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("%s must be positive, got %s", KeyPollInterval, c.PollInterval)
	}
	if c.MaxLogLines < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", KeyMaxLogLines, c.MaxLogLines)
	}
	return nil
}
