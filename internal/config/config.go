// Package config provides configuration management for the trading journal.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	apperrors "tradejournal/internal/errors"
	"tradejournal/internal/logging"
)

// Config holds all application configuration.
type Config struct {
	Analytics AnalyticsConfig          `mapstructure:"analytics"`
	Goals     map[string]GoalThreshold `mapstructure:"goals"`
	Store     StoreConfig              `mapstructure:"store"`
	Server    ServerConfig             `mapstructure:"server"`
	Logging   logging.LogConfig        `mapstructure:"logging"`
}

// AnalyticsConfig holds performance engine configuration.
type AnalyticsConfig struct {
	Simulations    int   `mapstructure:"simulations"`
	Horizons       []int `mapstructure:"horizons"`
	BandHorizon    int   `mapstructure:"band_horizon"`
	ParallelChunks int   `mapstructure:"parallel_chunks"`
	Workers        int   `mapstructure:"workers"` // 0 = NumCPU
}

// GoalThreshold holds the status multipliers for one goal type.
type GoalThreshold struct {
	OnTrackRatio float64 `mapstructure:"on_track_ratio"`
	BrokenRatio  float64 `mapstructure:"broken_ratio"`
}

// StoreConfig holds persistence configuration.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	ListenAddr   string        `mapstructure:"listen_addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/tradejournal"
	}
	return filepath.Join(home, ".config", "tradejournal")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory. A missing
// config.toml is replaced by the commented template and defaults apply.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v, configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
		if err := createTemplateConfig(configDir); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	v := viper.New()
	setDefaults(v, DefaultConfigDir())
	cfg := &Config{}
	_ = v.Unmarshal(cfg)
	return cfg
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("analytics.simulations", 3000)
	v.SetDefault("analytics.horizons", []int{30, 90, 252})
	v.SetDefault("analytics.band_horizon", 30)
	v.SetDefault("analytics.parallel_chunks", 12)
	v.SetDefault("analytics.workers", 0)

	v.SetDefault("goals.monthly_profit", map[string]interface{}{"on_track_ratio": 0.9, "broken_ratio": 0.5})
	v.SetDefault("goals.win_rate", map[string]interface{}{"on_track_ratio": 0.9, "broken_ratio": 0.5})
	v.SetDefault("goals.consistency", map[string]interface{}{"on_track_ratio": 0.9, "broken_ratio": 0.5})
	v.SetDefault("goals.max_daily_loss", map[string]interface{}{"on_track_ratio": 0.9, "broken_ratio": 1.0})
	v.SetDefault("goals.max_trades_per_day", map[string]interface{}{"on_track_ratio": 0.9, "broken_ratio": 1.0})

	v.SetDefault("store.path", filepath.Join(configDir, "journal.db"))

	v.SetDefault("server.listen_addr", ":8080")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "30s")

	def := logging.DefaultLogConfig()
	v.SetDefault("logging.level", def.Level)
	v.SetDefault("logging.console", def.Console)
	v.SetDefault("logging.file", def.File)
	v.SetDefault("logging.file_path", def.FilePath)
	v.SetDefault("logging.max_size", def.MaxSize)
	v.SetDefault("logging.max_backups", def.MaxBackups)
	v.SetDefault("logging.max_age", def.MaxAge)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TJ_DB_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("TJ_LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv("TJ_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	a := c.Analytics
	if a.Simulations <= 0 {
		return invalid("simulations must be positive")
	}
	if len(a.Horizons) == 0 {
		return invalid("at least one projection horizon is required")
	}
	bandFound := false
	for _, h := range a.Horizons {
		if h <= 0 {
			return invalid("invalid projection horizon: %d", h)
		}
		if h == a.BandHorizon {
			bandFound = true
		}
	}
	if !bandFound {
		return invalid("band_horizon %d must be one of the projection horizons", a.BandHorizon)
	}
	if a.ParallelChunks <= 0 {
		return invalid("parallel_chunks must be positive")
	}
	if a.Workers < 0 {
		return invalid("workers must be non-negative")
	}

	for name, th := range c.Goals {
		if th.OnTrackRatio <= 0 || th.OnTrackRatio > 2 {
			return invalid("goals.%s.on_track_ratio must be in (0, 2]", name)
		}
		if th.BrokenRatio <= 0 || th.BrokenRatio > 2 {
			return invalid("goals.%s.broken_ratio must be in (0, 2]", name)
		}
	}

	if c.Store.Path == "" {
		return invalid("store.path is required")
	}
	return nil
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{apperrors.ErrConfigInvalid}, args...)...)
}
