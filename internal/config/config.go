package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"invo/internal/logger"
)

// Config holds all engine configuration.
type Config struct {
	Data    DataConfig
	Log     LogConfig
	FX      FXConfig
	Invoice InvoiceConfig
}

// DataConfig locates the persisted domain records, ledger and rate cache.
type DataConfig struct {
	Dir string
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string
	Format     string
	TimeFormat string
	Output     string
}

// FXConfig holds exchange-rate provider and fallback settings.
type FXConfig struct {
	ProviderURL        string
	Timeout            time.Duration
	MaxAttempts        int
	InitialBackoff     time.Duration
	FallbackEnabled    bool
	FallbackWindowDays int
}

// InvoiceConfig holds calendar policy settings.
type InvoiceConfig struct {
	DatePolicy string   // end_of_month or last_business_day
	Weekend    []string // weekday names that are not working days
}

// Load loads configuration from an optional invo.yaml file and environment
// variables. Priority (highest to lowest):
//  1. Environment variables with INVO_ prefix (e.g. INVO_DATA_DIR)
//  2. invo.yaml in the working directory or ~/.config/invo
//  3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("invo")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "invo"))
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file is fine, defaults and env vars apply.
	}

	v.SetEnvPrefix("INVO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		Data: DataConfig{
			Dir: v.GetString("data.dir"),
		},
		Log: LogConfig{
			Level:      v.GetString("log.level"),
			Format:     v.GetString("log.format"),
			TimeFormat: v.GetString("log.time_format"),
			Output:     v.GetString("log.output"),
		},
		FX: FXConfig{
			ProviderURL:        v.GetString("fx.provider_url"),
			Timeout:            v.GetDuration("fx.timeout"),
			MaxAttempts:        v.GetInt("fx.max_attempts"),
			InitialBackoff:     v.GetDuration("fx.initial_backoff"),
			FallbackEnabled:    v.GetBool("fx.fallback_enabled"),
			FallbackWindowDays: v.GetInt("fx.fallback_window_days"),
		},
		Invoice: InvoiceConfig{
			DatePolicy: v.GetString("invoice.date_policy"),
			Weekend:    v.GetStringSlice("invoice.weekend"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data.dir", defaultDataDir())
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.time_format", time.RFC3339)
	v.SetDefault("log.output", "stderr")
	v.SetDefault("fx.provider_url", "https://api.frankfurter.app")
	v.SetDefault("fx.timeout", 15*time.Second)
	v.SetDefault("fx.max_attempts", 3)
	v.SetDefault("fx.initial_backoff", 500*time.Millisecond)
	v.SetDefault("fx.fallback_enabled", false)
	v.SetDefault("fx.fallback_window_days", 7)
	v.SetDefault("invoice.date_policy", "end_of_month")
	v.SetDefault("invoice.weekend", []string{"saturday", "sunday"})
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "invo")
	}
	return ".invo"
}

func (c *Config) validate() error {
	if c.Data.Dir == "" {
		return fmt.Errorf("data.dir is required")
	}
	switch c.Invoice.DatePolicy {
	case "end_of_month", "last_business_day":
	default:
		return fmt.Errorf("invoice.date_policy must be end_of_month or last_business_day")
	}
	if c.FX.MaxAttempts < 1 {
		return fmt.Errorf("fx.max_attempts must be at least 1")
	}
	if c.FX.FallbackWindowDays < 1 {
		return fmt.Errorf("fx.fallback_window_days must be at least 1")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.Log.Level,
		Format:     c.Log.Format,
		TimeFormat: c.Log.TimeFormat,
		Output:     c.Log.Output,
	}
}
