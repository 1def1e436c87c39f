package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/oxleyk/meridian/internal/grid"
)

// TelemetryConfig controls the JSONL event stream.
type TelemetryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// WeatherConfig controls the weather collaborator.
type WeatherConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Endpoint       string `mapstructure:"endpoint"`
	RefreshMinutes int    `mapstructure:"refresh_minutes"`
}

// Config holds all runtime configuration for a meridian session.
// Values are populated from .meridian.yaml, MERIDIAN_* env vars, and CLI
// flags.
type Config struct {
	ReferenceZone    string          `mapstructure:"reference_zone"`
	StepMinutes      int             `mapstructure:"step_minutes"`
	SlotCount        int             `mapstructure:"slot_count"`
	HighlightSeconds int             `mapstructure:"highlight_seconds"`
	NightStartHour   int             `mapstructure:"night_start_hour"`
	NightEndHour     int             `mapstructure:"night_end_hour"`
	ScrollSettleMS   int             `mapstructure:"scroll_settle_ms"`
	DataDir          string          `mapstructure:"data_dir"`
	LogMode          string          `mapstructure:"log_mode"`
	Verbose          bool            `mapstructure:"verbose"`
	Telemetry        TelemetryConfig `mapstructure:"telemetry"`
	Weather          WeatherConfig   `mapstructure:"weather"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags, and validates the
// result. Configuration errors are rejected here, before any grid exists,
// never mid-tick.
func Load() (Config, error) {
	viper.SetDefault("reference_zone", "")
	viper.SetDefault("step_minutes", 30)
	viper.SetDefault("slot_count", 48)
	viper.SetDefault("highlight_seconds", 90)
	viper.SetDefault("night_start_hour", 20)
	viper.SetDefault("night_end_hour", 6)
	viper.SetDefault("scroll_settle_ms", 500)
	viper.SetDefault("data_dir", ".meridian")
	viper.SetDefault("log_mode", "development")
	viper.SetDefault("verbose", false)
	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("telemetry.path", ".meridian/events.jsonl")
	viper.SetDefault("weather.enabled", false)
	viper.SetDefault("weather.endpoint", "https://api.open-meteo.com/v1/forecast")
	viper.SetDefault("weather.refresh_minutes", 20)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every value a bad config file could poison the grid with.
func (c Config) Validate() error {
	if err := grid.ValidateStep(c.StepMinutes); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.SlotCount <= 0 {
		return fmt.Errorf("config: slot_count %d must be positive", c.SlotCount)
	}
	if c.HighlightSeconds < 1 {
		return fmt.Errorf("config: highlight_seconds %d must be positive", c.HighlightSeconds)
	}
	if c.NightStartHour < 0 || c.NightStartHour > 23 {
		return fmt.Errorf("config: night_start_hour %d out of range 0..23", c.NightStartHour)
	}
	if c.NightEndHour < 0 || c.NightEndHour > 23 {
		return fmt.Errorf("config: night_end_hour %d out of range 0..23", c.NightEndHour)
	}
	if c.ScrollSettleMS < 0 {
		return fmt.Errorf("config: scroll_settle_ms %d must not be negative", c.ScrollSettleMS)
	}
	if c.ReferenceZone != "" {
		if _, err := time.LoadLocation(c.ReferenceZone); err != nil {
			return fmt.Errorf("config: reference_zone: unknown timezone %q", c.ReferenceZone)
		}
	}
	if c.Weather.Enabled && c.Weather.RefreshMinutes < 1 {
		return fmt.Errorf("config: weather.refresh_minutes %d must be positive", c.Weather.RefreshMinutes)
	}
	return nil
}

// ReferenceLocation resolves the configured reference zone, defaulting to
// the system's local zone. Validate has already vetted the name.
func (c Config) ReferenceLocation() *time.Location {
	if c.ReferenceZone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.ReferenceZone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Night returns the configured night window.
func (c Config) Night() grid.NightWindow {
	return grid.NightWindow{StartHour: c.NightStartHour, EndHour: c.NightEndHour}
}

// Settle returns the scroll settle window as a duration.
func (c Config) Settle() time.Duration {
	return time.Duration(c.ScrollSettleMS) * time.Millisecond
}
