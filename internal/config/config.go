// Package config loads and validates the application configuration
// from environment variables and an optional YAML file.
package config

// Config holds all application configuration, grouped by concern.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"   validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
	Session   SessionConfig   `mapstructure:"session"   validate:"required"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains database settings. The URL is optional: the
// simulator and the test suites run against the in-memory store.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

// SchedulerConfig contains the scheduling engine tunables. Weights are
// intentionally not configurable here; per-deck weight tuning injects
// them programmatically.
type SchedulerConfig struct {
	RequestRetention     float64 `mapstructure:"request_retention"      validate:"gt=0,lte=1"`
	MaximumInterval      int     `mapstructure:"maximum_interval"       validate:"gte=1"`
	MasteryThresholdDays float64 `mapstructure:"mastery_threshold_days" validate:"gt=0"`
	MasteredStability    float64 `mapstructure:"mastered_stability"     validate:"gt=0"`
}

// SessionConfig contains session building settings.
type SessionConfig struct {
	Limit       int     `mapstructure:"limit"        validate:"gte=1"`
	NewFraction float64 `mapstructure:"new_fraction" validate:"gt=0,lte=1"`
}
