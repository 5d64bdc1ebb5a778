package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from an optional reviewkit.yaml (current
// directory or /etc/reviewkit) and from environment variables with the
// REVIEWKIT_ prefix; environment variables take precedence. Returns a
// validated Config or an error describing the first failing field.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("reviewkit")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/reviewkit")

	v.SetEnvPrefix("REVIEWKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; everything has a default or an
		// environment override.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("database.url", "")
	v.SetDefault("scheduler.request_retention", 0.9)
	v.SetDefault("scheduler.maximum_interval", 36500)
	v.SetDefault("scheduler.mastery_threshold_days", 21.0)
	v.SetDefault("scheduler.mastered_stability", 365.0)
	v.SetDefault("session.limit", 20)
	v.SetDefault("session.new_fraction", 0.2)
}
