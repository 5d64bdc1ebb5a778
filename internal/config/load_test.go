package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests use t.Setenv, so they cannot run in parallel.

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err, "Load with no config file or env should use defaults")

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Database.URL)
	assert.Equal(t, 0.9, cfg.Scheduler.RequestRetention)
	assert.Equal(t, 36500, cfg.Scheduler.MaximumInterval)
	assert.Equal(t, 21.0, cfg.Scheduler.MasteryThresholdDays)
	assert.Equal(t, 365.0, cfg.Scheduler.MasteredStability)
	assert.Equal(t, 20, cfg.Session.Limit)
	assert.Equal(t, 0.2, cfg.Session.NewFraction)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("REVIEWKIT_LOGGING_LEVEL", "debug")
	t.Setenv("REVIEWKIT_SCHEDULER_REQUEST_RETENTION", "0.85")
	t.Setenv("REVIEWKIT_SESSION_LIMIT", "50")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 0.85, cfg.Scheduler.RequestRetention)
	assert.Equal(t, 50, cfg.Session.Limit)

	// Untouched fields keep their defaults.
	assert.Equal(t, 36500, cfg.Scheduler.MaximumInterval)
}

func TestLoadValidation(t *testing.T) {
	testCases := []struct {
		name  string
		key   string
		value string
	}{
		{name: "invalid log level", key: "REVIEWKIT_LOGGING_LEVEL", value: "verbose"},
		{name: "retention above one", key: "REVIEWKIT_SCHEDULER_REQUEST_RETENTION", value: "1.5"},
		{name: "zero retention", key: "REVIEWKIT_SCHEDULER_REQUEST_RETENTION", value: "0"},
		{name: "zero session limit", key: "REVIEWKIT_SESSION_LIMIT", value: "0"},
		{name: "new fraction above one", key: "REVIEWKIT_SESSION_NEW_FRACTION", value: "2"},
		{name: "malformed database url", key: "REVIEWKIT_DATABASE_URL", value: "not a url"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := Load()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "validation")
		})
	}
}
