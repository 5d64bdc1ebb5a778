package logger

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	testCases := []struct {
		name    string
		level   string
		wantErr bool
	}{
		{name: "debug", level: "debug"},
		{name: "info", level: "info"},
		{name: "warn", level: "warn"},
		{name: "error", level: "error"},
		{name: "mixed case", level: "DEBUG"},
		{name: "empty defaults to info", level: ""},
		{name: "unknown level", level: "verbose", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			log, err := Setup(tc.level)
			if tc.wantErr {
				assert.Error(t, err)
				assert.Nil(t, log)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, log)
			assert.Same(t, slog.Default(), log, "Setup installs the logger as the process default")
		})
	}
}

func TestContextHelpers(t *testing.T) {
	attached := slog.New(slog.NewTextHandler(io.Discard, nil))
	fallback := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("FromContext returns the attached logger", func(t *testing.T) {
		ctx := WithLogger(context.Background(), attached)
		assert.Same(t, attached, FromContext(ctx))
	})

	t.Run("FromContext falls back to the default", func(t *testing.T) {
		assert.Same(t, slog.Default(), FromContext(context.Background()))
	})

	t.Run("FromContextOrDefault prefers the attached logger", func(t *testing.T) {
		ctx := WithLogger(context.Background(), attached)
		assert.Same(t, attached, FromContextOrDefault(ctx, fallback))
	})

	t.Run("FromContextOrDefault uses the fallback when nothing attached", func(t *testing.T) {
		assert.Same(t, fallback, FromContextOrDefault(context.Background(), fallback))
	})

	t.Run("FromContextOrDefault with nil fallback uses the default", func(t *testing.T) {
		assert.Same(t, slog.Default(), FromContextOrDefault(context.Background(), nil))
	})
}
