package logs

import (
	"log/slog"
	"testing"

	"estate/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{input: "debug", want: slog.LevelDebug},
		{input: "INFO", want: slog.LevelInfo},
		{input: "", want: slog.LevelInfo},
		{input: "warn", want: slog.LevelWarn},
		{input: "error", want: slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseLogLevel(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := parseLogLevel("verbose")
	assert.Error(t, err)
}

func TestNew_PrettyAndJSON(t *testing.T) {
	cfg := &config.Config{}
	cfg.Env.Log.Level = "info"

	cfg.Env.Log.Pretty = true
	pretty, err := New(Params{Config: cfg})
	require.NoError(t, err)
	assert.NotNil(t, pretty)

	cfg.Env.Log.Pretty = false
	jsonLogger, err := New(Params{Config: cfg})
	require.NoError(t, err)
	assert.NotNil(t, jsonLogger)
}
