package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want zerolog.Level
		ok   bool
	}{
		{raw: "debug", want: zerolog.DebugLevel, ok: true},
		{raw: " WARNING ", want: zerolog.WarnLevel, ok: true},
		{raw: "off", want: zerolog.Disabled, ok: true},
		{raw: "", want: zerolog.InfoLevel, ok: false},
		{raw: "loud", want: zerolog.InfoLevel, ok: false},
	}

	for _, tc := range tests {
		got, ok := ParseLevel(tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
		assert.Equal(t, tc.ok, ok, tc.raw)
	}
}

func TestBuildJSONHonoursLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := Build(Options{Level: zerolog.WarnLevel, Format: FormatJSON, Writer: &buf})

	logger.Info().Msg("hidden")
	logger.Warn().Str("component", "cache").Msg("shown")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "shown", line["message"])
	assert.Equal(t, "cache", line["component"])
	assert.NotContains(t, line, "time")
}

func TestBuildConsoleWithoutColor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := Build(Options{Level: zerolog.DebugLevel, NoColor: true, Writer: &buf})
	logger.Debug().Msg("connected")

	assert.Contains(t, buf.String(), "DBG")
	assert.Contains(t, buf.String(), "connected")
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestNewAppliesEnvOverrides(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogFormat, "json")

	var buf bytes.Buffer
	logger := New(ProfileRuntime, "debug", &buf)
	logger.Warn().Msg("dropped")
	logger.Error().Msg("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), `"message":"kept"`)
}
