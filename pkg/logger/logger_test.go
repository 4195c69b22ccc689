package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Level: "debug", Format: FormatJSON, Out: &buf})
	require.NoError(t, err)

	log.Debug().Str("run_id", "abc").Msg("normalized")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "abc", entry["run_id"])
	assert.Equal(t, "normalized", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Level: "WARN", Format: FormatJSON, Out: &buf})
	require.NoError(t, err)

	log.Info().Msg("hidden")
	assert.Empty(t, buf.String())
	assert.Equal(t, zerolog.WarnLevel, log.GetLevel())
}

func TestNew_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Out: &buf})
	require.NoError(t, err)

	log.Info().Msg("pipeline finished")
	assert.Contains(t, buf.String(), "pipeline finished")
	assert.Contains(t, buf.String(), "INF")
}

func TestNew_InvalidOptions(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)

	_, err = New(Options{Format: "xml"})
	assert.Error(t, err)
}

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf)
	log.Debug().Msg("hidden")
	log.Info().Msg("hello")
	assert.Contains(t, buf.String(), `"message":"hello"`)
	assert.NotContains(t, buf.String(), "hidden")
}
