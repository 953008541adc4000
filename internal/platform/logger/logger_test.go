package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Config{Level: "warn", Output: &buf})

	l.Info("hidden")
	l.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestJSONEvent(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Config{Level: "debug", Format: "json", Output: &buf}).With("session", "S1")

	l.Event("FLOOR_BUILT", "PLAYER", "floor 1")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "FLOOR_BUILT", rec["type"])
	assert.Equal(t, "PLAYER", rec["actor"])
	assert.Equal(t, "S1", rec["session"])
}

func TestNopDiscards(t *testing.T) {
	l := Nop()
	l.Error("nothing to see")
}
