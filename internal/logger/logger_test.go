package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"INFO":    zerolog.InfoLevel,
		"":        zerolog.InfoLevel,
		"warn":    zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		" error ": zerolog.ErrorLevel,
		"verbose": zerolog.InfoLevel,
	}
	for name, want := range tests {
		assert.Equal(t, want, ParseLevel(name), "level %q", name)
	}
}

func TestLevelFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("DEBUG", "1")
	assert.Equal(t, zerolog.DebugLevel, LevelFromEnv())

	t.Setenv("LOG_LEVEL", "error")
	assert.Equal(t, zerolog.ErrorLevel, LevelFromEnv())

	t.Setenv("LOG_LEVEL", "")
	t.Setenv("DEBUG", "")
	assert.Equal(t, zerolog.InfoLevel, LevelFromEnv())
}

func TestZerologAdapter_WritesComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerolog(&buf, zerolog.DebugLevel)

	log.Info("Processor", "dehazing completed", map[string]interface{}{"width": 4})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "Processor", entry["component"])
	assert.Equal(t, "dehazing completed", entry["message"])
	assert.Equal(t, 4.0, entry["width"])
}

func TestZerologAdapter_ErrorAndLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerolog(&buf, zerolog.WarnLevel)

	log.Debug("Processor", "hidden", nil)
	log.Info("Processor", "hidden", nil)
	assert.Zero(t, buf.Len())

	log.Error("Loader", errors.New("boom"), nil)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "Loader", entry["component"])
}

func TestNop(t *testing.T) {
	log := Nop()
	log.Info("x", "y", nil)
	log.Warning("x", "y", map[string]interface{}{"k": 1})
}

func TestZerologAdapter_Stage(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerolog(&buf, zerolog.DebugLevel)

	log.Stage("DarkChannelProcessor", "guided_refinement", 1500*time.Microsecond)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "guided_refinement", entry["stage"])
	assert.Equal(t, 1.5, entry["duration_ms"])
	assert.Equal(t, "stage completed", entry["message"])
}

func TestZerologAdapter_StageHiddenAboveDebug(t *testing.T) {
	var buf bytes.Buffer
	NewZerolog(&buf, zerolog.InfoLevel).Stage("DarkChannelProcessor", "transmission", time.Millisecond)
	assert.Zero(t, buf.Len())
}

func TestZerologAdapter_FieldsSorted(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerolog(&buf, zerolog.InfoLevel)

	log.Info("Coordinator", "run completed", map[string]interface{}{"width": 3, "height": 2, "input": "a.png"})

	line := buf.String()
	assert.Less(t, strings.Index(line, `"height"`), strings.Index(line, `"input"`))
	assert.Less(t, strings.Index(line, `"input"`), strings.Index(line, `"width"`))
}
