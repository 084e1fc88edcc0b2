package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/freshmart/grocery-api/internal/config"
)

func TestBuild_JSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := build(config.LoggerConfig{Level: "WARN", Encoding: "json"}, zapcore.AddSync(&buf))

	log.Info("dropped")
	log.Warn("kept", zap.Int64("user_id", 7))
	require.NoError(t, log.Sync())

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "warn", entry["level"])
	assert.EqualValues(t, 7, entry["user_id"])
	assert.Contains(t, entry, "caller")
}

func TestBuild_UnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := build(config.LoggerConfig{Level: "chatty"}, zapcore.AddSync(&buf))

	log.Debug("hidden")
	log.Info("shown")
	require.NoError(t, log.Sync())

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestBuild_ConsoleEncoding(t *testing.T) {
	var buf bytes.Buffer
	log := build(config.LoggerConfig{Level: "debug", Encoding: "console", TimeFormat: "2006"}, zapcore.AddSync(&buf))

	log.Debug("hello")
	require.NoError(t, log.Sync())

	out := buf.String()
	assert.Contains(t, out, "hello")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}
