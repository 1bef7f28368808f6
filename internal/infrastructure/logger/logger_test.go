// internal/infrastructure/logger/logger_test.go
package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var logEntry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))
	return logEntry
}

func TestJSONLogger(t *testing.T) {
	// Setup a buffer to capture output
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, DebugLevel)

	logger.Debug("Debug message", map[string]interface{}{
		"key1": "value1",
	})

	logEntry := decodeEntry(t, &buf)
	assert.Equal(t, "debug", logEntry["level"])
	assert.Equal(t, "Debug message", logEntry["message"])
	assert.Equal(t, "value1", logEntry["key1"])
	assert.Contains(t, logEntry, "timestamp")
	assert.True(t, strings.HasSuffix(logEntry["file"].(string), "logger_test.go"), "file should be the caller: %v", logEntry["file"])
	assert.Contains(t, logEntry, "line")

	// Test that log levels are respected
	buf.Reset()
	warnLogger := NewJSONLogger(&buf, WarnLevel)

	warnLogger.Debug("Should not appear", nil)
	assert.Equal(t, "", buf.String())

	warnLogger.Warn("Warning message", nil)
	assert.Contains(t, buf.String(), "Warning message")

	// Test WithField
	buf.Reset()
	fieldLogger := logger.WithField("context", "test")
	fieldLogger.Info("With field", nil)

	logEntry = decodeEntry(t, &buf)
	assert.Equal(t, "test", logEntry["context"])
	assert.Equal(t, "With field", logEntry["message"])

	// Test WithFields
	buf.Reset()
	fieldsLogger := logger.WithFields(map[string]interface{}{
		"app":     "test-app",
		"version": "1.0.0",
	})
	fieldsLogger.Info("With fields", map[string]interface{}{"version": "2.0.0"})

	logEntry = decodeEntry(t, &buf)
	assert.Equal(t, "test-app", logEntry["app"])
	assert.Equal(t, "2.0.0", logEntry["version"], "message fields override context fields")
	assert.Equal(t, "With fields", logEntry["message"])

	// Parent logger is not affected by derived ones
	buf.Reset()
	logger.Info("Plain", nil)
	logEntry = decodeEntry(t, &buf)
	assert.NotContains(t, logEntry, "app")

	// Test log levels
	buf.Reset()
	infoLogger := NewJSONLogger(&buf, InfoLevel)

	infoLogger.Debug("Debug", nil)
	assert.Equal(t, "", buf.String())

	infoLogger.Info("Info", nil)
	assert.Contains(t, buf.String(), "Info")

	buf.Reset()
	infoLogger.Warn("Warn", nil)
	assert.Contains(t, buf.String(), "Warn")

	buf.Reset()
	infoLogger.Error("Error", nil)
	assert.Contains(t, buf.String(), "Error")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   DebugLevel,
		"INFO":    InfoLevel,
		"":        InfoLevel,
		" warn ":  WarnLevel,
		"warning": WarnLevel,
		"Error":   ErrorLevel,
		"fatal":   FatalLevel,
	}
	for input, want := range tests {
		got, err := ParseLevel(input)
		assert.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	level, err := ParseLevel("verbose")
	assert.Error(t, err)
	assert.Equal(t, InfoLevel, level)
}

func TestGetDefaultLogger(t *testing.T) {
	logger := GetDefaultLogger()
	assert.NotNil(t, logger)
}

func TestSetDefaultLogger(t *testing.T) {
	originalLogger := GetDefaultLogger()
	defer SetDefaultLogger(originalLogger)

	var buf bytes.Buffer
	SetDefaultLogger(NewJSONLogger(&buf, DebugLevel))

	Info("through the default", nil)
	assert.Contains(t, buf.String(), "through the default")

	SetDefaultLogger(nil)
	assert.NotNil(t, GetDefaultLogger())
}
