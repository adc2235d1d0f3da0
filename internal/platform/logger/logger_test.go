package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSanitizeKVs(t *testing.T) {
	out := sanitizeKVs([]interface{}{"gemini_api_key", "abc", "path", "/api/health", "DATABASE_URL", "postgres://u:p@h/db", "dangling"})
	assert.Equal(t, []interface{}{
		"gemini_api_key", "[REDACTED]",
		"path", "/api/health",
		"DATABASE_URL", "[REDACTED]",
		"dangling",
	}, out)
}

func TestLoggerRedactsFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.With("component", "test").Info("config loaded", "api_key", "secret-value", "port", "3001")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "[REDACTED]", fields["api_key"])
		assert.Equal(t, "3001", fields["port"])
		assert.Equal(t, "test", fields["component"])
	}
}

func TestNew(t *testing.T) {
	for _, mode := range []string{"prod", "development", ""} {
		l, err := New(mode)
		assert.NoError(t, err, mode)
		assert.NotNil(t, l.SugaredLogger)
	}
	Nop().Info("discarded", "k", "v")
}
