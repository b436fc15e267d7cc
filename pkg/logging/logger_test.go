package logging

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// setupTestDir points the package at a temporary log directory and resets
// global state for the duration of the test.
func setupTestDir(t *testing.T) string {
	t.Helper()

	tempDir := t.TempDir()
	t.Setenv(LogDirEnv, tempDir)

	resetGlobals := func() {
		logDir = ""
		initErr = nil
		initOnce = sync.Once{}
		sessionID = ""
		sessionIDOnce = sync.Once{}
		sinkMu.Lock()
		sink = nil
		sinkMu.Unlock()
		level.SetLevel(zapcore.DebugLevel)
	}
	resetGlobals()
	t.Cleanup(resetGlobals)

	return tempDir
}

func readLog(t *testing.T, l *Logger) string {
	t.Helper()
	require.NoError(t, l.Close())
	data, err := os.ReadFile(l.LogPath())
	require.NoError(t, err)
	return string(data)
}

func TestNewLogger(t *testing.T) {
	dir := setupTestDir(t)

	logger, err := NewLogger("browser")
	require.NoError(t, err)

	assert.Equal(t, "browser", logger.component)
	assert.NotEmpty(t, logger.SessionID())
	assert.Equal(t, dir, filepath.Dir(logger.LogPath()))
	assert.True(t, strings.HasSuffix(logger.LogPath(), "-webpilot.log"))
}

func TestLoggerWritesLevelsAndComponent(t *testing.T) {
	setupTestDir(t)

	logger, err := NewLogger("agent")
	require.NoError(t, err)

	logger.Debugf("debug %d", 1)
	logger.Infof("info %s", "two")
	logger.Warnf("warn")
	logger.Errorf("error: %v", os.ErrNotExist)

	content := readLog(t, logger)
	for _, want := range []string{"DEBUG", "debug 1", "INFO", "info two", "WARN", "ERROR", "file does not exist", "agent"} {
		assert.Contains(t, content, want)
	}
}

func TestComponentsShareSessionFile(t *testing.T) {
	setupTestDir(t)

	a, err := NewLogger("a")
	require.NoError(t, err)
	b, err := NewLogger("b")
	require.NoError(t, err)

	assert.Equal(t, a.LogPath(), b.LogPath())
	assert.Equal(t, a.SessionID(), b.SessionID())
}

func TestSetLevelFiltersDebug(t *testing.T) {
	setupTestDir(t)

	logger, err := NewLogger("filter")
	require.NoError(t, err)

	require.NoError(t, SetLevel("warn"))
	logger.Infof("hidden message")
	logger.Warnf("visible message")

	content := readLog(t, logger)
	assert.NotContains(t, content, "hidden message")
	assert.Contains(t, content, "visible message")
}

func TestSetLevelRejectsUnknown(t *testing.T) {
	setupTestDir(t)
	assert.Error(t, SetLevel("chatty"))
}

func TestWithAddsFields(t *testing.T) {
	setupTestDir(t)

	logger, err := NewLogger("fields")
	require.NoError(t, err)

	logger.With("tool", "click").Infof("dispatched")

	content := readLog(t, logger)
	assert.Contains(t, content, `"tool": "click"`)
}

func TestCloseIsIdempotent(t *testing.T) {
	setupTestDir(t)

	logger, err := NewLogger("close")
	require.NoError(t, err)

	assert.NoError(t, logger.Close())
	assert.NoError(t, logger.Close())
}

func TestFallbackLogger(t *testing.T) {
	logger := newFallbackLogger("fallback", os.ErrPermission)

	assert.Empty(t, logger.LogPath())
	assert.Equal(t, os.Stderr, logger.Writer())
	assert.NotPanics(t, func() { logger.Infof("still works") })
}
