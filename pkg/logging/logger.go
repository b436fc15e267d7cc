package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogDirEnv overrides the directory log files are written to.
const LogDirEnv = "WEBPILOT_LOG_DIR"

const (
	maxLogSizeMB  = 20
	maxLogBackups = 5
	maxLogAgeDays = 14
)

// Logger provides component-scoped logging for webpilot packages.
// All components of one process share a session log file in
// ~/.webpilot/logs/<session-id>-webpilot.log, rotated by size.
type Logger struct {
	sessionID string
	component string
	sugar     *zap.SugaredLogger
	writer    io.Writer
	logPath   string
	closeOnce sync.Once
}

var (
	sessionID     string
	sessionIDOnce sync.Once

	logDir   string
	initOnce sync.Once
	initErr  error

	sinkMu sync.Mutex
	sink   *lumberjack.Logger

	// level is shared by every logger so SetLevel applies process-wide.
	level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
)

func getSessionID() string {
	sessionIDOnce.Do(func() {
		sessionID = uuid.New().String()
	})
	return sessionID
}

func initLogDirectory() error {
	initOnce.Do(func() {
		dir := os.Getenv(LogDirEnv)
		if dir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				initErr = fmt.Errorf("failed to get home directory: %w", err)
				return
			}
			dir = filepath.Join(homeDir, ".webpilot", "logs")
		}
		if err := os.MkdirAll(dir, 0750); err != nil {
			initErr = fmt.Errorf("failed to create log directory: %w", err)
			return
		}
		logDir = dir
	})
	return initErr
}

// sessionSink returns the rotating writer shared by all components.
func sessionSink() (*lumberjack.Logger, string) {
	sinkMu.Lock()
	defer sinkMu.Unlock()

	path := filepath.Join(logDir, fmt.Sprintf("%s-webpilot.log", getSessionID()))
	if sink == nil || sink.Filename != path {
		sink = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    maxLogSizeMB,
			MaxBackups: maxLogBackups,
			MaxAge:     maxLogAgeDays,
		}
	}
	return sink, path
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.ConsoleSeparator = " "
	return cfg
}

// NewLogger creates a logger for a specific component.
//
// If the log directory cannot be created it returns a logger writing to
// stderr together with the error, so callers can note the fallback.
func NewLogger(component string) (*Logger, error) {
	if err := initLogDirectory(); err != nil {
		return newFallbackLogger(component, err), err
	}

	writer, path := sessionSink()
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.AddSync(writer), level)

	return &Logger{
		sessionID: getSessionID(),
		component: component,
		sugar:     zap.New(core).Named(component).Sugar(),
		writer:    writer,
		logPath:   path,
	}, nil
}

func newFallbackLogger(component string, err error) *Logger {
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.Lock(os.Stderr), level)
	sugar := zap.New(core, zap.AddCaller()).Named(component).Sugar()
	sugar.Warnf("Failed to initialize file logging: %v", err)
	sugar.Warnf("Falling back to stderr logging")

	return &Logger{
		sessionID: getSessionID(),
		component: component,
		sugar:     sugar,
		writer:    os.Stderr,
	}
}

// SetLevel changes the minimum level for every logger in the process.
// Accepted values are debug, info, warn and error.
func SetLevel(name string) error {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(name))); err != nil {
		return fmt.Errorf("invalid log level %q: %w", name, err)
	}
	level.SetLevel(l)
	return nil
}

// Printf logs a formatted message at info level.
func (l *Logger) Printf(format string, v ...interface{}) {
	l.sugar.Infof(format, v...)
}

// Debugf logs a debug-level message
func (l *Logger) Debugf(format string, v ...interface{}) {
	l.sugar.Debugf(format, v...)
}

// Infof logs an info-level message
func (l *Logger) Infof(format string, v ...interface{}) {
	l.sugar.Infof(format, v...)
}

// Warnf logs a warning-level message
func (l *Logger) Warnf(format string, v ...interface{}) {
	l.sugar.Warnf(format, v...)
}

// Errorf logs an error-level message
func (l *Logger) Errorf(format string, v ...interface{}) {
	l.sugar.Errorf(format, v...)
}

// With returns a child logger carrying the given key/value pairs on every entry.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{
		sessionID: l.sessionID,
		component: l.component,
		sugar:     l.sugar.With(keysAndValues...),
		writer:    l.writer,
		logPath:   l.logPath,
	}
}

// Writer returns the underlying destination.
func (l *Logger) Writer() io.Writer {
	return l.writer
}

// SessionID returns the current session ID
func (l *Logger) SessionID() string {
	return l.sessionID
}

// LogPath returns the path to the log file, empty in fallback mode.
func (l *Logger) LogPath() string {
	return l.logPath
}

// Close flushes buffered entries. Safe to call multiple times.
func (l *Logger) Close() error {
	var err error
	l.closeOnce.Do(func() {
		// Sync on stderr returns EINVAL on some platforms; only report file errors.
		if syncErr := l.sugar.Sync(); syncErr != nil && l.logPath != "" {
			err = syncErr
		}
	})
	return err
}

// GetSessionID returns the current global session ID
func GetSessionID() string {
	return getSessionID()
}

// GetLogDirectory returns the directory where logs are stored
func GetLogDirectory() (string, error) {
	if err := initLogDirectory(); err != nil {
		return "", err
	}
	return logDir, nil
}
