// Package logging provides the editor's leveled logger: structured
// output via log/slog with rotation handled by lumberjack when a log
// file path is configured, and a package-wide default instance so
// deeply nested callers (plugin callbacks, LSP handlers) can log
// without threading a *Logger through every call.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Level is the severity of a log message, in the teacher's LogLevel
// idiom.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the level's display name.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a config string into a Level, defaulting to Info
// for anything unrecognized.
func ParseLevel(s string) Level {
	switch s {
	case "debug", "DEBUG":
		return LevelDebug
	case "info", "INFO":
		return LevelInfo
	case "warn", "WARN", "warning", "WARNING":
		return LevelWarn
	case "error", "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l Level) toSlog() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Config configures a Logger.
type Config struct {
	// Level is the minimum level that reaches the sink.
	Level Level
	// FilePath is the rotating log file's path. Empty discards all
	// output, since the TUI owns stdout/stderr while running.
	FilePath string
}

// Logger wraps a *slog.Logger with the file-rotation lifecycle the
// editor owns.
type Logger struct {
	mu     sync.Mutex
	slog   *slog.Logger
	level  Level
	file   *lumberjack.Logger
	prefix string
}

// New creates a Logger per cfg. The returned Logger's Close must be
// called on shutdown to flush and release the rotating file, if any.
func New(cfg Config) *Logger {
	var writer io.Writer = io.Discard
	var file *lumberjack.Logger
	if cfg.FilePath != "" {
		file = &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    10,
			MaxBackups: 5,
			MaxAge:     28,
			Compress:   true,
		}
		writer = file
	}

	handler := slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: cfg.Level.toSlog()})
	return &Logger{
		slog:   slog.New(handler),
		level:  cfg.Level,
		file:   file,
		prefix: "red",
	}
}

// WithComponent returns a Logger tagged with a "component" attribute,
// used to namespace LSP/plugin/editor log lines.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		slog:   l.slog.With("component", component),
		level:  l.level,
		file:   l.file,
		prefix: l.prefix,
	}
}

// SetLevel raises or lowers the minimum level at runtime, e.g. when a
// config reload changes it.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *Logger) enabled(level Level) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return level >= l.level
}

func (l *Logger) log(level Level, msg string, args ...any) {
	if !l.enabled(level) {
		return
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	l.slog.Log(context.Background(), level.toSlog(), msg)
}

// Debug logs a debug-level message, printf-style.
func (l *Logger) Debug(msg string, args ...any) { l.log(LevelDebug, msg, args...) }

// Info logs an info-level message, printf-style.
func (l *Logger) Info(msg string, args ...any) { l.log(LevelInfo, msg, args...) }

// Warn logs a warning-level message, printf-style.
func (l *Logger) Warn(msg string, args ...any) { l.log(LevelWarn, msg, args...) }

// Error logs an error-level message, printf-style.
func (l *Logger) Error(msg string, args ...any) { l.log(LevelError, msg, args...) }

// Close flushes and closes the rotating log file, if one is open.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// NullLogger discards everything; used before a real Logger is wired
// and in tests.
var NullLogger = New(Config{Level: LevelError, FilePath: ""})

var defaultLogger *Logger = NullLogger

// SetDefault installs l as the package-wide logger. Called once during
// editor bootstrap.
func SetDefault(l *Logger) {
	defaultLogger = l
}

// Default returns the package-wide logger, or NullLogger if SetDefault
// was never called.
func Default() *Logger {
	return defaultLogger
}
