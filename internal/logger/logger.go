// Package logger is the calculator's leveled diagnostic log. It never writes
// to the terminal the calculator prints results on unless asked to.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Level is a logging level.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	// LevelNone disables logging.
	LevelNone
)

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
	case LevelNone:
		return "NONE"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a level name, ignoring case.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "none", "off":
		return LevelNone, nil
	default:
		return LevelNone, fmt.Errorf("unknown log level %q", s)
	}
}

// Logger writes timestamped lines at or above a minimum level.
type Logger struct {
	mu     *sync.Mutex
	level  Level
	out    *log.Logger
	prefix string
	file   *os.File
}

var (
	globalMu sync.RWMutex
	global   = Discard()
)

// Discard returns a logger that writes nothing.
func Discard() *Logger {
	return &Logger{mu: new(sync.Mutex), level: LevelNone, out: log.New(io.Discard, "", 0)}
}

// New creates a logger appending to the file at path, creating its directory
// if needed. An empty path or LevelNone gives a logger that discards.
func New(level Level, path, prefix string) (*Logger, error) {
	if level == LevelNone || path == "" {
		l := Discard()
		l.prefix = prefix
		return l, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	l := NewWriter(level, f, prefix)
	l.file = f
	return l, nil
}

// NewWriter creates a logger writing to w.
func NewWriter(level Level, w io.Writer, prefix string) *Logger {
	return &Logger{mu: new(sync.Mutex), level: level, out: log.New(w, "", 0), prefix: prefix}
}

// SetGlobal replaces the logger used by the package-level functions.
func SetGlobal(l *Logger) {
	globalMu.Lock()
	global = l
	globalMu.Unlock()
}

// Global returns the logger used by the package-level functions.
func Global() *Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return global
}

// WithPrefix creates a logger sharing l's output with prefix appended to its
// own, separated by a colon.
func (l *Logger) WithPrefix(prefix string) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.prefix != "" {
		prefix = l.prefix + ":" + prefix
	}
	return &Logger{mu: l.mu, level: l.level, out: l.out, prefix: prefix, file: l.file}
}

// Level returns the minimum level l writes.
func (l *Logger) Level() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// Enabled reports whether messages at level are written.
func (l *Logger) Enabled(level Level) bool {
	return level != LevelNone && level >= l.Level()
}

func (l *Logger) log(level Level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.level || l.level == LevelNone {
		return
	}
	var b strings.Builder
	b.WriteString(time.Now().Format("2006-01-02 15:04:05.000"))
	b.WriteString(" [")
	b.WriteString(level.String())
	b.WriteString("] ")
	if l.prefix != "" {
		b.WriteString("[" + l.prefix + "] ")
	}
	fmt.Fprintf(&b, format, args...)
	l.out.Println(b.String())
}

func (l *Logger) Debug(format string, args ...any) { l.log(LevelDebug, format, args...) }
func (l *Logger) Info(format string, args ...any)  { l.log(LevelInfo, format, args...) }
func (l *Logger) Warn(format string, args ...any)  { l.log(LevelWarn, format, args...) }
func (l *Logger) Error(format string, args ...any) { l.log(LevelError, format, args...) }

// Close closes the log file, if any. Loggers made with WithPrefix share the
// file and must not be used after any of them is closed.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	l.out.SetOutput(io.Discard)
	return err
}

// Debug logs to the global logger.
func Debug(format string, args ...any) { Global().Debug(format, args...) }

// Info logs to the global logger.
func Info(format string, args ...any) { Global().Info(format, args...) }

// Warn logs to the global logger.
func Warn(format string, args ...any) { Global().Warn(format, args...) }

// Error logs to the global logger.
func Error(format string, args ...any) { Global().Error(format, args...) }
