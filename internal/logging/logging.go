// SPDX-License-Identifier: AGPL-3.0-only

// Package logging provides the process logger. It is a thin printf-style
// facade over zerolog so call sites stay short while output remains
// structured JSON (console-friendly when attached to a terminal).
package logging

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	// Debug level for detailed troubleshooting
	Debug LogLevel = iota
	// Info level for general operational entries
	Info
	// Warn level for non-critical issues
	Warn
	// Error level for failures
	Error
	// Fatal level for unrecoverable failures; logging at this level exits
	Fatal
)

func (l LogLevel) zerolog() zerolog.Level {
	switch l {
	case Debug:
		return zerolog.DebugLevel
	case Info:
		return zerolog.InfoLevel
	case Warn:
		return zerolog.WarnLevel
	case Error:
		return zerolog.ErrorLevel
	case Fatal:
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// ParseLevel converts a level name to a LogLevel, defaulting to Info.
func ParseLevel(level string) LogLevel {
	switch level {
	case "debug":
		return Debug
	case "info":
		return Info
	case "warn":
		return Warn
	case "error":
		return Error
	case "fatal":
		return Fatal
	default:
		return Info
	}
}

// Options configures a Logger
type Options struct {
	// Level is the minimum level that will be written
	Level LogLevel
	// Output overrides the destination; defaults to stderr
	Output io.Writer
}

// Logger writes leveled log messages
type Logger struct {
	zl   zerolog.Logger
	file *os.File
}

// New creates a logger with the given options
func New(opts Options) *Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	zl := zerolog.New(out).Level(opts.Level.zerolog()).With().Timestamp().Logger()
	return &Logger{zl: zl}
}

// FileLogger creates a logger that appends to the file at path.
func FileLogger(path string, level LogLevel) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	zl := zerolog.New(zerolog.SyncWriter(f)).Level(level.zerolog()).With().Timestamp().Logger()
	return &Logger{zl: zl, file: f}, nil
}

// Close releases the underlying log file, if any.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Debugf logs a debug message
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.zl.Debug().Msgf(format, args...)
}

// Infof logs an informational message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.zl.Info().Msgf(format, args...)
}

// Warnf logs a warning message
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.zl.Warn().Msgf(format, args...)
}

// Errorf logs an error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.zl.Error().Msgf(format, args...)
}

// Fatalf logs a fatal message and exits the process
func (l *Logger) Fatalf(format string, args ...interface{}) {
	l.zl.Fatal().Msgf(format, args...)
}

var (
	defaultMu     sync.RWMutex
	defaultLogger = New(Options{Level: Info})
)

// SetDefaultLogger replaces the process-wide default logger
func SetDefaultLogger(l *Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

// GetDefaultLogger returns the process-wide default logger
func GetDefaultLogger() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}
