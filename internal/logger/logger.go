// Package logger provides structured logging for the ArtSea scraper.
//
// It wraps zerolog behind a small Fields-based API so call sites stay terse:
//
//	logger.Info("venue scraped", logger.Fields{
//	    "venue":  "tate-modern",
//	    "events": 42,
//	})
//
//	logger.Error("reconciliation failed", logger.Fields{
//	    "venue": "barbican-centre",
//	    "title": title,
//	}, err)
//
// Output is one JSON object per line by default, or human-readable console
// output when NewConsole is used (the CLI's --verbose mode).
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Fields represents structured log fields
type Fields map[string]interface{}

// Logger provides structured logging
type Logger struct {
	zl zerolog.Logger
}

var defaultLogger = New(LevelInfo, os.Stderr)

// ParseLevel converts a config or flag value such as "debug" into a Level
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug, nil
	case "INFO", "":
		return LevelInfo, nil
	case "WARN", "WARNING":
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// New creates a JSON logger with the specified minimum level and output.
// Messages below the minimum level are discarded.
func New(level Level, output io.Writer) *Logger {
	zl := zerolog.New(output).Level(level.zerolog()).With().Timestamp().Logger()
	return &Logger{zl: zl}
}

// NewConsole creates a logger with human-readable output
func NewConsole(level Level, output io.Writer) *Logger {
	return New(level, zerolog.ConsoleWriter{Out: output, TimeFormat: "15:04:05"})
}

// SetDefault sets the logger used by the package-level functions
func SetDefault(logger *Logger) {
	defaultLogger = logger
}

// Default returns the package-level logger
func Default() *Logger {
	return defaultLogger
}

// With returns a child logger that adds fields to every entry
func (l *Logger) With(fields Fields) *Logger {
	return &Logger{zl: l.zl.With().Fields(map[string]interface{}(fields)).Logger()}
}

func (l *Logger) log(e *zerolog.Event, message string, fields Fields, err error) {
	if len(fields) > 0 {
		e = e.Fields(map[string]interface{}(fields))
	}
	if err != nil {
		e = e.Err(err)
	}
	e.Msg(message)
}

// Debug logs detailed diagnostic information
func (l *Logger) Debug(message string, fields Fields) {
	l.log(l.zl.Debug(), message, fields, nil)
}

// Info logs general operational information
func (l *Logger) Info(message string, fields Fields) {
	l.log(l.zl.Info(), message, fields, nil)
}

// Warn logs a problem that did not stop the operation
func (l *Logger) Warn(message string, fields Fields) {
	l.log(l.zl.Warn(), message, fields, nil)
}

// Error logs a failure along with the error that caused it
func (l *Logger) Error(message string, fields Fields, err error) {
	l.log(l.zl.Error(), message, fields, err)
}

// Debug logs a debug message with the default logger
func Debug(message string, fields Fields) {
	defaultLogger.Debug(message, fields)
}

// Info logs an info message with the default logger
func Info(message string, fields Fields) {
	defaultLogger.Info(message, fields)
}

// Warn logs a warning message with the default logger
func Warn(message string, fields Fields) {
	defaultLogger.Warn(message, fields)
}

// Error logs an error message with the default logger
func Error(message string, fields Fields, err error) {
	defaultLogger.Error(message, fields, err)
}
