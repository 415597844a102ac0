// Package logger provides a leveled logging interface backed by zerolog.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger defines the logging interface
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})
	Info(v ...interface{})
	Infof(format string, v ...interface{})
	Warn(v ...interface{})
	Warnf(format string, v ...interface{})
	Error(v ...interface{})
	Errorf(format string, v ...interface{})
	Fatal(v ...interface{})
	Fatalf(format string, v ...interface{})
}

// Options configures where and how much the logger writes.
type Options struct {
	Level string
	// Path enables a rotating log file next to the console output.
	Path       string
	MaxSizeMB  int
	MaxBackups int
	// Output overrides the console writer, mostly for tests.
	Output io.Writer
}

type logger struct {
	zl zerolog.Logger
}

// New creates a logger configured from LOG_LEVEL and LOG_PATH.
func New() Logger {
	return NewWithOptions(Options{
		Level: os.Getenv("LOG_LEVEL"),
		Path:  os.Getenv("LOG_PATH"),
	})
}

// NewWithOptions creates a logger from explicit options.
func NewWithOptions(opts Options) Logger {
	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	if opts.Output != nil {
		out = opts.Output
	}

	if opts.Path != "" {
		maxSize := opts.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 50
		}
		maxBackups := opts.MaxBackups
		if maxBackups <= 0 {
			maxBackups = 3
		}
		out = zerolog.MultiLevelWriter(out, &lumberjack.Logger{
			Filename:   opts.Path,
			MaxSize:    maxSize,
			MaxBackups: maxBackups,
			Compress:   true,
		})
	}

	zl := zerolog.New(out).Level(ParseLevel(opts.Level)).With().Timestamp().Logger()
	return &logger{zl: zl}
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return &logger{zl: zerolog.Nop()}
}

// ParseLevel converts a string log level to a zerolog level, defaulting to info.
func ParseLevel(levelStr string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug", "trace":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// IsKnownLevel reports whether levelStr names a level ParseLevel understands.
func IsKnownLevel(levelStr string) bool {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "", "debug", "trace", "info", "warn", "warning", "error":
		return true
	}
	return false
}

func (l *logger) Debug(v ...interface{}) { l.zl.Debug().Msg(fmt.Sprint(v...)) }

func (l *logger) Debugf(format string, v ...interface{}) { l.zl.Debug().Msgf(format, v...) }

func (l *logger) Info(v ...interface{}) { l.zl.Info().Msg(fmt.Sprint(v...)) }

func (l *logger) Infof(format string, v ...interface{}) { l.zl.Info().Msgf(format, v...) }

func (l *logger) Warn(v ...interface{}) { l.zl.Warn().Msg(fmt.Sprint(v...)) }

func (l *logger) Warnf(format string, v ...interface{}) { l.zl.Warn().Msgf(format, v...) }

func (l *logger) Error(v ...interface{}) { l.zl.Error().Msg(fmt.Sprint(v...)) }

func (l *logger) Errorf(format string, v ...interface{}) { l.zl.Error().Msgf(format, v...) }

// Fatal logs an error message and exits
func (l *logger) Fatal(v ...interface{}) { l.zl.Fatal().Msg(fmt.Sprint(v...)) }

// Fatalf logs a formatted error message and exits
func (l *logger) Fatalf(format string, v ...interface{}) { l.zl.Fatal().Msgf(format, v...) }
