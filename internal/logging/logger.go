package logging

import (
	"io"
	"log"
	"os"
	"strings"
)

// Logger is the printf-style logger shared by every package.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// Level filters which messages are written.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a level name to a Level. Unknown names fall back to info.
func ParseLevel(value string) Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

type stdLogger struct {
	logger *log.Logger
	level  Level
}

// New returns a Logger writing to output with the standard log timestamp.
func New(output io.Writer, level Level) Logger {
	if output == nil {
		output = os.Stderr
	}
	return &stdLogger{
		logger: log.New(output, "", log.LstdFlags),
		level:  level,
	}
}

func (l *stdLogger) Debug(format string, args ...interface{}) {
	l.write(LevelDebug, "DEBUG: ", format, args)
}

func (l *stdLogger) Info(format string, args ...interface{}) {
	l.write(LevelInfo, "INFO: ", format, args)
}

func (l *stdLogger) Warn(format string, args ...interface{}) {
	l.write(LevelWarn, "WARN: ", format, args)
}

func (l *stdLogger) Error(format string, args ...interface{}) {
	l.write(LevelError, "ERROR: ", format, args)
}

func (l *stdLogger) write(level Level, prefix, format string, args []interface{}) {
	if level < l.level {
		return
	}
	l.logger.Printf(prefix+format, args...)
}

type nopLogger struct{}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return nopLogger{}
}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
