// Package logger provides a leveled wrapper around the standard log package.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Level controls the verbosity of the logger.
type Level int

const (
	LevelOff Level = iota
	LevelInfo
	LevelDebug
)

// ParseLevel maps a config value onto a level. Unknown values mean info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "none", "silent":
		return LevelOff
	case "debug", "verbose":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// Logger is safe for concurrent use.
type Logger struct {
	mu     sync.RWMutex
	level  Level
	debug  *log.Logger
	info   *log.Logger
	warn   *log.Logger
	errLog *log.Logger
}

// New creates a logger writing to out, or os.Stderr when out is nil.
func New(level Level, out io.Writer) *Logger {
	if out == nil {
		out = os.Stderr
	}
	flags := log.LstdFlags

	return &Logger{
		level:  level,
		debug:  log.New(out, "[DBG] ", flags),
		info:   log.New(out, "[INF] ", flags),
		warn:   log.New(out, "[WRN] ", flags),
		errLog: log.New(out, "[ERR] ", flags),
	}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return New(LevelOff, io.Discard)
}

// SetLevel changes the log level at runtime.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *Logger) enabled(level Level) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level >= level
}

// Debug logs only at debug level.
func (l *Logger) Debug(format string, args ...any) {
	if l.enabled(LevelDebug) {
		l.debug.Output(2, fmt.Sprintf(format, args...))
	}
}

func (l *Logger) Info(format string, args ...any) {
	if l.enabled(LevelInfo) {
		l.info.Output(2, fmt.Sprintf(format, args...))
	}
}

func (l *Logger) Warn(format string, args ...any) {
	if l.enabled(LevelInfo) {
		l.warn.Output(2, fmt.Sprintf(format, args...))
	}
}

func (l *Logger) Error(format string, args ...any) {
	if l.enabled(LevelInfo) {
		l.errLog.Output(2, fmt.Sprintf(format, args...))
	}
}
