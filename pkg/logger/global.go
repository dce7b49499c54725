package logger

import (
	"fmt"
	"os"
	"sync/atomic"
)

var defaultLogger atomic.Pointer[Logger]

func init() {
	defaultLogger.Store(NewDeployLogger(os.Stderr))
}

// Default returns the process-wide logger.
func Default() *Logger {
	return defaultLogger.Load()
}

// SetDefault replaces the process-wide logger. A nil logger is ignored.
func SetDefault(logger *Logger) {
	if logger != nil {
		defaultLogger.Store(logger)
	}
}

// New creates a Logger on stderr with default settings.
func New() *Logger {
	return NewDeployLogger(os.Stderr)
}

func Trace(msg any, keyvals ...any) {
	Default().Trace(msg, keyvals...)
}

func Tracef(format string, args ...any) {
	Default().Trace(fmt.Sprintf(format, args...))
}

func Debug(msg any, keyvals ...any) {
	Default().Debug(msg, keyvals...)
}

func Info(msg any, keyvals ...any) {
	Default().Info(msg, keyvals...)
}

func Warn(msg any, keyvals ...any) {
	Default().Warn(msg, keyvals...)
}

func Error(msg any, keyvals ...any) {
	Default().Error(msg, keyvals...)
}
