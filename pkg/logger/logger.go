package logger

import (
	"fmt"
	"io"
	"os"

	charm "github.com/charmbracelet/log"

	errUtils "github.com/sul-dlss/ld4p-deploy/errors"
	"github.com/sul-dlss/ld4p-deploy/pkg/schema"
)

type LogLevel string

const (
	LogLevelOff     LogLevel = "Off"
	LogLevelTrace   LogLevel = "Trace"
	LogLevelDebug   LogLevel = "Debug"
	LogLevelInfo    LogLevel = "Info"
	LogLevelWarning LogLevel = "Warning"
)

// Charm levels re-exported so callers don't import charmbracelet/log directly.
const (
	// TraceLevel is one step more verbose than Debug.
	TraceLevel = charm.DebugLevel - 1
	DebugLevel = charm.DebugLevel
	InfoLevel  = charm.InfoLevel
	WarnLevel  = charm.WarnLevel
	ErrorLevel = charm.ErrorLevel
	// OffLevel is above Fatal, so nothing is printed.
	OffLevel = charm.FatalLevel + 1
)

const (
	devStdout = "/dev/stdout"
	devStderr = "/dev/stderr"
	devNull   = "/dev/null"
)

// Logger wraps a charmbracelet logger with a Trace level.
type Logger struct {
	*charm.Logger
	file *os.File
}

// NewDeployLogger builds a styled Logger writing to w.
func NewDeployLogger(w io.Writer) *Logger {
	l := charm.New(w)
	l.SetStyles(getLogStyles())
	return &Logger{Logger: l}
}

// NewLogger builds a Logger at the given level writing to file.
// An empty file means stderr. Device files other than stdout/stderr/null are rejected.
func NewLogger(level charm.Level, file string) (*Logger, error) {
	var w io.Writer
	var f *os.File

	switch file {
	case "", devStderr:
		w = os.Stderr
	case devStdout:
		charm.Warn("Sending logs to stdout will break commands that pipe their output", "file", file)
		w = os.Stdout
	case devNull:
		w = io.Discard
	default:
		if isDeviceFile(file) {
			return nil, fmt.Errorf("%w: %s", errUtils.ErrUnsupportedDevice, file)
		}
		var err error
		f, err = os.OpenFile(file, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", file, err)
		}
		w = f
	}

	l := NewDeployLogger(w)
	l.file = f
	l.SetLevel(level)
	return l, nil
}

// NewLoggerFromConfig builds a Logger from the `logs` section.
func NewLoggerFromConfig(cfg *schema.DeployConfiguration) (*Logger, error) {
	level, err := ParseLogLevel(cfg.Logs.Level)
	if err != nil {
		return nil, err
	}
	return NewLogger(level, cfg.Logs.File)
}

// ParseLogLevel maps a configured level name to a charm level. Names are case-sensitive.
func ParseLogLevel(logLevel string) (charm.Level, error) {
	if logLevel == "" {
		return InfoLevel, nil
	}

	switch LogLevel(logLevel) {
	case LogLevelTrace:
		return TraceLevel, nil
	case LogLevelDebug:
		return DebugLevel, nil
	case LogLevelInfo:
		return InfoLevel, nil
	case LogLevelWarning:
		return WarnLevel, nil
	case LogLevelOff:
		return OffLevel, nil
	default:
		return 0, fmt.Errorf("%w '%s'. Supported log levels are Trace, Debug, Info, Warning, Off", errUtils.ErrInvalidLogLevel, logLevel)
	}
}

func (l *Logger) Trace(msg any, keyvals ...any) {
	l.Log(TraceLevel, msg, keyvals...)
}

func (l *Logger) SetLogLevel(level charm.Level) error {
	l.SetLevel(level)
	return nil
}

// GetLevelString returns the level name, including "trace".
func (l *Logger) GetLevelString() string {
	if l.GetLevel() == TraceLevel {
		return "trace"
	}
	return l.GetLevel().String()
}

// Close closes the log file, if the logger owns one.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

func isDeviceFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeDevice != 0
}
