package optio

import (
	"fmt"
	stdio "io"
	"strings"
	"time"

	"github.com/fatih/color"
)

// LogLevel is the severity of a log message.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelSuccess
	LevelWarning
	LevelError
)

func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelSuccess:
		return "SUCCESS"
	case LevelWarning:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LogFormat selects the prefix style of log lines.
type LogFormat int

const (
	LogFormatTagged  LogFormat = iota // [INFO] [WARN] ...
	LogFormatSymbols                  // ◆ ✓ ▲ ✗ ●
	LogFormatPlain                    // no prefix
)

// Theme maps each level to its color attributes.
type Theme map[LogLevel][]color.Attribute

// DefaultTheme is the theme new loggers start with.
func DefaultTheme() Theme {
	return Theme{
		LevelDebug:   {color.FgMagenta},
		LevelInfo:    {color.FgBlue},
		LevelSuccess: {color.FgGreen},
		LevelWarning: {color.FgYellow},
		LevelError:   {color.FgRed, color.Bold},
	}
}

// Logger writes leveled messages through an IOManager.
type Logger struct {
	io           *IOManager
	format       LogFormat
	prefixes     map[LogLevel]string
	minLevel     LogLevel
	withTime     bool
	timeFormat   string
	errorsStderr bool
	theme        Theme
	now          func() time.Time
}

// NewLogger creates a tagged-format logger that prints every level.
func NewLogger(io *IOManager) *Logger {
	return &Logger{
		io:           io,
		format:       LogFormatTagged,
		prefixes:     taggedPrefixes(),
		minLevel:     LevelDebug,
		timeFormat:   "15:04:05",
		errorsStderr: true,
		theme:        DefaultTheme(),
		now:          time.Now,
	}
}

func taggedPrefixes() map[LogLevel]string {
	return map[LogLevel]string{
		LevelDebug:   "[DEBUG]",
		LevelInfo:    "[INFO]",
		LevelSuccess: "[SUCCESS]",
		LevelWarning: "[WARN]",
		LevelError:   "[ERROR]",
	}
}

func symbolPrefixes() map[LogLevel]string {
	return map[LogLevel]string{
		LevelDebug:   "●",
		LevelInfo:    "◆",
		LevelSuccess: "✓",
		LevelWarning: "▲",
		LevelError:   "✗",
	}
}

// WithFormat sets the prefix style and resets custom prefixes.
func (l *Logger) WithFormat(format LogFormat) *Logger {
	l.format = format
	switch format {
	case LogFormatSymbols:
		l.prefixes = symbolPrefixes()
	case LogFormatPlain:
		l.prefixes = map[LogLevel]string{}
	default:
		l.prefixes = taggedPrefixes()
	}
	return l
}

// SetPrefix overrides the prefix of one level.
func (l *Logger) SetPrefix(level LogLevel, prefix string) *Logger {
	l.prefixes[level] = prefix
	return l
}

// WithLevel drops messages below level.
func (l *Logger) WithLevel(level LogLevel) *Logger {
	l.minLevel = level
	return l
}

// WithTimestamp enables or disables a timestamp after the prefix.
func (l *Logger) WithTimestamp(enabled bool) *Logger {
	l.withTime = enabled
	return l
}

// WithTimeFormat sets the timestamp layout.
func (l *Logger) WithTimeFormat(layout string) *Logger {
	l.timeFormat = layout
	return l
}

// ErrorsToStderr controls whether warnings and errors go to the error writer.
func (l *Logger) ErrorsToStderr(enabled bool) *Logger {
	l.errorsStderr = enabled
	return l
}

// WithTheme replaces the level colors.
func (l *Logger) WithTheme(theme Theme) *Logger {
	l.theme = theme
	return l
}

// Enabled reports whether messages at level are written.
func (l *Logger) Enabled(level LogLevel) bool {
	return l != nil && level >= l.minLevel
}

// Log writes one message at level.
func (l *Logger) Log(level LogLevel, format string, args ...any) {
	if !l.Enabled(level) {
		return
	}
	fmt.Fprintln(l.writer(level), l.formatMessage(level, fmt.Sprintf(format, args...)))
}

func (l *Logger) formatMessage(level LogLevel, msg string) string {
	if strings.TrimSpace(msg) == "" {
		return msg
	}

	parts := make([]string, 0, 3)
	if prefix := l.prefixes[level]; prefix != "" {
		parts = append(parts, prefix)
	}
	if l.withTime {
		parts = append(parts, "["+l.now().Format(l.timeFormat)+"]")
	}
	parts = append(parts, msg)
	line := strings.Join(parts, " ")

	attrs, ok := l.theme[level]
	if !ok {
		return line
	}
	return l.io.Style(attrs...).Sprint(line)
}

func (l *Logger) writer(level LogLevel) stdio.Writer {
	if l.errorsStderr && level >= LevelWarning {
		return l.io.Err()
	}
	return l.io.Out()
}

// Debug logs at LevelDebug.
func (l *Logger) Debug(format string, args ...any) { l.Log(LevelDebug, format, args...) }

// Info logs at LevelInfo.
func (l *Logger) Info(format string, args ...any) { l.Log(LevelInfo, format, args...) }

// Success logs at LevelSuccess.
func (l *Logger) Success(format string, args ...any) { l.Log(LevelSuccess, format, args...) }

// Warning logs at LevelWarning.
func (l *Logger) Warning(format string, args ...any) { l.Log(LevelWarning, format, args...) }

// Error logs at LevelError.
func (l *Logger) Error(format string, args ...any) { l.Log(LevelError, format, args...) }
