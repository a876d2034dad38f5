package log

import (
	"io"
	"log"
	"strings"

	"github.com/fatih/color"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelError
	LevelNone
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelError:
		return "ERROR"
	case LevelNone:
		return "NONE"
	default:
		return "UNKNOWN"
	}
}

func LevelFromString(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "ERROR":
		return LevelError
	case "NONE":
		return LevelNone
	default:
		return LevelDebug // Default to DEBUG
	}
}

var (
	tagDebug = color.New(color.FgHiBlack)
	tagInfo  = color.New(color.FgCyan)
	tagWarn  = color.New(color.FgYellow)
	tagError = color.New(color.FgRed, color.Bold)
)

// Logger is a small levelled logger. A nil *Logger discards everything, so
// components can hold one without checking.
type Logger struct {
	logger  *log.Logger
	level   Level
	colored bool
}

func New(out io.Writer, level Level) *Logger {
	return &Logger{
		logger: log.New(out, "", 0), // No prefix, handled by format string
		level:  level,
	}
}

// Discard returns a logger that drops every message.
func Discard() *Logger { return New(io.Discard, LevelNone) }

// SetColor toggles ANSI coloring of the level tag. fatih/color still honours
// NO_COLOR and non-terminal outputs.
func (l *Logger) SetColor(on bool) {
	if l != nil {
		l.colored = on
	}
}

func (l *Logger) tag(c *color.Color, name string) string {
	if !l.colored {
		return name + ": "
	}
	return c.Sprint(name) + ": "
}

func (l *Logger) Debugf(format string, v ...interface{}) {
	if l != nil && l.level <= LevelDebug {
		l.logger.Printf(l.tag(tagDebug, "DEBUG")+format, v...)
	}
}

func (l *Logger) Infof(format string, v ...interface{}) {
	if l != nil && l.level <= LevelInfo {
		l.logger.Printf(l.tag(tagInfo, "INFO")+format, v...)
	}
}

func (l *Logger) Errorf(format string, v ...interface{}) {
	if l != nil && l.level <= LevelError {
		l.logger.Printf(l.tag(tagError, "ERROR")+format, v...)
	}
}

func (l *Logger) Warnf(format string, v ...interface{}) {
	if l != nil && l.level <= LevelInfo { // Warnings are shown at Info level or higher
		l.logger.Printf(l.tag(tagWarn, "WARN")+format, v...)
	}
}

func (l *Logger) SetLevel(level Level) {
	if l != nil {
		l.level = level
	}
}

func (l *Logger) Level() Level {
	if l == nil {
		return LevelNone
	}
	return l.level
}
