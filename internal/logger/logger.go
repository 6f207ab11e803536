// =============================================================================
// Sales Pipeline - Logging
// =============================================================================
//
// Stages log through the Logger interface. The default implementation is a
// charmbracelet/log logger writing leveled, structured lines:
//
//   12:04:05 INFO stage finished stage=transform records=5
//
// =============================================================================

package logger

import (
	"io"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// Logger is the logging interface used by every stage.
type Logger interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
}

// LogLevel is a textual log level as found in the configuration file.
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
)

// ToCharmlogLevel maps l to the charm level. Unknown levels map to info.
func (l LogLevel) ToCharmlogLevel() charmlog.Level {
	switch LogLevel(strings.ToLower(string(l))) {
	case DebugLevel:
		return charmlog.DebugLevel
	case WarnLevel:
		return charmlog.WarnLevel
	case ErrorLevel:
		return charmlog.ErrorLevel
	default:
		return charmlog.InfoLevel
	}
}

// Config controls logger construction.
type Config struct {
	Level      LogLevel
	Output     io.Writer
	JSON       bool
	TimeFormat string
}

// DefaultConfig logs info and above to stderr.
func DefaultConfig() *Config {
	return &Config{
		Level:      InfoLevel,
		Output:     os.Stderr,
		TimeFormat: "15:04:05",
	}
}

// TestConfig discards all output.
func TestConfig() *Config {
	cfg := DefaultConfig()
	cfg.Output = io.Discard
	cfg.Level = DebugLevel
	return cfg
}

type charmLogger struct {
	l *charmlog.Logger
}

// NewLogger builds a Logger from cfg. A nil cfg means DefaultConfig.
func NewLogger(cfg *Config) Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	l := charmlog.NewWithOptions(out, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      cfg.TimeFormat,
		Level:           cfg.Level.ToCharmlogLevel(),
	})
	if cfg.JSON {
		l.SetFormatter(charmlog.JSONFormatter)
	}
	return &charmLogger{l: l}
}

// Discard returns a Logger that drops everything.
func Discard() Logger {
	return NewLogger(TestConfig())
}

func (c *charmLogger) Debug(msg string, keyvals ...any) { c.l.Debug(msg, keyvals...) }
func (c *charmLogger) Info(msg string, keyvals ...any)  { c.l.Info(msg, keyvals...) }
func (c *charmLogger) Warn(msg string, keyvals ...any)  { c.l.Warn(msg, keyvals...) }
func (c *charmLogger) Error(msg string, keyvals ...any) { c.l.Error(msg, keyvals...) }
