package observability

import (
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// LogFormat selects the logrus formatter
type LogFormat string

const (
	FormatText LogFormat = "text"
	FormatJSON LogFormat = "json"
)

var defaultLogger atomic.Pointer[logrus.Logger]

func init() {
	defaultLogger.Store(NewLogger(logrus.InfoLevel, FormatText, os.Stderr))
}

// NewLogger creates a logrus logger with the given level, format and output
func NewLogger(level logrus.Level, format LogFormat, output io.Writer) *logrus.Logger {
	if output == nil {
		output = os.Stderr
	}

	logger := logrus.New()
	logger.SetOutput(output)
	logger.SetLevel(level)

	switch format {
	case FormatJSON:
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}

// ParseLevel parses a log level string, falling back to info
func ParseLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "warning":
		return logrus.WarnLevel
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// Log returns the package-wide logger used by the core packages
func Log() *logrus.Logger {
	return defaultLogger.Load()
}

// SetLogger replaces the package-wide logger. A nil logger is ignored.
func SetLogger(logger *logrus.Logger) {
	if logger == nil {
		return
	}
	defaultLogger.Store(logger)
}

// OrDefault returns logger, or the package-wide logger when logger is nil
func OrDefault(logger *logrus.Logger) *logrus.Logger {
	if logger == nil {
		return Log()
	}
	return logger
}
