// Package logger wraps a process-wide logrus logger.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	defaultLogger *logrus.Logger

	mu     sync.Mutex
	output io.Writer = os.Stderr
	silent bool
)

func init() {
	defaultLogger = logrus.New()
	defaultLogger.SetOutput(output)
	defaultLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	isTest := os.Getenv("GO_ENV") == "test"

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		if isTest {
			logLevel = "silent"
		} else {
			logLevel = "warn"
		}
	}
	if err := ConfigureFromString(logLevel); err != nil {
		defaultLogger.SetLevel(logrus.WarnLevel)
	}
}

// WithName creates a child logger with a name field
func WithName(name string) *logrus.Entry {
	return defaultLogger.WithField("name", name)
}

// SetOutput redirects log output. While silent the writer is remembered
// and takes effect once a non-silent level is configured.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	if !silent {
		defaultLogger.SetOutput(w)
	}
}

// ConfigureFromString applies a level name from config or flags. "silent"
// discards all output until another level is applied. GO_ENV=test always
// wins.
func ConfigureFromString(levelStr string) error {
	mu.Lock()
	defer mu.Unlock()

	if os.Getenv("GO_ENV") == "test" || strings.EqualFold(strings.TrimSpace(levelStr), "silent") {
		silent = true
		defaultLogger.SetOutput(io.Discard)
		return nil
	}

	level, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(levelStr)))
	if err != nil {
		return err
	}
	silent = false
	defaultLogger.SetOutput(output)
	defaultLogger.SetLevel(level)
	return nil
}
