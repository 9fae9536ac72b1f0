// Package logging configures the application's logrus logger. The TUI owns
// the terminal, so everything goes to a file in the data directory.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	EnvLevel     = "CASE_LOG_LEVEL"
	FileName     = "case.log"
	DefaultLevel = logrus.InfoLevel
)

// Init opens <dir>/case.log for appending and returns a logger writing to
// it. The level comes from CASE_LOG_LEVEL, then level, then info. The
// returned func closes the file.
func Init(dir, level string) (*logrus.Logger, func() error, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, FileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	log := New(f, ResolveLevel(level))
	return log, f.Close, nil
}

// New returns a logger with the application's text format.
func New(w io.Writer, level logrus.Level) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
	})
	return log
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	return New(io.Discard, logrus.PanicLevel)
}

// ResolveLevel picks CASE_LOG_LEVEL over configured; unknown names fall
// back to info.
func ResolveLevel(configured string) logrus.Level {
	for _, v := range []string{os.Getenv(EnvLevel), configured} {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if lvl, err := logrus.ParseLevel(v); err == nil {
			return lvl
		}
	}
	return DefaultLevel
}
