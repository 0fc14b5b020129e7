package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Config captures logging configuration options.
type Config struct {
	Level string
	Dir   string
	File  string
}

// Logger wraps the process-wide logrus instance and hands out
// component-tagged entries.
type Logger struct {
	base *logrus.Logger
}

// New creates a Logger from config. When Dir/File are set the output is
// duplicated to a log file next to stderr.
func New(cfg Config) (*Logger, error) {
	base := logrus.New()
	base.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	base.SetLevel(level)

	if cfg.Dir != "" && cfg.File != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(filepath.Join(cfg.Dir, cfg.File), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		base.SetOutput(io.MultiWriter(os.Stderr, f))
	}

	return &Logger{base: base}, nil
}

// Discard returns a logger that drops everything, for tests.
func Discard() *Logger {
	base := logrus.New()
	base.SetOutput(io.Discard)
	return &Logger{base: base}
}

// Component returns an entry tagged with the originating component, e.g.
// "http", "diagram", "storage".
func (l *Logger) Component(name string) *logrus.Entry {
	return l.base.WithField("component", name)
}

// Raw exposes the underlying logrus logger for integrations that need it.
func (l *Logger) Raw() *logrus.Logger {
	return l.base
}
