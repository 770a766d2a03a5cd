package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Format selects the log encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Config describes a logger.
type Config struct {
	Level  string
	Format Format
	// Output defaults to stderr so reports on stdout stay clean.
	Output io.Writer
}

// New builds a logrus logger from cfg. An empty level means info.
func New(cfg Config) (*logrus.Logger, error) {
	l := logrus.New()
	level := logrus.InfoLevel
	if s := strings.TrimSpace(cfg.Level); s != "" {
		lv, err := logrus.ParseLevel(s)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		level = lv
	}
	l.SetLevel(level)

	switch cfg.Format {
	case FormatJSON:
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	case FormatText, "":
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
	default:
		return nil, fmt.Errorf("unsupported log format: %s", cfg.Format)
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	l.SetOutput(out)
	return l, nil
}
