package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// Configure sets the process-wide level and formatter. Logs go to stderr:
// text on a terminal, JSON otherwise.
func Configure(level string) error {
	return ConfigureOutput(os.Stderr, level)
}

func ConfigureOutput(out io.Writer, level string) error {
	level = strings.TrimSpace(level)
	if level == "" {
		level = "info"
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid ROAMER_LOG_LEVEL %q: %w", level, err)
	}
	logrus.SetLevel(parsed)
	logrus.SetOutput(out)
	if isTerminal(out) {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.TimeOnly})
	} else {
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	}
	return nil
}

func NewModuleLogger(module string) logrus.FieldLogger {
	return logrus.WithField("module", module)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
