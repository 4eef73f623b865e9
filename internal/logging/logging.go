package logging

import (
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/tgienger/ainotes/internal/config"
)

// New builds a logger writing to cfg.File. The TUI owns the terminal, so
// nothing is written to stdout or stderr. DEBUG=true forces the debug level.
func New(cfg config.LogConfig) (*log.Logger, io.Closer, error) {
	level, err := Level(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	logger := log.New()
	logger.SetLevel(level)
	logger.SetFormatter(&log.TextFormatter{FullTimestamp: true, DisableColors: true})

	if cfg.File == "" {
		logger.SetOutput(io.Discard)
		return logger, io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, nil, errors.Wrap(err, "create log directory")
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open log file")
	}
	logger.SetOutput(f)
	return logger, f, nil
}

// Level parses name, defaulting to info when empty
func Level(name string) (log.Level, error) {
	if dbg, err := strconv.ParseBool(os.Getenv("DEBUG")); err == nil && dbg {
		return log.DebugLevel, nil
	}
	if name == "" {
		return log.InfoLevel, nil
	}
	level, err := log.ParseLevel(name)
	if err != nil {
		return 0, errors.Wrapf(err, "log level %q", name)
	}
	return level, nil
}
