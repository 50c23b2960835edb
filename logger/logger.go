// Package logger builds the application logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nathoo/gridsim/config"
)

// New creates a logger from cfg. Output goes to cfg.File when set,
// otherwise to fallback. The returned close function releases the file;
// it is safe to call when no file was opened.
func New(cfg config.Log, fallback io.Writer) (*logrus.Logger, func() error, error) {
	log := logrus.New()

	// Unknown levels fall back to info.
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if strings.ToLower(cfg.Format) == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			DisableColors: cfg.File != "",
		})
	}

	closeFn := func() error { return nil }
	switch {
	case cfg.File != "":
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, closeFn, fmt.Errorf("opening log file: %w", err)
		}
		log.SetOutput(f)
		closeFn = f.Close
	case fallback != nil:
		log.SetOutput(fallback)
	default:
		log.SetOutput(io.Discard)
	}
	return log, closeFn, nil
}
