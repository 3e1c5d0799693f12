// Package logging builds the logrus logger shared by the server and the
// registration engine.
package logging

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// New returns a logger writing to out (stderr when nil) at the given level
// in text or json format.
func New(level, format string, out io.Writer) (*logrus.Logger, error) {
	if out == nil {
		out = os.Stderr
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrap(err, "log level")
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(lvl)
	switch format {
	case FormatJSON:
		logger.SetFormatter(&logrus.JSONFormatter{})
	case FormatText, "":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, errors.Errorf("unknown log format %q", format)
	}
	return logger, nil
}

// Nop returns a logger that discards everything. Used by tests.
func Nop() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
