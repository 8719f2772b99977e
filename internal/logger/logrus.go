// Package logger builds the application logger. The terminal belongs to the
// UI, so entries go to a log file.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/ytget/likedl/internal/platform"
)

// Options configures New
type Options struct {
	Level string
	File  string // empty logs to Fallback
}

// New creates a logrus logger writing to opts.File. When the file cannot be
// opened the logger writes to fallback and the open error is returned with it.
func New(opts Options, fallback io.Writer) (*logrus.Logger, io.Closer, error) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
	})

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	log.SetOutput(fallback)
	if opts.File == "" {
		return log, nopCloser{}, nil
	}

	file, err := openLogFile(opts.File)
	if err != nil {
		return log, nopCloser{}, err
	}
	log.SetOutput(file)
	return log, file, nil
}

func openLogFile(path string) (*os.File, error) {
	if err := platform.CreateDirectoryIfNotExists(filepath.Dir(path)); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, platform.DefaultFilePermissions)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
