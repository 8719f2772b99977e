// Package probe checks finished audio files with ffprobe.
package probe

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// ffprobe invocation constants
const (
	FFprobeCommand      = "ffprobe"
	FFprobeLogLevel     = "error"
	FFprobeShowEntries  = "format=duration"
	FFprobeOutputFormat = "csv=p=0"
)

// Service verifies audio files
type Service struct {
	executable string
	log        *logrus.Logger
}

// NewService creates a verifier running executable (ffprobe when empty)
func NewService(executable string, log *logrus.Logger) *Service {
	if executable == "" {
		executable = FFprobeCommand
	}
	return &Service{executable: executable, log: log}
}

// BuildFFprobeArgs returns the arguments that print only the container duration
func BuildFFprobeArgs(path string) []string {
	return []string{
		"-v", FFprobeLogLevel,
		"-show_entries", FFprobeShowEntries,
		"-of", FFprobeOutputFormat,
		path,
	}
}

// Duration returns the playback duration reported by ffprobe
func (s *Service) Duration(ctx context.Context, path string) (time.Duration, error) {
	if _, err := os.Stat(path); err != nil {
		return 0, fmt.Errorf("cannot probe %s: %w", path, err)
	}

	cmd := exec.CommandContext(ctx, s.executable, BuildFFprobeArgs(path)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return 0, fmt.Errorf("failed to run ffprobe: %w: %s", err, msg)
		}
		return 0, fmt.Errorf("failed to run ffprobe: %w", err)
	}

	return ParseDuration(string(output))
}

// Verify rejects files without a positive duration
func (s *Service) Verify(ctx context.Context, path string) error {
	duration, err := s.Duration(ctx, path)
	if err != nil {
		return err
	}
	if duration <= 0 {
		return fmt.Errorf("file has no playable audio: %s", path)
	}

	s.log.WithFields(logrus.Fields{"path": path, "duration": duration}).Debug("Verified audio file")
	return nil
}

// ParseDuration parses ffprobe's seconds output ("215.324000") with
// millisecond precision
func ParseDuration(output string) (time.Duration, error) {
	value := strings.TrimSpace(output)
	if i := strings.IndexByte(value, '\n'); i >= 0 {
		value = strings.TrimSpace(value[:i])
	}

	seconds, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration %q: %w", value, err)
	}
	if seconds < 0 {
		return 0, nil
	}
	return time.Duration(math.Round(seconds*1000)) * time.Millisecond, nil
}
