package platform

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ytget/likedl/internal/model"
)

// yt-dlp CLI constants
const (
	YTDLPCommand          = "yt-dlp"
	FlatPlaylistFlag      = "--flat-playlist"
	DumpSingleJSONFlag    = "--dump-single-json"
	NoQuietFlag           = "--no-quiet"
	CookiesFlag           = "--cookies"
	CookiesFromBrowserArg = "--cookies-from-browser"
	StderrTailLines       = 5
)

// Timeout constants
const (
	DefaultEnumerateTimeout = 5 * time.Minute
)

// YTDLPEnumerator lists playlist entries by running the yt-dlp binary in
// flat-playlist mode. Log lines are streamed to the caller while the JSON
// document is collected from stdout.
type YTDLPEnumerator struct {
	executable string
	timeout    time.Duration
	log        *logrus.Logger
}

// NewYTDLPEnumerator creates an enumerator for the given yt-dlp executable
func NewYTDLPEnumerator(executable string, timeout time.Duration, log *logrus.Logger) *YTDLPEnumerator {
	if executable == "" {
		executable = YTDLPCommand
	}
	return &YTDLPEnumerator{
		executable: executable,
		timeout:    timeout,
		log:        log,
	}
}

// BuildArgs builds the yt-dlp arguments for a flat enumeration of source
func (e *YTDLPEnumerator) BuildArgs(source string, creds model.Credentials) []string {
	args := []string{
		FlatPlaylistFlag,   // metadata only, no per-video extraction
		DumpSingleJSONFlag, // one JSON document on stdout
		NoQuietFlag,        // keep "Downloading item K of N" lines
	}
	args = append(args, CookieArgs(creds)...)
	return append(args, source)
}

// Enumerate runs yt-dlp and returns the raw playlist entries
func (e *YTDLPEnumerator) Enumerate(ctx context.Context, source string, creds model.Credentials, logSink func(string)) ([]model.RawEntry, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	args := e.BuildArgs(source, creds)
	cmd := exec.CommandContext(ctx, e.executable, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	e.log.WithFields(logrus.Fields{"executable": e.executable, "source": source}).Debug("Starting playlist enumeration")

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", e.executable, err)
	}

	// Lines arrive from two pipes; the sink sees them one at a time
	var sinkMu sync.Mutex
	emit := func(line string) {
		e.log.Debug(line)
		if logSink == nil {
			return
		}
		sinkMu.Lock()
		logSink(line)
		sinkMu.Unlock()
	}

	tail := newLineTail(StderrTailLines)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = readLines(stderr, func(line string) {
			tail.add(line)
			emit(line)
		})
	}()

	var payload []byte
	readErr := readLines(stdout, func(line string) {
		if strings.HasPrefix(line, "{") {
			payload = []byte(line)
			return
		}
		emit(line)
	})
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("playlist enumeration aborted: %w", ctx.Err())
		}
		return nil, fmt.Errorf("%s failed: %w: %s", e.executable, err, tail.String())
	}
	if readErr != nil {
		return nil, fmt.Errorf("failed to read %s output: %w", e.executable, readErr)
	}
	if payload == nil {
		return nil, fmt.Errorf("%s produced no playlist document", e.executable)
	}

	return ParsePlaylistJSON(payload)
}

// playlistDocument is the subset of yt-dlp's single-JSON output we read
type playlistDocument struct {
	model.RawEntry
	Type    string           `json:"_type"`
	Entries []model.RawEntry `json:"entries"`
}

// ParsePlaylistJSON decodes a yt-dlp --dump-single-json document. A document
// describing a single video yields one entry.
func ParsePlaylistJSON(data []byte) ([]model.RawEntry, error) {
	var doc playlistDocument
	if err := json.Unmarshal(bytes.TrimSpace(data), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse playlist JSON: %w", err)
	}

	if doc.Type == "playlist" || doc.Entries != nil {
		if doc.Entries == nil {
			return []model.RawEntry{}, nil
		}
		return doc.Entries, nil
	}

	return []model.RawEntry{doc.RawEntry}, nil
}

// CookieArgs returns the yt-dlp flags selecting the cookie source. A cookie
// file wins over browser extraction when both are configured.
func CookieArgs(creds model.Credentials) []string {
	switch {
	case creds.CookieFile != "":
		return []string{CookiesFlag, creds.CookieFile}
	case creds.CookiesFromBrowser != "":
		return []string{CookiesFromBrowserArg, creds.CookiesFromBrowser}
	default:
		return nil
	}
}

// readLines calls fn for every non-empty line of r without a length limit
func readLines(r io.Reader, fn func(string)) error {
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if line = strings.TrimRight(line, "\r\n"); line != "" {
			fn(line)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// lineTail keeps the last n lines written to it
type lineTail struct {
	mu    sync.Mutex
	n     int
	lines []string
}

func newLineTail(n int) *lineTail {
	return &lineTail{n: n}
}

func (t *lineTail) add(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lines = append(t.lines, line)
	if len(t.lines) > t.n {
		t.lines = t.lines[len(t.lines)-t.n:]
	}
}

func (t *lineTail) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.Join(t.lines, "; ")
}
