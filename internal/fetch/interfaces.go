package fetch

import (
	"context"

	"github.com/ytget/likedl/internal/model"
)

// Enumerator lists the entries of a playlist without downloading media.
// logSink receives the tool's log lines as they are produced.
type Enumerator interface {
	Enumerate(ctx context.Context, source string, creds model.Credentials, logSink func(string)) ([]model.RawEntry, error)
}

// ProgressFunc receives "processing entry current of total" updates.
// Calls are not throttled.
type ProgressFunc func(current, total int)
