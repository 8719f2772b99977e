package download

import (
	"context"

	"github.com/ytget/likedl/internal/model"
)

// ItemDownloader fetches one item and writes outputStem.mp3.
// onBytes may be called from another goroutine; total is 0 when unknown.
type ItemDownloader interface {
	Download(ctx context.Context, id, outputStem string, creds model.Credentials, onBytes func(downloaded, total int64)) error
}

// Verifier checks a finished audio file before it is moved into place
type Verifier interface {
	Verify(ctx context.Context, path string) error
}

// ManifestStore records completed items
type ManifestStore interface {
	MarkDownloaded(id string)
	Save() error
}

// ProgressFunc receives batch events in emission order
type ProgressFunc func(model.ProgressEvent)
