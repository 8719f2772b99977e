package download

import (
	"sync"
	"time"

	"github.com/ytget/likedl/internal/model"
)

// itemReporter turns byte callbacks for one item into throttled progress
// events. Callbacks arriving after finish are dropped.
type itemReporter struct {
	mu       sync.Mutex
	progress model.BatchProgress
	interval time.Duration
	now      func() time.Time
	emit     ProgressFunc
	lastEmit time.Time
	emitted  bool
	done     bool
}

func newItemReporter(progress model.BatchProgress, interval time.Duration, now func() time.Time, emit ProgressFunc) *itemReporter {
	return &itemReporter{
		progress: progress,
		interval: interval,
		now:      now,
		emit:     emit,
	}
}

// onBytes is handed to the downloader
func (r *itemReporter) onBytes(downloaded, total int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.done {
		return
	}

	r.progress.DownloadedBytes = downloaded
	r.progress.TotalBytes = total
	r.progress.Percent = Percent(downloaded, total)

	now := r.now()
	if r.emitted && now.Sub(r.lastEmit) < r.interval {
		return
	}
	r.emitted = true
	r.lastEmit = now

	r.emit(model.ProgressEvent{Type: model.EventItemProgress, Status: model.ItemStatusDownloading, Progress: r.progress})
}

// finish stops forwarding callbacks and returns the last known progress
func (r *itemReporter) finish() model.BatchProgress {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.done = true
	return r.progress
}

// Percent converts a byte count to 0..100; 0 when total is unknown
func Percent(downloaded, total int64) float64 {
	if total <= 0 || downloaded <= 0 {
		return 0
	}
	p := float64(downloaded) / float64(total) * 100
	if p > 100 {
		return 100
	}
	return p
}
