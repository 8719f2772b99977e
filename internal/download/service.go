package download

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ytget/likedl/internal/model"
	"github.com/ytget/likedl/internal/platform"
)

// StagingDirName is the directory inside the downloads directory where
// transfers live until they are complete
const StagingDirName = ".incomplete"

// DefaultProgressInterval limits intermediate progress events per item
const DefaultProgressInterval = 250 * time.Millisecond

// Service runs download batches
type Service struct {
	downloader  ItemDownloader
	verifier    Verifier // optional
	downloadDir string
	creds       model.Credentials
	interval    time.Duration
	now         func() time.Time
	log         *logrus.Logger
}

// NewService creates a batch service writing into downloadDir. verifier may
// be nil; interval <= 0 selects DefaultProgressInterval.
func NewService(downloader ItemDownloader, verifier Verifier, downloadDir string, creds model.Credentials, interval time.Duration, log *logrus.Logger) *Service {
	if interval <= 0 {
		interval = DefaultProgressInterval
	}
	return &Service{
		downloader:  downloader,
		verifier:    verifier,
		downloadDir: downloadDir,
		creds:       creds,
		interval:    interval,
		now:         time.Now,
		log:         log,
	}
}

// RunBatch downloads items in order. Failures are recorded and the loop
// moves on; the returned summary is also delivered with EventBatchCompleted.
func (s *Service) RunBatch(ctx context.Context, items []model.Item, store ManifestStore, sink ProgressFunc) *model.BatchSummary {
	emit := func(event model.ProgressEvent) {
		if sink != nil {
			sink(event)
		}
	}

	summary := model.NewBatchSummary(len(items))
	summary.Status = model.BatchStatusInProgress
	summary.StartedAt = s.now()

	stagingDir := filepath.Join(s.downloadDir, StagingDirName)
	if err := platform.CreateDirectoryIfNotExists(stagingDir); err != nil {
		s.log.WithError(err).Warn("Failed to create staging directory")
	}

	s.log.WithFields(logrus.Fields{"items": len(items), "dir": s.downloadDir}).Info("Starting batch")

	for i, item := range items {
		progress := model.BatchProgress{Index: i + 1, Total: len(items), Title: item.Title}
		result, last := s.runItem(ctx, item, progress, stagingDir, store, summary, emit)

		summary.Record(result)
		finished := result
		emit(model.ProgressEvent{Type: model.EventItemFinished, Status: result.Status, Progress: last, Result: &finished})
	}

	s.saveManifest(store, summary)

	// Only removes the staging directory when nothing is left in it
	_ = os.Remove(stagingDir)

	summary.Status = model.BatchStatusCompleted
	summary.FinishedAt = s.now()

	s.log.WithFields(logrus.Fields{
		"succeeded": summary.Succeeded,
		"failed":    summary.Failed,
		"elapsed":   summary.Elapsed(),
	}).Info("Batch completed")

	emit(model.ProgressEvent{
		Type:     model.EventBatchCompleted,
		Progress: model.BatchProgress{Index: len(items), Total: len(items)},
		Summary:  summary,
	})
	return summary
}

// runItem downloads one item and returns its result and final progress
func (s *Service) runItem(ctx context.Context, item model.Item, progress model.BatchProgress, stagingDir string, store ManifestStore, summary *model.BatchSummary, emit ProgressFunc) (model.DownloadResult, model.BatchProgress) {
	entry := s.log.WithFields(logrus.Fields{
		"id":    item.ID,
		"url":   item.URL(),
		"title": item.Title,
		"index": progress.Index,
	})

	emit(model.ProgressEvent{Type: model.EventItemStarted, Status: model.ItemStatusDownloading, Progress: progress})
	entry.Info("Downloading item")

	if err := platform.ValidateID(item.ID); err != nil {
		entry.WithError(err).Error("Download skipped")
		return model.DownloadResult{Item: item, Status: model.ItemStatusFailed, Err: err}, progress
	}

	stem := filepath.Join(stagingDir, item.ID)
	if err := platform.RemoveWithPrefix(stem); err != nil {
		entry.WithError(err).Debug("Failed to clear stale staging files")
	}

	reporter := newItemReporter(progress, s.interval, s.now, emit)
	err := s.downloader.Download(ctx, item.ID, stem, s.creds, reporter.onBytes)
	last := reporter.finish()

	var path string
	if err == nil {
		path, err = s.finalize(ctx, item, stem)
	}

	if err != nil {
		if cleanupErr := platform.RemoveWithPrefix(stem); cleanupErr != nil {
			entry.WithError(cleanupErr).Warn("Failed to remove partial files")
		}
		entry.WithError(err).Error("Download failed")
		return model.DownloadResult{Item: item, Status: model.ItemStatusFailed, Err: err}, last
	}

	last.Percent = 100
	if last.TotalBytes > 0 {
		last.DownloadedBytes = last.TotalBytes
	}
	emit(model.ProgressEvent{Type: model.EventItemProgress, Status: model.ItemStatusDownloading, Progress: last})

	store.MarkDownloaded(item.ID)
	s.saveManifest(store, summary)

	entry.WithField("path", path).Info("Download completed")
	return model.DownloadResult{Item: item, Status: model.ItemStatusSucceeded, Path: path}, last
}

// finalize verifies the staged file and moves it to its final name
func (s *Service) finalize(ctx context.Context, item model.Item, stem string) (string, error) {
	staged, err := platform.FindOutputFile(stem, platform.AudioExtension)
	if err != nil {
		return "", fmt.Errorf("no audio file produced: %w", err)
	}

	if s.verifier != nil {
		if err := s.verifier.Verify(ctx, staged); err != nil {
			return "", fmt.Errorf("audio verification failed: %w", err)
		}
	}

	dst := filepath.Join(s.downloadDir, platform.SanitizeFilename(item.Channel, item.Title))
	if err := platform.MoveFile(staged, dst); err != nil {
		return "", fmt.Errorf("failed to move %s: %w", filepath.Base(staged), err)
	}
	return dst, nil
}

// saveManifest persists the store. A failed save keeps the in-memory marks
// and is reported through the summary until a later save succeeds.
func (s *Service) saveManifest(store ManifestStore, summary *model.BatchSummary) {
	if err := store.Save(); err != nil {
		s.log.WithError(err).Error("Failed to save manifest")
		summary.ManifestErr = err
		return
	}
	summary.ManifestErr = nil
}
